package core

import (
	"fmt"

	"github.com/tsawler/ripper/internal/filters"
)

// DecodeStream inflates the object's raw stream bytes with Flate (zlib).
// Predictor parameters from /DecodeParms are applied. No other filter is
// supported; check HasFlateFilter before calling when that matters.
func DecodeStream(obj *IndirectObject) ([]byte, error) {
	if obj == nil || len(obj.Stream) == 0 {
		return nil, fmt.Errorf("%w: no stream data", ErrStreamDecompressionFailed)
	}

	data, err := filters.FlateDecode(obj.Stream, decodeParams(obj.Dict))
	if err != nil {
		return nil, fmt.Errorf("%w: object %d: %w", ErrStreamDecompressionFailed, obj.Number, err)
	}
	return data, nil
}

// decodeParams reads /DecodeParms, taking the first entry when it is an array.
func decodeParams(dict Dict) filters.Params {
	var params Dict
	switch p := dict.Get("DecodeParms").(type) {
	case Dict:
		params = p
	case Array:
		if len(p) > 0 {
			params, _ = p[0].(Dict)
		}
	}
	return dictToParams(params)
}

// dictToParams converts a Dict to filters.Params, translating PDF object
// types to Go primitive types (Int->int, Real->float64, Bool->bool, etc.).
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params)
	for _, e := range dict {
		if _, seen := params[string(e.Key)]; seen {
			continue
		}
		switch obj := Interpret(e.Value).(type) {
		case Int:
			params[string(e.Key)] = int(obj)
		case Real:
			params[string(e.Key)] = float64(obj)
		case Bool:
			params[string(e.Key)] = bool(obj)
		case Name:
			params[string(e.Key)] = string(obj)
		case String:
			params[string(e.Key)] = obj.Text()
		default:
			params[string(e.Key)] = obj
		}
	}
	return params
}
