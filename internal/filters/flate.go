package filters

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
)

// Params holds decode parameters from a stream's /DecodeParms dictionary,
// already converted to Go values.
type Params map[string]interface{}

// FlateDecode inflates zlib data and then undoes the predictor named in
// params, if any.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	inflated, err := inflate(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	predictor := params.Int("Predictor", 1)
	if predictor == 1 {
		return inflated, nil
	}

	p := rowLayout{
		colors:  params.Int("Colors", 1),
		bpc:     params.Int("BitsPerComponent", 8),
		columns: params.Int("Columns", 1),
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}

	switch {
	case predictor == 2:
		return p.undoTIFF(inflated)
	case predictor >= 10 && predictor <= 15:
		return p.undoPNG(inflated)
	}
	return nil, fmt.Errorf("unsupported predictor: %d", predictor)
}

// inflate reads a whole zlib stream. A stream whose deflate data is
// complete but whose Adler-32 checksum is missing still yields its output;
// deflate data cut short is an error.
func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	// zlib.NewReader accepted the two-byte header, so the deflate data
	// starts at data[2:]. A nil error means the final block was read.
	fr := flate.NewReader(bytes.NewReader(data[2:]))
	defer fr.Close()
	out, ferr := io.ReadAll(fr)
	if ferr != nil {
		return nil, err
	}
	return out, nil
}

// Int returns the integer parameter key, or def when it is absent or not a number.
func (p Params) Int(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// rowLayout describes the sample layout a predictor works on.
type rowLayout struct {
	colors  int
	bpc     int
	columns int
}

func (l rowLayout) validate() error {
	if l.bpc != 8 {
		return fmt.Errorf("only 8 bits per component are supported, got %d", l.bpc)
	}
	if l.colors < 1 || l.columns < 1 {
		return fmt.Errorf("invalid layout: %d colors, %d columns", l.colors, l.columns)
	}
	return nil
}

func (l rowLayout) rowBytes() int { return l.colors * l.columns }

// undoTIFF reverses TIFF Predictor 2: each sample is stored as the
// difference from the sample one pixel to its left.
func (l rowLayout) undoTIFF(data []byte) ([]byte, error) {
	n := l.rowBytes()
	if len(data)%n != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), n)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for row := 0; row < len(out); row += n {
		for i := l.colors; i < n; i++ {
			out[row+i] += out[row+i-l.colors]
		}
	}
	return out, nil
}

// undoPNG reverses PNG row filters. Every row starts with its filter type.
func (l rowLayout) undoPNG(data []byte) ([]byte, error) {
	n := l.rowBytes()
	stride := n + 1
	if len(data)%stride != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), stride)
	}

	out := make([]byte, 0, len(data)/stride*n)
	prev := make([]byte, n)
	for row := 0; row < len(data); row += stride {
		filter := data[row]
		cur := make([]byte, n)
		copy(cur, data[row+1:row+stride])

		for i := range cur {
			var left, upLeft byte
			if i >= l.colors {
				left = cur[i-l.colors]
				upLeft = prev[i-l.colors]
			}
			up := prev[i]

			switch filter {
			case 0:
			case 1:
				cur[i] += left
			case 2:
				cur[i] += up
			case 3:
				cur[i] += byte((int(left) + int(up)) / 2)
			case 4:
				cur[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("row %d: unknown PNG filter type %d", row/stride, filter)
			}
		}

		out = append(out, cur...)
		prev = cur
	}
	return out, nil
}

// paeth picks whichever of left, up and upper-left is nearest to left+up-upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
