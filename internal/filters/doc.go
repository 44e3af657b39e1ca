// Package filters implements the stream filters the ripper understands.
//
// Only FlateDecode (zlib) is supported. Predictor parameters from
// /DecodeParms are honoured:
//
//	decoded, err := filters.FlateDecode(data, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   5,
//	})
//
// Predictor 1 is identity, 2 is TIFF Predictor 2 and 10-15 select the PNG
// row filters (None, Sub, Up, Average, Paeth) chosen per row.
package filters
