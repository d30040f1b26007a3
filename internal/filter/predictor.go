package filter

import "github.com/pkg/errors"

// undoPredictor reverses the pre-compression prediction declared in p.
//
// Predictor 1 is no prediction. Predictor 2 is the TIFF horizontal
// differencing predictor. Predictors 10-15 are the PNG row filters,
// of which only None (0) and Sub (1) occur in the wild for PDF;
// Up, Average and Paeth rows are reported as unsupported rather than
// silently mis-decoded.
func undoPredictor(p Params, data []byte) ([]byte, error) {
	switch {
	case p.Predictor <= 1:
		return data, nil
	case p.Predictor == 2:
		return undoTIFF(p, data), nil
	case p.Predictor >= 10 && p.Predictor <= 15:
		return undoPNG(p, data)
	}
	return nil, errors.Wrapf(ErrBadPredictor, "predictor %d", p.Predictor)
}

func undoTIFF(p Params, data []byte) []byte {
	rowSize := (p.Columns*p.Colors*p.BitsPerComponent + 7) / 8
	if rowSize <= 0 {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i += rowSize {
		row := append([]byte(nil), data[i:min(i+rowSize, len(data))]...)
		for j := p.Colors; j < len(row); j++ {
			row[j] += row[j-p.Colors]
		}
		out = append(out, row...)
	}
	return out
}

func undoPNG(p Params, data []byte) ([]byte, error) {
	// Each row is prefixed by a one-byte filter type.
	rowSize := p.Columns*p.Colors*p.BitsPerComponent/8 + 1
	if rowSize <= 1 {
		return data, nil
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i += rowSize {
		if i+1 > len(data) {
			break
		}
		ft := data[i]
		row := append([]byte(nil), data[i+1:min(i+rowSize, len(data))]...)
		switch ft {
		case 0: // None
		case 1: // Sub
			for j := p.Colors; j < len(row); j++ {
				row[j] += row[j-p.Colors]
			}
		default: // Up, Average, Paeth
			return nil, errors.Wrapf(ErrUnsupportedPredictor, "PNG filter type %d", ft)
		}
		out = append(out, row...)
	}
	return out, nil
}
