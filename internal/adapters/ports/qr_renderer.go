package ports

import (
	"context"
	"fmt"
	"strings"
)

// ErrorCorrection is the redundancy tier of a rendered QR symbol
type ErrorCorrection int

const (
	ErrorCorrectionLow ErrorCorrection = iota
	ErrorCorrectionMedium
	ErrorCorrectionHigh
	ErrorCorrectionHighest
)

// ParseErrorCorrection maps low/medium/high/highest, any case, or the
// single letter forms L/M/Q/H
func ParseErrorCorrection(s string) (ErrorCorrection, error) {
	switch strings.ToLower(s) {
	case "low", "l":
		return ErrorCorrectionLow, nil
	case "medium", "m":
		return ErrorCorrectionMedium, nil
	case "high", "q":
		return ErrorCorrectionHigh, nil
	case "highest", "h":
		return ErrorCorrectionHighest, nil
	}
	return 0, fmt.Errorf("unknown error correction level %q", s)
}

func (e ErrorCorrection) String() string {
	switch e {
	case ErrorCorrectionMedium:
		return "medium"
	case ErrorCorrectionHigh:
		return "high"
	case ErrorCorrectionHighest:
		return "highest"
	default:
		return "low"
	}
}

// QRRenderer turns a finished payload text into a PNG image.
// Identical input must produce identical bytes.
type QRRenderer interface {
	Render(ctx context.Context, content string, level ErrorCorrection, size int) ([]byte, error)
}
