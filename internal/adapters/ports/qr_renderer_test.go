package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseErrorCorrection(t *testing.T) {
	tests := []struct {
		input string
		want  ErrorCorrection
	}{
		{input: "low", want: ErrorCorrectionLow},
		{input: "M", want: ErrorCorrectionMedium},
		{input: "high", want: ErrorCorrectionHigh},
		{input: "q", want: ErrorCorrectionHigh},
		{input: "Highest", want: ErrorCorrectionHighest},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseErrorCorrection(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseErrorCorrection("ultra")
	assert.Error(t, err)
	assert.Equal(t, "highest", ErrorCorrectionHighest.String())
	assert.Equal(t, "low", ErrorCorrectionLow.String())
}
