package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 12.35, RoundWithTwoDecimalPlace(12.345))
	assert.Equal(t, 3.33, RoundWithTwoDecimalPlace(10.0/3))
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "1234", want: 1234},
		{input: " 12.5 ", want: 12.5},
		{input: "", want: 0},
		{input: "   ", want: 0},
		{input: "abc", wantErr: true},
		{input: "12,5", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNumber(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
