package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain number", "250 個", 250},
		{"decimal", "3.5 小時", 3.5},
		{"comma separated", "1,000 元", 1000},
		{"wan traditional", "150萬 元", 1_500_000},
		{"wan simplified", "50万", 500_000},
		{"yi", "2億", 200_000_000},
		{"qian", "3千 元", 3_000},
		{"bai", "5百", 500},
		{"scale word with spaces", "預計帶來 150 萬 營收", 1_500_000},
		{"decimal with scale", "10.5萬", 105_000},
		{"no digits", "很多錢", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractValue(tt.input))
		})
	}
}

func TestExtractValue_FirstScaleWordWins(t *testing.T) {
	// 萬 is checked before 千, regardless of position in the text.
	assert.Equal(t, float64(20_000), ExtractValue("2萬 約等於 20千"))
}

func TestExtractValue_FirstDigitRunWins(t *testing.T) {
	assert.Equal(t, float64(300_000), ExtractValue("30萬 到 50萬 之間"))
}
