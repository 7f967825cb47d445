package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+\.?\d*`)

// scaleWords maps Chinese order-of-magnitude words to their multiplier.
// Checked in order; the first word found in the input wins. Spelled-out
// numerals (兩萬 and the like) are not recognized — only a digit run combined
// with a scale word is supported, and callers should coach users toward
// digit input.
var scaleWords = []struct {
	words  []string
	factor float64
}{
	{[]string{"萬", "万"}, 10_000},
	{[]string{"億", "亿"}, 100_000_000},
	{[]string{"千", "仟"}, 1_000},
	{[]string{"百"}, 100},
}

// ExtractValue pulls a single numeric magnitude out of free-form text,
// scaling it by any order-of-magnitude word found anywhere in the input.
// Text with no digit yields 0; this is the defined zero value, not an error.
func ExtractValue(input string) float64 {
	cleaned := strings.ReplaceAll(strings.Join(strings.Fields(input), ""), ",", "")

	match := digitRun.FindString(cleaned)
	if match == "" {
		return 0
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	for _, scale := range scaleWords {
		for _, word := range scale.words {
			if strings.Contains(cleaned, word) {
				return value * scale.factor
			}
		}
	}
	return value
}
