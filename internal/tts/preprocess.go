package tts

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	digitRun = regexp.MustCompile(`\d+`)

	// Common title abbreviations expanded before synthesis.
	abbreviations = []struct{ abbr, full string }{
		{"Dr.", "Doctor"},
		{"Mr.", "Mister"},
		{"Mrs.", "Misses"},
		{"Ms.", "Miss"},
		{"Prof.", "Professor"},
	}

	ones  = []string{"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine"}
	tens  = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
	teens = []string{"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
)

// NumberToWords spells out a non-negative integer in English, hundreds
// joined with "and" ("one hundred and five"). Numbers with more than three
// digits are spelled per hundreds group recursively.
func NumberToWords(n int) string {
	switch {
	case n < 0:
		return strconv.Itoa(n)
	case n == 0:
		return "zero"
	}
	return numberToWords(n)
}

func numberToWords(n int) string {
	switch {
	case n < 10:
		return ones[n]
	case n < 20:
		return teens[n-10]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + "-" + ones[n%10]
	case n < 1000:
		head := ones[n/100] + " hundred"
		if n%100 == 0 {
			return head
		}
		return head + " and " + numberToWords(n%100)
	default:
		return numberToWords(n/1000) + " thousand" + remainder(n%1000)
	}
}

func remainder(n int) string {
	if n == 0 {
		return ""
	}
	return " " + numberToWords(n)
}

// Preprocess prepares raw text for synthesis: digit runs become words and
// known abbreviations are expanded.
func Preprocess(text string) string {
	text = digitRun.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.Atoi(m)
		if err != nil {
			return m
		}
		return NumberToWords(n)
	})
	for _, a := range abbreviations {
		text = strings.ReplaceAll(text, a.abbr, a.full)
	}
	return text
}
