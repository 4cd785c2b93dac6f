package timing

import (
	"strconv"
	"strings"
)

var smallWords = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven",
	"eight", "nine", "ten", "eleven", "twelve", "thirteen", "fourteen",
	"fifteen", "sixteen", "seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty",
	"sixty", "seventy", "eighty", "ninety",
}

// NumberToWords spells n in English using hundred/thousand/million scale
// words, with "and" after a hundreds group when a remainder follows
// ("one hundred and five"). Values outside 0..999,999,999 are spelled
// digit by digit.
func NumberToWords(n int) string {
	if n < 0 || n > 999_999_999 {
		return spellDigits(strconv.Itoa(n))
	}
	if n == 0 {
		return "zero"
	}

	var parts []string
	if m := n / 1_000_000; m > 0 {
		parts = append(parts, threeDigitWords(m), "million")
	}
	if t := (n / 1000) % 1000; t > 0 {
		parts = append(parts, threeDigitWords(t), "thousand")
	}
	if r := n % 1000; r > 0 {
		parts = append(parts, threeDigitWords(r))
	}
	return strings.Join(parts, " ")
}

// threeDigitWords spells 1..999.
func threeDigitWords(n int) string {
	var parts []string
	if n >= 100 {
		parts = append(parts, smallWords[n/100], "hundred")
		n %= 100
		if n > 0 {
			parts = append(parts, "and")
		}
	}
	switch {
	case n == 0:
	case n < 20:
		parts = append(parts, smallWords[n])
	case n%10 == 0:
		parts = append(parts, tensWords[n/10])
	default:
		parts = append(parts, tensWords[n/10], smallWords[n%10])
	}
	return strings.Join(parts, " ")
}

func spellDigits(s string) string {
	var parts []string
	for _, r := range s {
		if r >= '0' && r <= '9' {
			parts = append(parts, smallWords[r-'0'])
		}
	}
	return strings.Join(parts, " ")
}
