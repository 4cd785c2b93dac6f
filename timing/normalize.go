package timing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dollarRe   = regexp.MustCompile(`\$(\d+(?:\.\d+)?)`)
	percentRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	yearRe     = regexp.MustCompile(`\b(19|20)(\d\d)\b`)
	decimalRe  = regexp.MustCompile(`\b(\d+)\.(\d+)\b`)
	integerRe  = regexp.MustCompile(`\d+`)
	strippedRe = regexp.MustCompile(`[^a-z0-9 ]+`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// NormalizeSpoken rewrites text into the form used to estimate how long it
// takes to speak it. The stored block text is never mutated; only the
// estimator consumes the normalized form.
//
// Order matters: currency and percent signs expand first so the amounts are
// still adjacent to their markers, then year-shaped numbers, then decimals,
// then every remaining bare integer.
func NormalizeSpoken(text string) string {
	s := strings.ToLower(text)
	s = dollarRe.ReplaceAllString(s, "$1 us dollars")
	s = percentRe.ReplaceAllString(s, "$1 percent")
	s = yearRe.ReplaceAllStringFunc(s, expandYear)
	s = decimalRe.ReplaceAllStringFunc(s, expandDecimal)
	s = integerRe.ReplaceAllStringFunc(s, expandInteger)
	s = strippedRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// expandYear turns "1999" into "nineteen ninety nine": the two 2-digit
// groups spoken separately, the way a narrator reads a year.
func expandYear(match string) string {
	century, _ := strconv.Atoi(match[:2])
	rest, _ := strconv.Atoi(match[2:])
	return NumberToWords(century) + " " + NumberToWords(rest)
}

func expandDecimal(match string) string {
	parts := strings.SplitN(match, ".", 2)
	whole, _ := strconv.Atoi(parts[0])
	frac, _ := strconv.Atoi(parts[1])
	return NumberToWords(whole) + " point " + NumberToWords(frac)
}

func expandInteger(match string) string {
	n, err := strconv.Atoi(match)
	if err != nil {
		return spellDigits(match)
	}
	return NumberToWords(n)
}
