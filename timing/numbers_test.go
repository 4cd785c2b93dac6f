package timing

import "testing"

func TestNumberToWords(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "zero"},
		{5, "five"},
		{13, "thirteen"},
		{20, "twenty"},
		{42, "forty two"},
		{100, "one hundred"},
		{105, "one hundred and five"},
		{342, "three hundred and forty two"},
		{1000, "one thousand"},
		{1999, "one thousand nine hundred and ninety nine"},
		{20_000, "twenty thousand"},
		{42_001, "forty two thousand one"},
		{1_000_000, "one million"},
		{2_500_000, "two million five hundred thousand"},
		{999_999_999, "nine hundred and ninety nine million nine hundred and ninety nine thousand nine hundred and ninety nine"},
	}
	for _, tc := range cases {
		if got := NumberToWords(tc.n); got != tc.want {
			t.Errorf("NumberToWords(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestNumberToWordsOutOfRange(t *testing.T) {
	// beyond the scale words, digits are spelled one by one
	if got := NumberToWords(1_000_000_000); got != "one zero zero zero zero zero zero zero zero zero" {
		t.Errorf("unexpected spelling for 1e9: %q", got)
	}
	if got := NumberToWords(-7); got != "seven" {
		t.Errorf("unexpected spelling for -7: %q", got)
	}
}
