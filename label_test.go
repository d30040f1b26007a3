package pdf

import "testing"

func Test_toRoman(t *testing.T) {
	testCases := map[int]string{
		0:    "",
		1:    "i",
		4:    "iv",
		9:    "ix",
		14:   "xiv",
		40:   "xl",
		90:   "xc",
		444:  "cdxliv",
		1987: "mcmlxxxvii",
		3999: "mmmcmxcix",
	}
	for n, want := range testCases {
		if got := toRoman(n); got != want {
			t.Errorf("toRoman(%d) = %q, want %q", n, got, want)
		}
	}
}

func Test_toAlpha(t *testing.T) {
	testCases := map[int]string{
		0:   "",
		1:   "A",
		2:   "B",
		26:  "Z",
		27:  "AA",
		52:  "AZ",
		53:  "BA",
		702: "ZZ",
		703: "AAA",
	}
	for n, want := range testCases {
		if got := toAlpha(n); got != want {
			t.Errorf("toAlpha(%d) = %q, want %q", n, got, want)
		}
	}
}
