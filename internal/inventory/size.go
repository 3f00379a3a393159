package inventory

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownSizeSortKey orders empty or non-numeric sizes after every numeric one.
const UnknownSizeSortKey = 999

var (
	cmSuffix    = regexp.MustCompile(`(?i)\s*CM\s*$`)
	sizeNumber  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	numericOnly = regexp.MustCompile(`^(?:\d+(?:\.\d*)?|\.\d+)$`)
)

// NormalizeSize returns the display form of a size label: trimmed, without a
// trailing "CM" unit and with trailing zeros dropped ("27.50 CM" -> "27.5").
// Labels that are not numeric once the unit is removed come back trimmed but
// otherwise untouched, so "10.5K" stays "10.5K".
func NormalizeSize(label string) string {
	trimmed := strings.TrimSpace(label)
	stripped := strings.TrimSpace(cmSuffix.ReplaceAllString(trimmed, ""))
	if !numericOnly.MatchString(stripped) {
		return trimmed
	}
	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return trimmed
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SizeSortKey returns the numeric ordering key of a size label, taken from the
// first number it contains regardless of any "CM", "K" or "Y" suffix.
// Kids sizes are not offset from adult sizes.
func SizeSortKey(label string) float64 {
	m := sizeNumber.FindString(label)
	if m == "" {
		return UnknownSizeSortKey
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return UnknownSizeSortKey
	}
	return f
}
