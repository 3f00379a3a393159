package inventory

import (
	"strings"
	"unicode"
)

// UnknownBrand is used when neither the name nor the SKU starts with a letter.
const UnknownBrand = "Unknown"

// Brand returns the leading alphabetic run of the product name, falling back
// to the SKU. Multi-word brands keep only their first word ("New Balance 550"
// gives "New"); brand facets downstream rely on this exact value.
func Brand(name, sku string) string {
	for _, s := range []string{name, sku} {
		if b := leadingLetters(strings.TrimSpace(s)); b != "" {
			return b
		}
	}
	return UnknownBrand
}

func leadingLetters(s string) string {
	end := 0
	for i, r := range s {
		if !unicode.IsLetter(r) {
			break
		}
		end = i + len(string(r))
	}
	return s[:end]
}

// IsKidsSizeLabel reports whether a raw (not normalized) size label is a
// centimetre size, which the feed only uses for kids footwear.
func IsKidsSizeLabel(raw string) bool {
	return strings.Contains(strings.ToUpper(raw), "CM")
}

// IsKidsName reports whether a product name carries a kids or junior marker.
func IsKidsName(name string) bool {
	n := strings.ToUpper(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "KIDS"), strings.Contains(n, "JUNIOR"):
		return true
	case strings.Contains(n, " C "), strings.HasSuffix(n, " C"):
		return true
	case strings.Contains(n, " J "), strings.HasSuffix(n, " J"):
		return true
	}
	return false
}
