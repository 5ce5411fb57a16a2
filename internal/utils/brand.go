package utils

import "strings"

// brandVocabulary is the fixed set of brand tokens scanned for when the
// classifier does not extract a brand entity.
var brandVocabulary = []string{"vivo", "oppo", "samsung", "apple", "xiaomi", "iphone"}

// ExtractBrand performs a case-insensitive substring scan over the brand
// vocabulary. The first hit is returned in normalized form; "" when nothing
// matches. "iphone" normalizes to "Apple".
func ExtractBrand(message string) string {
	messageLower := strings.ToLower(message)
	for _, brand := range brandVocabulary {
		if strings.Contains(messageLower, brand) {
			return NormalizeBrand(brand)
		}
	}
	return ""
}

// NormalizeBrand maps a raw brand token to its canonical catalog form.
func NormalizeBrand(brand string) string {
	b := strings.ToLower(strings.TrimSpace(brand))
	if b == "" {
		return ""
	}
	if b == "iphone" {
		return "Apple"
	}
	return strings.ToUpper(b[:1]) + b[1:]
}
