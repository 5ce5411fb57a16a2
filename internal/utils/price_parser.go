package utils

import (
	"regexp"
	"strconv"
)

// MaxPriceVND is the open upper bound used for "trên X triệu" style queries.
const MaxPriceVND = 999_999_999

// PriceRange is a VND price interval extracted from an utterance.
type PriceRange struct {
	Min int64
	Max int64
}

// The four literal Vietnamese price phrasings the store understands.
// Captured amounts are in "triệu" (millions of VND).
var (
	reRange = regexp.MustCompile(`(?i)từ\s+(\d+)\s+đến\s+(\d+)\s+triệu`)
	reBelow = regexp.MustCompile(`(?i)dưới\s+(\d+)\s+triệu`)
	reAbove = regexp.MustCompile(`(?i)trên\s+(\d+)\s+triệu`)
	reHave  = regexp.MustCompile(`(?i)có\s+(\d+)\s+triệu\s+mua\s+được`)

	reFirstNumber = regexp.MustCompile(`(\d+)`)
)

// ParsePriceRange extracts a price range from a Vietnamese message.
// Returns nil when no recognized phrasing is present or an amount does not
// fit in an int64.
func ParsePriceRange(message string) *PriceRange {
	if m := reRange.FindStringSubmatch(message); m != nil {
		min, ok1 := millions(m[1])
		max, ok2 := millions(m[2])
		if !ok1 || !ok2 {
			return nil
		}
		return &PriceRange{Min: min, Max: max}
	}
	if m := reBelow.FindStringSubmatch(message); m != nil {
		max, ok := millions(m[1])
		if !ok {
			return nil
		}
		return &PriceRange{Min: 0, Max: max}
	}
	if m := reAbove.FindStringSubmatch(message); m != nil {
		min, ok := millions(m[1])
		if !ok {
			return nil
		}
		return &PriceRange{Min: min, Max: MaxPriceVND}
	}
	if m := reHave.FindStringSubmatch(message); m != nil {
		max, ok := millions(m[1])
		if !ok {
			return nil
		}
		return &PriceRange{Min: 0, Max: max}
	}
	return nil
}

// ParseEntityPriceRange interprets a classifier-supplied price_range entity
// value: the first integer in the value becomes the upper bound in millions.
func ParseEntityPriceRange(value string) *PriceRange {
	m := reFirstNumber.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	max, ok := millions(m[1])
	if !ok {
		return nil
	}
	return &PriceRange{Min: 0, Max: max}
}

// Valid reports whether the range is usable for a catalog query.
func (r *PriceRange) Valid() bool {
	return r != nil && r.Min >= 0 && r.Min <= r.Max
}

func millions(digits string) (int64, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n * 1_000_000, true
}
