package utils

import "strconv"

// FormatPriceVND renders a price the way Vietnamese storefronts do:
// digit groups of three separated by dots, e.g. "12.345.678 VNĐ".
func FormatPriceVND(price int64) string {
	digits := strconv.FormatInt(price, 10)
	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	s := string(out)
	if negative {
		s = "-" + s
	}
	return s + " VNĐ"
}
