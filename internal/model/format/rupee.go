package format

import (
	"strconv"
	"strings"
)

const rupeeSign = "₹"

// IndianRupee formats amount with the rupee sign, lakh/crore digit grouping
// and two decimals: 123456.7 -> ₹1,23,456.70.
func IndianRupee(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, frac, _ := strings.Cut(s, ".")
	if intPart == "0" && strings.Trim(frac, "0") == "" {
		neg = false
	}

	res := rupeeSign + groupIndian(intPart) + "." + frac
	if neg {
		return "-" + res
	}
	return res
}

// PlainRupee is IndianRupee with an ASCII prefix, for fonts without the rupee glyph.
func PlainRupee(amount float64) string {
	return strings.Replace(IndianRupee(amount), rupeeSign, "Rs. ", 1)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, last3 := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(append(groups, last3), ",")
}
