package documents

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR formats an amount with two decimals and Indian digit grouping,
// e.g. 125000 → "1,25,000.00".
func FormatINR(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// groupIndian inserts separators after the last three digits and then every
// two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)

	return strings.Join(groups, ",") + "," + tail
}

var (
	onesWords = [...]string{ //nolint:gochecknoglobals // lookup table
		"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
		"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
		"Seventeen", "Eighteen", "Nineteen",
	}
	tensWords = [...]string{ //nolint:gochecknoglobals // lookup table
		"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
	}
)

// AmountInWords spells the rupee part of an amount using the Indian
// numbering system (Thousand, Lakh, Crore). Paise and sign are dropped.
func AmountInWords(d decimal.Decimal) string {
	n := d.Abs().IntPart()
	if n == 0 {
		return "Zero Rupees Only"
	}
	return spell(n) + " Rupees Only"
}

func spell(n int64) string {
	var parts []string

	if n >= 10_000_000 {
		parts = append(parts, spell(n/10_000_000), "Crore")
		n %= 10_000_000
	}
	if n >= 100_000 {
		parts = append(parts, belowHundred(n/100_000), "Lakh")
		n %= 100_000
	}
	if n >= 1000 {
		parts = append(parts, belowHundred(n/1000), "Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}

	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	if n%10 == 0 {
		return tensWords[n/10]
	}
	return tensWords[n/10] + " " + onesWords[n%10]
}
