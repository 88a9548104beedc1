// Package money renders peso amounts the way the target market writes them:
// integer value, thousands separated by periods, leading currency symbol.
package money

import "strconv"

// Format returns e.g. Format(1500000) == "$1.500.000".
func Format(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, d)
	}

	if neg {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
