package utils

import (
	"strconv"
	"strings"
)

// FormatEUR formats an amount in cents as a string like "1 234,50 €".
// Uses a space as thousands separator and a comma for decimals (French style).
func FormatEUR(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}

	euros := strconv.FormatInt(cents/100, 10)
	rest := cents % 100

	var b strings.Builder
	b.Grow(len(euros) + len(euros)/3 + 6)
	if neg {
		b.WriteString("-")
	}

	// Insert separators from the left.
	rem := len(euros) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(euros[:rem])
	for i := rem; i < len(euros); i += 3 {
		b.WriteByte(' ')
		b.WriteString(euros[i : i+3])
	}

	b.WriteByte(',')
	if rest < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(rest, 10))
	b.WriteString(" €")
	return b.String()
}
