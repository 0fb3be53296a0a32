// Package format holds the display formatting used on college cards.
package format

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// Placeholder stands in for missing dataset values.
const Placeholder = "—"

// Number renders an integer with thousands separators, or the placeholder
// when the value is absent.
func Number(n *int) string {
	if n == nil {
		return Placeholder
	}
	return humanize.Comma(int64(*n))
}

// Percent renders a 0..1 fraction as a rounded whole percentage.
func Percent(p *float64) string {
	if p == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d%%", int(math.Round(*p*100)))
}

// MoneyUSD renders a whole-dollar amount.
func MoneyUSD(n *int) string {
	if n == nil {
		return Placeholder
	}
	return "$" + humanize.Comma(int64(*n))
}

// Score renders a 0-100 match score for display.
func Score(score float64) string {
	return fmt.Sprintf("%.0f", score)
}
