package pagetabs

import (
	"golang.org/x/text/width"
)

// Measurer estimates the rendered width of a label in pixels.
type Measurer interface {
	Width(label string) int
}

// RuneMeasurer counts narrow runes as CharWidth pixels and East Asian wide
// or fullwidth runes as twice that. Proportional fonts make this a rough
// estimate.
type RuneMeasurer struct {
	CharWidth int
}

// DefaultCharWidth approximates the h6 tab font.
const DefaultCharWidth = 8

// Width implements Measurer.
func (m RuneMeasurer) Width(label string) int {
	unit := m.CharWidth
	if unit <= 0 {
		unit = DefaultCharWidth
	}
	total := 0
	for _, r := range label {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			total += 2 * unit
		default:
			total += unit
		}
	}
	return total
}
