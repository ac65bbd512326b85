// Package measure provides text measurers for layout without a font engine.
package measure

import (
	"github.com/mattn/go-runewidth"

	"seqdiag/internal/layout"
	"seqdiag/internal/style"
)

const (
	// доля кегля на одну ячейку терминальной ширины
	advanceRegular = 0.6
	advanceBold    = 0.66
	ascentRatio    = 0.75
)

// cells ignores the locale: ambiguous-width runes always take one cell, so
// layouts do not depend on the environment.
var cells = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Approx estimates text extents from display cell widths: wide (CJK, emoji)
// runes count twice, combining marks not at all.
type Approx struct{}

var _ layout.Measurer = Approx{}

func (Approx) Measure(text string, font style.Font) layout.Extent {
	advance := advanceRegular
	if font.Weight == style.WeightBold {
		advance = advanceBold
	}
	return layout.Extent{
		Width:  float64(cells.StringWidth(text)) * font.Size * advance,
		Height: font.Size * ascentRatio,
	}
}

// Fixed is a monospace measurer with absolute sizes, independent of the font.
// Useful when output must not depend on style font sizes.
type Fixed struct {
	Advance float64 // ширина одной ячейки
	Ascent  float64
}

var _ layout.Measurer = Fixed{}

func (f Fixed) Measure(text string, _ style.Font) layout.Extent {
	return layout.Extent{
		Width:  float64(cells.StringWidth(text)) * f.Advance,
		Height: f.Ascent,
	}
}

// ByName returns the measurer for a CLI name: "approx" or "fixed".
func ByName(name string) (layout.Measurer, bool) {
	switch name {
	case "", "approx":
		return Approx{}, true
	case "fixed":
		return Fixed{Advance: 8, Ascent: 12}, true
	}
	return nil, false
}
