package measure

import (
	"testing"

	"seqdiag/internal/style"
)

func TestApprox(t *testing.T) {
	regular := style.NewFont("Helvetica", 10)
	bold := regular
	bold.Weight = style.WeightBold

	tests := []struct {
		name   string
		text   string
		font   style.Font
		width  float64
		height float64
	}{
		{"ascii", "abcd", regular, 24, 7.5},
		{"empty", "", regular, 0, 7.5},
		{"bold", "ab", bold, 13.2, 7.5},
		// широкие символы занимают две ячейки
		{"wide", "日本", regular, 24, 7.5},
		// комбинирующий знак ширины не имеет
		{"combining", "e\u0301", regular, 6, 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Approx{}.Measure(tt.text, tt.font)
			if !near(got.Width, tt.width) || !near(got.Height, tt.height) {
				t.Errorf("Measure(%q) = %+v, want {%v %v}", tt.text, got, tt.width, tt.height)
			}
		})
	}
}

func TestFixedIgnoresFont(t *testing.T) {
	m := Fixed{Advance: 8, Ascent: 12}
	small := m.Measure("abc", style.NewFont("x", 6))
	large := m.Measure("abc", style.NewFont("x", 60))
	if small != large {
		t.Fatalf("font changed fixed measure: %+v vs %+v", small, large)
	}
	if small.Width != 24 || small.Height != 12 {
		t.Errorf("unexpected extent %+v", small)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "approx", "fixed"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("freetype"); ok {
		t.Error("unexpected measurer")
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
