package testkit

import (
	"fmt"
	"math"

	"seqdiag/internal/layout"
	"seqdiag/internal/parser"
)

const eps = 1e-9

// CheckLayoutInvariants runs a minimal set of invariants on a laid out diagram:
// 1) every participant, and every name a message mentions, appears exactly once
// 2) lifelines keep participant order and never overlap their original gaps
// 3) signals follow message order top to bottom, below every lifeline box
// 4) everything fits into d.Size
func CheckLayoutInvariants(parsed *parser.ParsedDiagram, d *layout.Diagram) error {
	if parsed == nil || d == nil {
		return fmt.Errorf("nil diagram")
	}

	// 1) полнота участников
	seen := make(map[string]int, len(parsed.Participants))
	for _, p := range parsed.Participants {
		seen[p.Name]++
		if seen[p.Name] > 1 {
			return fmt.Errorf("participant %q listed twice", p.Name)
		}
	}
	for i, m := range parsed.Messages {
		if seen[m.From] == 0 || seen[m.To] == 0 {
			return fmt.Errorf("message %d (%s -> %s) names an unknown participant", i, m.From, m.To)
		}
	}
	if len(d.Lifelines) != len(parsed.Participants) {
		return fmt.Errorf("lifeline count %d != participant count %d", len(d.Lifelines), len(parsed.Participants))
	}

	// 2) порядок и расширение
	for i, l := range d.Lifelines {
		if l.Name != parsed.Participants[i].Name {
			return fmt.Errorf("lifeline %d is %q, want %q", i, l.Name, parsed.Participants[i].Name)
		}
		if l.Box.Width < 0 || l.Box.Height < 0 {
			return fmt.Errorf("lifeline %q has negative extent %+v", l.Name, l.Box)
		}
		if i == 0 {
			continue
		}
		prev := d.Lifelines[i-1].Box
		gap := l.Box.CenterX() - prev.CenterX()
		initial := (prev.Width + l.Box.Width) / 2
		if gap < initial-eps {
			return fmt.Errorf("gap %d shrank: %v < %v", i-1, gap, initial)
		}
	}

	// 3) сигналы
	if len(d.Signals) != len(parsed.Messages) {
		return fmt.Errorf("signal count %d != message count %d", len(d.Signals), len(parsed.Messages))
	}
	var floor float64
	for _, l := range d.Lifelines {
		floor = math.Max(floor, l.Box.Bottom())
	}
	for i, s := range d.Signals {
		if s.Box.Y < floor-eps {
			return fmt.Errorf("signal %d starts at %v, above %v", i, s.Box.Y, floor)
		}
		if s.Box.Width < 0 || s.Box.Height <= 0 || s.DelayHeight < 0 {
			return fmt.Errorf("signal %d has bad extent %+v (delay %v)", i, s.Box, s.DelayHeight)
		}
		floor = s.Box.Bottom() + s.DelayHeight
	}

	// 4) размер
	for _, l := range d.Lifelines {
		if l.Box.Right() > d.Size.Width+eps {
			return fmt.Errorf("lifeline %q exceeds width %v", l.Name, d.Size.Width)
		}
		if l.Box.Bottom()+d.LifelineHeight > d.Size.Height+eps {
			return fmt.Errorf("lifeline %q exceeds height %v", l.Name, d.Size.Height)
		}
	}
	for i, s := range d.Signals {
		if s.Box.Right() > d.Size.Width+eps || floorOf(s) > d.Size.Height+eps {
			return fmt.Errorf("signal %d is outside %+v", i, d.Size)
		}
	}
	return nil
}

func floorOf(s layout.Signal) float64 {
	return s.Box.Bottom() + s.DelayHeight
}
