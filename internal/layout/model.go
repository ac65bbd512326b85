package layout

import (
	"fmt"

	"seqdiag/internal/parser"
	"seqdiag/internal/style"
)

// Measurer reports the extent of text above the baseline.
type Measurer interface {
	Measure(text string, font style.Font) Extent
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, font style.Font) Extent

func (f MeasurerFunc) Measure(text string, font style.Font) Extent { return f(text, font) }

// Direction of a signal relative to the lifeline order.
type Direction uint8

const (
	LTR Direction = iota
	RTL
	// None is a self message.
	None
)

func (d Direction) String() string {
	switch d {
	case LTR:
		return "ltr"
	case RTL:
		return "rtl"
	case None:
		return "none"
	}
	return "unknown"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ltr":
		*d = LTR
	case "rtl":
		*d = RTL
	case "none":
		*d = None
	default:
		return fmt.Errorf("unknown direction %q", text)
	}
	return nil
}

type Lifeline struct {
	Name string `json:"name" msgpack:"name"`
	Box  Box    `json:"box" msgpack:"box"`
}

type Signal struct {
	Box         Box                      `json:"box" msgpack:"box"`
	Direction   Direction                `json:"direction" msgpack:"direction"`
	DelayHeight float64                  `json:"delayHeight" msgpack:"delay_height"`
	Props       parser.MessageProperties `json:"props" msgpack:"props"`
}

// Diagram is the position model handed to a renderer. All coordinates are
// absolute pixels.
type Diagram struct {
	Title     string     `json:"title,omitempty" msgpack:"title,omitempty"`
	Lifelines []Lifeline `json:"lifelines" msgpack:"lifelines"`
	Signals   []Signal   `json:"signals" msgpack:"signals"`
	// LifelineHeight is the length of the vertical guide under each box.
	LifelineHeight float64 `json:"lifelineHeight" msgpack:"lifeline_height"`
	// CenterRight is the width of the trailing segment right of the last
	// lifeline centre, non-zero only for self messages there.
	CenterRight float64 `json:"centerRight" msgpack:"center_right"`
	Size        Extent  `json:"size" msgpack:"size"`
}
