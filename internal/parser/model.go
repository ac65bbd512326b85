package parser

import "fmt"

// ParsedDiagram is the result of parsing one source text. Participants are
// ordered: explicit declarations first, then names first mentioned by a
// message.
type ParsedDiagram struct {
	Title        string        `json:"title,omitempty" msgpack:"title,omitempty"`
	Participants []Participant `json:"participants" msgpack:"participants"`
	Messages     []Message     `json:"messages" msgpack:"messages"`
}

// Participant is a named actor of the diagram.
type Participant struct {
	Name string `json:"name" msgpack:"name"`
}

// ArrowHead is the shape drawn at the receiving end of a message.
type ArrowHead uint8

const (
	HeadFilled ArrowHead = iota
	HeadEmpty
)

// LineStyle is the stroke pattern of a message line.
type LineStyle uint8

const (
	LineSolid LineStyle = iota
	LineDashed
	LineDotted
)

// MessageProperties are the message attributes a renderer needs.
type MessageProperties struct {
	Label string    `json:"label,omitempty" msgpack:"label,omitempty"`
	Head  ArrowHead `json:"head" msgpack:"head"`
	Line  LineStyle `json:"line" msgpack:"line"`
	// Delay is clamped to [0, MaxDelay].
	Delay float64 `json:"delay" msgpack:"delay"`
}

// Message is a signal sent from one participant to another.
type Message struct {
	From string `json:"from" msgpack:"from"`
	To   string `json:"to" msgpack:"to"`
	MessageProperties
}

func (h ArrowHead) String() string {
	switch h {
	case HeadFilled:
		return "filled"
	case HeadEmpty:
		return "empty"
	}
	return "unknown"
}

func (h ArrowHead) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *ArrowHead) UnmarshalText(text []byte) error {
	switch string(text) {
	case "filled":
		*h = HeadFilled
	case "empty":
		*h = HeadEmpty
	default:
		return fmt.Errorf("unknown arrow head %q", text)
	}
	return nil
}

func (l LineStyle) String() string {
	switch l {
	case LineSolid:
		return "solid"
	case LineDashed:
		return "dashed"
	case LineDotted:
		return "dotted"
	}
	return "unknown"
}

func (l LineStyle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *LineStyle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "solid":
		*l = LineSolid
	case "dashed":
		*l = LineDashed
	case "dotted":
		*l = LineDotted
	default:
		return fmt.Errorf("unknown line style %q", text)
	}
	return nil
}
