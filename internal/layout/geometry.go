package layout

import (
	"math"

	"seqdiag/internal/style"
)

type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

type Extent struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// Box is an axis-aligned rectangle; (X, Y) is the top-left corner.
type Box struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

func (b Box) Right() float64   { return b.X + b.Width }
func (b Box) Bottom() float64  { return b.Y + b.Height }
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// Depad returns the box with padding removed from every side.
func (b Box) Depad(p style.Padding) Box {
	return Box{
		X:      b.X + p.Left,
		Y:      b.Y + p.Top,
		Width:  b.Width - p.Horizontal(),
		Height: b.Height - p.Vertical(),
	}
}

// Pad grows an extent by padding.
func Pad(e Extent, p style.Padding) Extent {
	return Extent{Width: e.Width + p.Horizontal(), Height: e.Height + p.Vertical()}
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// InclinationAngle is the rotation in radians taking the x axis onto the
// line from left to right (y grows downwards).
func InclinationAngle(left, right Point) float64 {
	return math.Atan2(right.Y-left.Y, right.X-left.X)
}
