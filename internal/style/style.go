// Package style holds the visual parameters shared by layout and rendering.
package style

// Padding is an inset on each side of a box, in pixels.
type Padding struct {
	Top    float64 `toml:"top" yaml:"top" json:"top" msgpack:"top"`
	Right  float64 `toml:"right" yaml:"right" json:"right" msgpack:"right"`
	Bottom float64 `toml:"bottom" yaml:"bottom" json:"bottom" msgpack:"bottom"`
	Left   float64 `toml:"left" yaml:"left" json:"left" msgpack:"left"`
}

func (p Padding) Horizontal() float64 { return p.Left + p.Right }
func (p Padding) Vertical() float64   { return p.Top + p.Bottom }

// PadAll returns the same padding on every side.
func PadAll(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// PadTBLR returns tb for top and bottom, lr for left and right.
func PadTBLR(tb, lr float64) Padding {
	return Padding{Top: tb, Right: lr, Bottom: tb, Left: lr}
}

type (
	FontStyle  string
	FontWeight string
)

const (
	FontNormal FontStyle = "normal"
	FontItalic FontStyle = "italic"

	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

type Font struct {
	Family string     `toml:"family" yaml:"family" json:"family" msgpack:"family"`
	Size   float64    `toml:"size" yaml:"size" json:"size" msgpack:"size"`
	Style  FontStyle  `toml:"style" yaml:"style" json:"style" msgpack:"style"`
	Weight FontWeight `toml:"weight" yaml:"weight" json:"weight" msgpack:"weight"`
}

// NewFont returns a regular upright font.
func NewFont(family string, size float64) Font {
	return Font{Family: family, Size: size, Style: FontNormal, Weight: WeightNormal}
}

type FrameStyle struct {
	Padding Padding `toml:"padding" yaml:"padding" json:"padding" msgpack:"padding"`
}

type TitleStyle struct {
	Padding Padding `toml:"padding" yaml:"padding" json:"padding" msgpack:"padding"`
	Font    Font    `toml:"font" yaml:"font" json:"font" msgpack:"font"`
}

type LifelineStyle struct {
	Padding      Padding `toml:"padding" yaml:"padding" json:"padding" msgpack:"padding"`
	Margin       Padding `toml:"margin" yaml:"margin" json:"margin" msgpack:"margin"`
	Font         Font    `toml:"font" yaml:"font" json:"font" msgpack:"font"`
	BoxLineWidth float64 `toml:"box_line_width" yaml:"box_line_width" json:"boxLineWidth" msgpack:"box_line_width"`
	LineWidth    float64 `toml:"line_width" yaml:"line_width" json:"lineWidth" msgpack:"line_width"`
}

// Arrow is the arrowhead size: Width along the line, Height to each side.
type Arrow struct {
	Width  float64 `toml:"width" yaml:"width" json:"width" msgpack:"width"`
	Height float64 `toml:"height" yaml:"height" json:"height" msgpack:"height"`
}

type SignalStyle struct {
	Padding   Padding `toml:"padding" yaml:"padding" json:"padding" msgpack:"padding"`
	Margin    Padding `toml:"margin" yaml:"margin" json:"margin" msgpack:"margin"`
	Font      Font    `toml:"font" yaml:"font" json:"font" msgpack:"font"`
	LineWidth float64 `toml:"line_width" yaml:"line_width" json:"lineWidth" msgpack:"line_width"`
	Arrow     Arrow   `toml:"arrow" yaml:"arrow" json:"arrow" msgpack:"arrow"`
}

// Style is the full set of visual parameters.
type Style struct {
	Frame    FrameStyle    `toml:"frame" yaml:"frame" json:"frame" msgpack:"frame"`
	Title    TitleStyle    `toml:"title" yaml:"title" json:"title" msgpack:"title"`
	Lifeline LifelineStyle `toml:"lifeline" yaml:"lifeline" json:"lifeline" msgpack:"lifeline"`
	Signal   SignalStyle   `toml:"signal" yaml:"signal" json:"signal" msgpack:"signal"`
}

// Default returns the built-in style.
func Default() Style {
	return Style{
		Frame: FrameStyle{
			Padding: PadAll(25),
		},
		Title: TitleStyle{
			Padding: PadAll(25),
			Font:    NewFont("Helvetica", 36),
		},
		Lifeline: LifelineStyle{
			Padding:      PadAll(10),
			Margin:       PadAll(10),
			Font:         NewFont("Helvetica", 16),
			BoxLineWidth: 1,
			LineWidth:    1,
		},
		Signal: SignalStyle{
			Padding:   Padding{Top: 10, Right: 30, Bottom: 6, Left: 30},
			Margin:    PadAll(0),
			Font:      NewFont("Helvetica", 12),
			LineWidth: 1,
			Arrow:     Arrow{Width: 15, Height: 6},
		},
	}
}
