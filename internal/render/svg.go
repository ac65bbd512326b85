// Package render draws a laid out diagram as SVG.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"seqdiag/internal/layout"
	"seqdiag/internal/parser"
	"seqdiag/internal/style"
)

const (
	header = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	svgTag = "<svg width=\"%s\" height=\"%s\" viewBox=\"0 0 %s %s\" version=\"1.1\" xmlns=\"http://www.w3.org/2000/svg\" stroke-linecap=\"round\" stroke-linejoin=\"round\">\n"

	// радиус скругления петли сообщения самому себе
	loopRadius = 5
)

// SVG writes d as a standalone SVG 1.1 document. Drawing order: background,
// title, lifelines, signals.
func SVG(w io.Writer, d *layout.Diagram, st style.Style) error {
	b := &bytes.Buffer{}
	_, _ = io.WriteString(b, header)
	_, _ = fmt.Fprintf(b, svgTag, num(d.Size.Width), num(d.Size.Height), num(d.Size.Width), num(d.Size.Height))
	_, _ = fmt.Fprintf(b, "  <rect x=\"0\" y=\"0\" width=\"%s\" height=\"%s\" fill=\"#fff\"/>\n", num(d.Size.Width), num(d.Size.Height))

	if d.Title != "" {
		drawTitle(b, d, st)
	}

	_, _ = io.WriteString(b, "  <g id=\"lifelines\">\n")
	for _, l := range d.Lifelines {
		drawLifeline(b, l, d.LifelineHeight, st.Lifeline)
	}
	_, _ = io.WriteString(b, "  </g>\n")

	_, _ = io.WriteString(b, "  <g id=\"signals\">\n")
	for _, s := range d.Signals {
		drawSignal(b, s, st.Signal)
	}
	_, _ = io.WriteString(b, "  </g>\n")

	_, _ = io.WriteString(b, "</svg>\n")
	_, err := w.Write(b.Bytes())
	return err
}

func drawTitle(b *bytes.Buffer, d *layout.Diagram, st style.Style) {
	x := d.Size.Width / 2
	y := st.Frame.Padding.Top + st.Title.Padding.Top + st.Title.Font.Size
	_, _ = fmt.Fprintf(b, "  <text x=\"%s\" y=\"%s\" text-anchor=\"middle\" fill=\"#000\" %s>%s</text>\n",
		num(x), num(y), fontAttrs(st.Title.Font), escape(d.Title))
}

func drawLifeline(b *bytes.Buffer, l layout.Lifeline, height float64, st style.LifelineStyle) {
	rect := l.Box.Depad(st.Margin)
	_, _ = fmt.Fprintf(b, "    <rect x=\"%s\" y=\"%s\" width=\"%s\" height=\"%s\" fill=\"none\" stroke=\"#000\" stroke-width=\"%s\"/>\n",
		num(rect.X), num(rect.Y), num(rect.Width), num(rect.Height), num(st.BoxLineWidth))

	text := rect.Depad(st.Padding)
	_, _ = fmt.Fprintf(b, "    <text x=\"%s\" y=\"%s\" fill=\"#000\" %s>%s</text>\n",
		num(text.X), num(text.Bottom()), fontAttrs(st.Font), escape(l.Name))

	x := l.Box.CenterX()
	_, _ = fmt.Fprintf(b, "    <line x1=\"%s\" y1=\"%s\" x2=\"%s\" y2=\"%s\" stroke=\"#000\" stroke-width=\"%s\"/>\n",
		num(x), num(rect.Bottom()+1), num(x), num(rect.Bottom()+height), num(st.LineWidth))
}

// drawSignal draws in a local frame: origin at the line start, x along the
// line.
func drawSignal(b *bytes.Buffer, s layout.Signal, st style.SignalStyle) {
	padded := s.Box.Depad(st.Margin)

	var from, to layout.Point
	if s.Direction == layout.RTL {
		from = layout.Point{X: padded.X, Y: padded.Bottom() + s.DelayHeight}
		to = layout.Point{X: padded.Right(), Y: padded.Bottom()}
	} else {
		from = layout.Point{X: padded.X, Y: padded.Bottom()}
		to = layout.Point{X: padded.Right(), Y: padded.Bottom() + s.DelayHeight}
	}

	transform := fmt.Sprintf("translate(%s %s)", num(from.X), num(from.Y))
	length := st.Font.Size * 2
	if s.Direction != layout.None {
		deg := layout.InclinationAngle(from, to) * 180 / math.Pi
		if deg != 0 {
			transform += fmt.Sprintf(" rotate(%s)", num(deg))
		}
		length = layout.Distance(from, to)
	}

	_, _ = fmt.Fprintf(b, "    <g transform=\"%s\">\n", transform)
	drawSignalLine(b, s, padded, length, st)
	drawSignalLabel(b, s, length, st)
	_, _ = io.WriteString(b, "    </g>\n")
}

func drawSignalLine(b *bytes.Buffer, s layout.Signal, padded layout.Box, length float64, st style.SignalStyle) {
	dash := ""
	switch s.Props.Line {
	case parser.LineDashed:
		dash = fmt.Sprintf(" stroke-dasharray=\"%s %s\"", num(st.LineWidth*5), num(st.LineWidth*5))
	case parser.LineDotted:
		dash = fmt.Sprintf(" stroke-dasharray=\"%s %s\"", num(st.LineWidth*2), num(st.LineWidth*2))
	case parser.LineSolid:
	}

	var d string
	if s.Direction == layout.None {
		r := float64(loopRadius)
		top := -padded.Height / 2
		bottom := s.DelayHeight
		d = fmt.Sprintf("M 0 %s L %s %s A %s %s 0 0 1 %s %s L %s %s A %s %s 0 0 1 %s %s L 0 %s",
			num(top), num(length-r), num(top),
			num(r), num(r), num(length), num(top+r),
			num(length), num(bottom-r),
			num(r), num(r), num(length-r), num(bottom),
			num(bottom))
	} else {
		d = fmt.Sprintf("M 0 0 L %s 0", num(length))
	}
	_, _ = fmt.Fprintf(b, "      <path d=\"%s\" fill=\"none\" stroke=\"#000\" stroke-width=\"%s\"%s/>\n", d, num(st.LineWidth), dash)

	filled := s.Props.Head == parser.HeadFilled
	switch s.Direction {
	case layout.LTR:
		drawArrow(b, st, false, filled, layout.Point{X: length})
	case layout.RTL:
		drawArrow(b, st, true, filled, layout.Point{})
	case layout.None:
		drawArrow(b, st, true, filled, layout.Point{Y: s.DelayHeight})
	}
}

func drawArrow(b *bytes.Buffer, st style.SignalStyle, facingLeft, filled bool, at layout.Point) {
	w, h := st.Arrow.Width, st.Arrow.Height
	if !facingLeft {
		w = -w
	}
	d := fmt.Sprintf("M %s %s L %s %s L %s %s",
		num(at.X+w), num(at.Y-h), num(at.X), num(at.Y), num(at.X+w), num(at.Y+h))
	if filled {
		_, _ = fmt.Fprintf(b, "      <path d=\"%s Z\" fill=\"#000\" stroke=\"#000\" stroke-width=\"%s\"/>\n", d, num(st.LineWidth))
		return
	}
	_, _ = fmt.Fprintf(b, "      <path d=\"%s\" fill=\"none\" stroke=\"#000\" stroke-width=\"%s\"/>\n", d, num(st.LineWidth))
}

func drawSignalLabel(b *bytes.Buffer, s layout.Signal, length float64, st style.SignalStyle) {
	if s.Props.Label == "" {
		return
	}
	var x, y float64
	anchor := "middle"
	if s.Direction == layout.None {
		anchor = "start"
		x = st.Margin.Left + st.Padding.Left + st.Font.Size/2
		y = s.DelayHeight/2 - 1
	} else {
		x = length / 2
		y = -st.Padding.Bottom
	}
	// белая обводка под текстом поверх линии
	_, _ = fmt.Fprintf(b, "      <text x=\"%s\" y=\"%s\" text-anchor=\"%s\" fill=\"#000\" stroke=\"#fff\" stroke-width=\"4\" paint-order=\"stroke\" %s>%s</text>\n",
		num(x), num(y), anchor, fontAttrs(st.Font), escape(s.Props.Label))
}

func fontAttrs(f style.Font) string {
	return fmt.Sprintf("font-family=\"%s\" font-size=\"%s\" font-style=\"%s\" font-weight=\"%s\"",
		escape(f.Family), num(f.Size), escape(string(f.Style)), escape(string(f.Weight)))
}

func num(v float64) string {
	// -0 печатается как 0
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	b := &bytes.Buffer{}
	if err := xml.EscapeText(b, []byte(s)); err != nil {
		panic(err)
	}
	return b.String()
}
