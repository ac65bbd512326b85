// Package layout places lifelines and signals of a parsed diagram.
package layout

import (
	"math"
	"sort"

	"seqdiag/internal/parser"
	"seqdiag/internal/style"
)

// DelayScale is the vertical run in pixels per unit of message delay.
const DelayScale = 10

// span is the run of segments a message crosses.
type span struct {
	left, right int
	dir         Direction
}

// Layout computes absolute positions for parsed. It does not retain or
// mutate its inputs and is safe for concurrent use. Messages naming a
// participant that is not listed get a lifeline appended, in first-mention
// order.
func Layout(parsed *parser.ParsedDiagram, m Measurer, st style.Style) *Diagram {
	if parsed == nil {
		parsed = &parser.ParsedDiagram{}
	}
	titleBox := layoutTitle(parsed.Title, m, st)
	lifelines, index := layoutLifelines(participantsOf(parsed), m, st.Lifeline, titleBox)

	signals, centerRight := layoutSignals(lifelines, index, parsed.Messages, m, st)

	var signalsHeight float64
	for _, s := range signals {
		signalsHeight += s.Box.Height + s.DelayHeight
	}
	lifelineHeight := st.Lifeline.Margin.Bottom + signalsHeight + st.Signal.Font.Size

	return &Diagram{
		Title:          parsed.Title,
		Lifelines:      lifelines,
		Signals:        signals,
		LifelineHeight: lifelineHeight,
		CenterRight:    centerRight,
		Size:           computeSize(lifelines, lifelineHeight, centerRight, st, titleBox),
	}
}

func participantsOf(parsed *parser.ParsedDiagram) []string {
	names := make([]string, 0, len(parsed.Participants))
	seen := make(map[string]struct{}, len(parsed.Participants))
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	for _, p := range parsed.Participants {
		add(p.Name)
	}
	for _, msg := range parsed.Messages {
		add(msg.From)
		add(msg.To)
	}
	return names
}

// layoutTitle anchors the title at the frame's top-left corner. Without a
// title the box is empty.
func layoutTitle(title string, m Measurer, st style.Style) Box {
	box := Box{X: st.Frame.Padding.Left, Y: st.Frame.Padding.Top}
	if title == "" {
		return box
	}
	e := Pad(m.Measure(title, st.Title.Font), st.Title.Padding)
	box.Width, box.Height = e.Width, e.Height
	return box
}

// layoutLifelines places boxes edge to edge below the title.
func layoutLifelines(names []string, m Measurer, st style.LifelineStyle, titleBox Box) ([]Lifeline, map[string]int) {
	lifelines := make([]Lifeline, 0, len(names))
	index := make(map[string]int, len(names))
	x := titleBox.X
	for i, name := range names {
		text := Extent{Width: m.Measure(name, st.Font).Width, Height: st.Font.Size}
		e := Pad(Pad(text, st.Padding), st.Margin)
		box := Box{X: x, Y: titleBox.Bottom(), Width: e.Width, Height: e.Height}
		lifelines = append(lifelines, Lifeline{Name: name, Box: box})
		index[name] = i
		x = box.Right()
	}
	return lifelines, index
}

func layoutSignals(lifelines []Lifeline, index map[string]int, messages []parser.Message, m Measurer, st style.Style) ([]Signal, float64) {
	if len(lifelines) == 0 || len(messages) == 0 {
		return []Signal{}, 0
	}

	segments := generateSegments(lifelines)
	spans := make([]span, len(messages))
	for i, msg := range messages {
		spans[i] = messageSpan(index, msg)
		if need := requiredWidth(msg, spans[i], m, st.Signal); need > 0 {
			widen(segments, spans[i], need)
		}
	}

	centers := repositionLifelines(lifelines, segments)
	return createSignals(lifelines, centers, segments, messages, spans, st), segments[len(segments)-1]
}

// generateSegments returns the centre-to-centre gap right of every lifeline;
// the last one is 0.
func generateSegments(lifelines []Lifeline) []float64 {
	segments := make([]float64, len(lifelines))
	for i := 0; i < len(lifelines)-1; i++ {
		segments[i] = lifelines[i+1].Box.CenterX() - lifelines[i].Box.CenterX()
	}
	return segments
}

func messageSpan(index map[string]int, msg parser.Message) span {
	a, b := index[msg.From], index[msg.To]
	switch {
	case a < b:
		return span{left: a, right: b, dir: LTR}
	case a > b:
		return span{left: b, right: a, dir: RTL}
	}
	return span{left: a, right: a, dir: None}
}

// segmentRange is the half-open range of segment indices a span covers. A
// self message uses the segment to its right.
func (s span) segmentRange() (int, int) {
	if s.right-s.left < 1 {
		return s.left, s.left + 1
	}
	return s.left, s.right
}

func spanWidth(segments []float64, s span) float64 {
	lo, hi := s.segmentRange()
	var w float64
	for _, seg := range segments[lo:hi] {
		w += seg
	}
	return w
}

// SelfLoopWidth is the narrowest span a self message is given.
func SelfLoopWidth(st style.SignalStyle) float64 {
	return 2*st.Font.Size + st.Padding.Horizontal() + st.Margin.Horizontal()
}

func requiredWidth(msg parser.Message, s span, m Measurer, st style.SignalStyle) float64 {
	var need float64
	if msg.Label != "" {
		need = m.Measure(msg.Label, st.Font).Width + st.Padding.Horizontal() + st.Margin.Horizontal()
	}
	if s.dir == None {
		need = math.Max(need, SelfLoopWidth(st))
	}
	return need
}

// widen grows the segments of s until they add up to width. Extra space goes
// to the narrowest segments first: the equal-width minimum prefix is raised
// to the next wider segment, then the prefix grows, and so on.
func widen(segments []float64, s span, width float64) {
	remaining := width - spanWidth(segments, s)
	if remaining <= 0 {
		return
	}

	lo, hi := s.segmentRange()
	order := make([]int, 0, hi-lo)
	for i := lo; i < hi; i++ {
		order = append(order, i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return segments[order[i]] < segments[order[j]]
	})

	for remaining > 0 {
		count, space := nextAllotment(segments, order)
		if space < remaining {
			// поднимаем весь префикс ровно до следующего уровня
			level := segments[order[count]]
			for _, i := range order[:count] {
				segments[i] = level
			}
			remaining -= space
			continue
		}
		add := remaining / float64(count)
		for _, i := range order[:count] {
			segments[i] += add
		}
		remaining = 0
	}
}

// nextAllotment returns the size of the minimum-width prefix of order and the
// space needed to raise it to the next wider segment (+Inf when all are
// equal).
func nextAllotment(segments []float64, order []int) (count int, space float64) {
	first := segments[order[0]]
	for c := 1; c < len(order); c++ {
		if next := segments[order[c]]; next > first {
			return c, (next - first) * float64(c)
		}
	}
	return len(order), math.Inf(1)
}

// repositionLifelines moves every lifeline after the first so that centres
// are exactly the accumulated segment widths apart, and returns the centres.
func repositionLifelines(lifelines []Lifeline, segments []float64) []float64 {
	centers := make([]float64, len(lifelines))
	centers[0] = lifelines[0].Box.CenterX()
	for i := 1; i < len(lifelines); i++ {
		centers[i] = centers[i-1] + segments[i-1]
		lifelines[i].Box.X = centers[i] - lifelines[i].Box.Width/2
	}
	return centers
}

func createSignals(lifelines []Lifeline, centers, segments []float64, messages []parser.Message, spans []span, st style.Style) []Signal {
	y := lifelines[0].Box.Bottom()
	for _, l := range lifelines[1:] {
		y = math.Max(y, l.Box.Bottom())
	}

	// полуширина линии + 1, чтобы соседние сигналы не перекрывались
	offset := st.Lifeline.LineWidth/2 + 1

	signals := make([]Signal, 0, len(messages))
	for i, msg := range messages {
		s := spans[i]
		left := centers[s.left] + offset
		width := centers[s.right] - offset - left
		if s.dir == None {
			width = segments[s.left] - 2*offset
		}

		height := st.Signal.Padding.Vertical() + st.Signal.Margin.Vertical()
		if msg.Label != "" || s.dir == None {
			height += st.Signal.Font.Size
		}
		delayHeight := msg.Delay * DelayScale

		signals = append(signals, Signal{
			Box:         Box{X: left, Y: y, Width: width, Height: height},
			Direction:   s.dir,
			DelayHeight: delayHeight,
			Props:       msg.MessageProperties,
		})
		y += height + delayHeight
	}
	return signals
}

func computeSize(lifelines []Lifeline, lifelineHeight, centerRight float64, st style.Style, titleBox Box) Extent {
	frame := st.Frame.Padding
	if len(lifelines) == 0 {
		return Extent{
			Width:  titleBox.Width + frame.Horizontal(),
			Height: titleBox.Height + frame.Vertical(),
		}
	}
	last := lifelines[len(lifelines)-1].Box
	rightMost := math.Max(last.Right(), last.CenterX()+centerRight)
	return Extent{
		Width:  math.Max(titleBox.Width+frame.Horizontal(), rightMost+frame.Right),
		Height: last.Bottom() + lifelineHeight + frame.Bottom,
	}
}
