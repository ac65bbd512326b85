package layout_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqdiag/internal/layout"
	"seqdiag/internal/parser"
	"seqdiag/internal/style"
	"seqdiag/internal/testkit"
)

// tenPerByte: ширина 10px на байт, высота равна размеру шрифта
var tenPerByte = layout.MeasurerFunc(func(text string, font style.Font) layout.Extent {
	return layout.Extent{Width: float64(len(text)) * 10, Height: font.Size}
})

func parseAndLayout(t *testing.T, code string) (*parser.ParsedDiagram, *layout.Diagram) {
	t.Helper()
	parsed, failure := parser.ParseDiagram(code)
	require.Nil(t, failure, "parse failed: %v", failure)
	d := layout.Layout(parsed, tenPerByte, style.Default())
	require.NoError(t, testkit.CheckLayoutInvariants(parsed, d))
	return parsed, d
}

func TestEmptyDiagramIsFramePadding(t *testing.T) {
	_, d := parseAndLayout(t, "\n")
	assert.Equal(t, layout.Extent{Width: 50, Height: 50}, d.Size)
	assert.Empty(t, d.Lifelines)
	assert.NotNil(t, d.Signals)
	assert.Empty(t, d.Signals)
	assert.Zero(t, d.CenterRight)
}

func TestTitleOnly(t *testing.T) {
	_, d := parseAndLayout(t, "title: Hi\n")
	assert.Equal(t, "Hi", d.Title)
	// 20 + 50 padding + 50 frame; 36 + 50 + 50
	assert.Equal(t, layout.Extent{Width: 120, Height: 136}, d.Size)
}

func TestTwoLifelinesNoLabel(t *testing.T) {
	_, d := parseAndLayout(t, "A -> B\n")

	require.Len(t, d.Lifelines, 2)
	assert.Equal(t, layout.Box{X: 25, Y: 25, Width: 50, Height: 56}, d.Lifelines[0].Box)
	assert.Equal(t, layout.Box{X: 75, Y: 25, Width: 50, Height: 56}, d.Lifelines[1].Box)

	require.Len(t, d.Signals, 1)
	s := d.Signals[0]
	assert.Equal(t, layout.LTR, s.Direction)
	assert.Equal(t, layout.Box{X: 51.5, Y: 81, Width: 47, Height: 16}, s.Box)
	assert.Zero(t, s.DelayHeight)

	assert.Equal(t, 38.0, d.LifelineHeight)
	assert.Zero(t, d.CenterRight)
	assert.Equal(t, layout.Extent{Width: 150, Height: 144}, d.Size)
}

func TestLabelWidensSegment(t *testing.T) {
	_, d := parseAndLayout(t, "A -> B\n  label: abcdefghij\n")

	// 100 текста + 60 отступов
	assert.Equal(t, 210.0, d.Lifelines[1].Box.CenterX())
	assert.Equal(t, 185.0, d.Lifelines[1].Box.X)
	// первый участник не сдвигается
	assert.Equal(t, 25.0, d.Lifelines[0].Box.X)

	s := d.Signals[0]
	assert.Equal(t, 157.0, s.Box.Width)
	assert.Equal(t, 28.0, s.Box.Height)
	assert.Equal(t, "abcdefghij", s.Props.Label)
}

func TestSelfMessageGetsLoopWidth(t *testing.T) {
	_, d := parseAndLayout(t, "A -> A\n")

	require.Len(t, d.Signals, 1)
	s := d.Signals[0]
	assert.Equal(t, layout.None, s.Direction)
	assert.Equal(t, layout.SelfLoopWidth(style.Default().Signal), d.CenterRight)
	assert.Equal(t, 84.0, d.CenterRight)
	assert.Equal(t, 81.0, s.Box.Width)
	assert.Equal(t, 28.0, s.Box.Height)
	assert.Equal(t, layout.Extent{Width: 159, Height: 156}, d.Size)
}

func TestSelfMessageInTheMiddleWidensRightGap(t *testing.T) {
	_, d := parseAndLayout(t, "A -> B\nB -> B\nB -> C\n")

	a, b, c := d.Lifelines[0].Box, d.Lifelines[1].Box, d.Lifelines[2].Box
	assert.Equal(t, 50.0, b.CenterX()-a.CenterX())
	assert.Equal(t, 84.0, c.CenterX()-b.CenterX())
	assert.Zero(t, d.CenterRight)
	assert.Equal(t, 81.0, d.Signals[1].Box.Width)
}

func TestRightToLeftAndDelay(t *testing.T) {
	_, d := parseAndLayout(t, "A -> B (3)\nB -> A\n  label: ok\n")

	require.Len(t, d.Signals, 2)
	first, second := d.Signals[0], d.Signals[1]
	assert.Equal(t, 30.0, first.DelayHeight)
	assert.Equal(t, layout.RTL, second.Direction)
	// второй сигнал ниже первого с учётом задержки
	assert.Equal(t, first.Box.Y+first.Box.Height+30, second.Box.Y)
	assert.Equal(t, first.Box.X, second.Box.X)
	assert.Equal(t, 10+first.Box.Height+30+second.Box.Height+12, d.LifelineHeight)
}

func TestUnlistedParticipantsAreAppended(t *testing.T) {
	parsed := &parser.ParsedDiagram{
		Participants: []parser.Participant{{Name: "B"}},
		Messages:     []parser.Message{{From: "A", To: "B"}},
	}
	d := layout.Layout(parsed, tenPerByte, style.Default())
	require.Len(t, d.Lifelines, 2)
	assert.Equal(t, "B", d.Lifelines[0].Name)
	assert.Equal(t, "A", d.Lifelines[1].Name)
	assert.Equal(t, layout.RTL, d.Signals[0].Direction)

	assert.NotNil(t, layout.Layout(nil, tenPerByte, style.Default()))
}

func TestLayoutInvariantsOnVariedInputs(t *testing.T) {
	inputs := []string{
		"Alan -> Cynthia\nCynthia -> Tina\nTina -> Cynthia\nCynthia -> Alan\n",
		"title: A much longer title than the lifelines\nA -> B\n",
		"A -> C\n  label: spanning two gaps with a long label\nB -> B\n  label: self\nC -->> A (50)\n",
		"participant: Z\nparticipant: Y\nY ---> Z\n  label: x\nZ -> Z\nZ -> Z\n",
	}
	for _, code := range inputs {
		parseAndLayout(t, code)
	}
}

func TestLayoutIsIdempotentAndConcurrent(t *testing.T) {
	parsed, want := parseAndLayout(t, "A -> B\n  label: one\nB -> C (2)\nC -> C\n  label: loop\n")

	var wg sync.WaitGroup
	results := make([]*layout.Diagram, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = layout.Layout(parsed, tenPerByte, style.Default())
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestDiagramJSON(t *testing.T) {
	_, d := parseAndLayout(t, "A -> A\n")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"direction":"none"`)

	var back layout.Diagram
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, *d, back)

	var dir layout.Direction
	assert.Error(t, dir.UnmarshalText([]byte("up")))
}
