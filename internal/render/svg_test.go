package render

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seqdiag/internal/layout"
	"seqdiag/internal/measure"
	"seqdiag/internal/parser"
	"seqdiag/internal/style"
)

func renderString(t *testing.T, code string) string {
	t.Helper()
	parsed, failure := parser.ParseDiagram(code)
	require.Nil(t, failure)
	st := style.Default()
	d := layout.Layout(parsed, measure.Fixed{Advance: 8, Ascent: 12}, st)

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, d, st))
	return buf.String()
}

// elements разбирает документ и считает элементы по имени
func elements(t *testing.T, doc string) map[string]int {
	t.Helper()
	counts := map[string]int{}
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err, "document is not well-formed XML")
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Local]++
		}
	}
	return counts
}

func TestSVGStructure(t *testing.T) {
	doc := renderString(t, "title: Login <flow>\nA -> B\n  label: a & b\nB -->> A\n")

	counts := elements(t, doc)
	assert.Equal(t, 1, counts["svg"])
	// фон + две рамки участников
	assert.Equal(t, 3, counts["rect"])
	assert.Equal(t, 2, counts["line"])
	// заголовок, два имени, одна подпись
	assert.Equal(t, 4, counts["text"])
	// две линии сигналов и две стрелки
	assert.Equal(t, 4, counts["path"])

	assert.Contains(t, doc, "Login &lt;flow&gt;")
	assert.Contains(t, doc, "a &amp; b")
	assert.Contains(t, doc, `stroke-dasharray="5 5"`)
	assert.Contains(t, doc, `font-family="Helvetica"`)
}

func TestSVGArrowHeads(t *testing.T) {
	filled := renderString(t, "A -> B\n")
	assert.Contains(t, filled, ` Z" fill="#000"`)

	open := renderString(t, "A ->> B\n")
	assert.NotContains(t, open, ` Z"`)
}

func TestSVGSelfLoopAndDelay(t *testing.T) {
	loop := renderString(t, "A -> A\n  label: again\n")
	assert.Contains(t, loop, " A 5 5 0 0 1 ")
	assert.Contains(t, loop, `text-anchor="start"`)
	assert.NotContains(t, loop, "rotate(")

	delayed := renderString(t, "A ---> B (5)\n")
	assert.Contains(t, delayed, "rotate(")
	assert.Contains(t, delayed, `stroke-dasharray="2 2"`)
}

func TestSVGSize(t *testing.T) {
	d := &layout.Diagram{Size: layout.Extent{Width: 50, Height: 50}, Lifelines: []layout.Lifeline{}, Signals: []layout.Signal{}}
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, d, style.Default()))
	assert.Contains(t, buf.String(), `width="50" height="50" viewBox="0 0 50 50"`)
	assert.NotContains(t, buf.String(), "<text")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	d := &layout.Diagram{}
	assert.EqualError(t, SVG(failingWriter{}, d, style.Default()), "disk full")
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(0))
	assert.Equal(t, "12.5", num(12.5))
	assert.Equal(t, "-3", num(-3))
	assert.Equal(t, "1000000", num(1e6))
}
