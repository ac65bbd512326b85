package fuzztests

import (
	"bytes"
	"context"
	"reflect"
	"testing"
	"time"

	"seqdiag/internal/layout"
	"seqdiag/internal/measure"
	"seqdiag/internal/parser"
	"seqdiag/internal/render"
	"seqdiag/internal/style"
	"seqdiag/internal/testkit"
)

// parseTimeout is the maximum time allowed for one input. Longer runs mean
// a combinator loops without consuming input.
const parseTimeout = 5 * time.Second

func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

// FuzzParseDiagram checks that parsing is total and deterministic: every
// input yields either a diagram or a failure, and the same one twice.
func FuzzParseDiagram(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		code := clampInput(input)

		d1, fail1 := parser.ParseDiagram(code)
		d2, fail2 := parser.ParseDiagram(code)
		if (d1 == nil) == (fail1 == nil) {
			t.Fatalf("exactly one of diagram/failure expected, got %v / %v", d1, fail1)
		}
		if !reflect.DeepEqual(d1, d2) || !reflect.DeepEqual(fail1, fail2) {
			t.Fatalf("non-deterministic parse of %q", truncateForLog(input, 200))
		}
		if fail1 != nil {
			if pos := fail1.Position().Index; pos < 0 || pos > len(code)+1 {
				t.Fatalf("failure position %d outside input of %d bytes", pos, len(code))
			}
			return
		}
		for _, m := range d1.Messages {
			if m.Delay < 0 || m.Delay > parser.MaxDelay {
				t.Fatalf("delay %v out of range", m.Delay)
			}
		}
	})
}

// FuzzLayoutInvariants lays out every diagram that parses and checks the
// geometry, then renders it to make sure the SVG writer copes as well.
func FuzzLayoutInvariants(f *testing.F) {
	addCorpusSeeds(f)
	st := style.Default()
	m, _ := measure.ByName("fixed")
	f.Fuzz(func(t *testing.T, input []byte) {
		parsed, fail := parser.ParseDiagram(clampInput(input))
		if fail != nil {
			return
		}
		d := layout.Layout(parsed, m, st)
		if err := testkit.CheckLayoutInvariants(parsed, d); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
		var buf bytes.Buffer
		if err := render.SVG(&buf, d, st); err != nil {
			t.Fatal(err)
		}
	})
}

// FuzzParserNoHang guards against combinators that spin on empty matches.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	f.Add([]byte("A -> B\n" + string(bytes.Repeat([]byte("\n"), 1000))))
	f.Add(bytes.Repeat([]byte("# c\n"), 500))
	f.Add(bytes.Repeat([]byte("A ->>> "), 200))
	f.Add(bytes.Repeat([]byte("((((("), 200))

	f.Fuzz(func(t *testing.T, input []byte) {
		code := clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parser.ParseDiagram(code)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}
