package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"seqdiag/internal/layout"
	"seqdiag/internal/parser"
)

// ModelFormat selects how a parsed diagram or layout is printed.
type ModelFormat string

const (
	ModelPretty  ModelFormat = "pretty"
	ModelJSON    ModelFormat = "json"
	ModelMsgpack ModelFormat = "msgpack"
)

// ParseModelFormat validates a --format value.
func ParseModelFormat(s string) (ModelFormat, error) {
	switch f := ModelFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ModelPretty, ModelJSON, ModelMsgpack:
		return f, nil
	case "":
		return ModelPretty, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", s)
	}
}

// WriteModel prints v, which must be *parser.ParsedDiagram or
// *layout.Diagram for the pretty format.
func WriteModel(w io.Writer, v any, format ModelFormat) error {
	switch format {
	case ModelJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case ModelMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(v)
	case ModelPretty:
		switch m := v.(type) {
		case *parser.ParsedDiagram:
			return prettyParsed(w, m)
		case *layout.Diagram:
			return prettyLayout(w, m)
		}
		return fmt.Errorf("no pretty form for %T", v)
	}
	return fmt.Errorf("unsupported format %q", format)
}

func prettyParsed(w io.Writer, d *parser.ParsedDiagram) error {
	var sb strings.Builder
	if d.Title != "" {
		fmt.Fprintf(&sb, "title: %s\n", d.Title)
	}
	names := make([]string, len(d.Participants))
	for i, p := range d.Participants {
		names[i] = p.Name
	}
	fmt.Fprintf(&sb, "participants: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(&sb, "messages: %d\n", len(d.Messages))
	for _, m := range d.Messages {
		fmt.Fprintf(&sb, "  %s -> %s  [%s %s]", m.From, m.To, m.Line, m.Head)
		if m.Delay > 0 {
			fmt.Fprintf(&sb, " delay=%s", num(m.Delay))
		}
		if m.Label != "" {
			fmt.Fprintf(&sb, " %q", m.Label)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func prettyLayout(w io.Writer, d *layout.Diagram) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "size: %s x %s\n", num(d.Size.Width), num(d.Size.Height))
	if d.Title != "" {
		fmt.Fprintf(&sb, "title: %s\n", d.Title)
	}
	fmt.Fprintf(&sb, "lifelines: %d (height %s)\n", len(d.Lifelines), num(d.LifelineHeight))
	for _, l := range d.Lifelines {
		fmt.Fprintf(&sb, "  %-12s %s\n", l.Name, box(l.Box))
	}
	fmt.Fprintf(&sb, "signals: %d\n", len(d.Signals))
	for i, s := range d.Signals {
		fmt.Fprintf(&sb, "  #%-3d %-4s %s", i, s.Direction, box(s.Box))
		if s.DelayHeight > 0 {
			fmt.Fprintf(&sb, " delay=%s", num(s.DelayHeight))
		}
		if s.Props.Label != "" {
			fmt.Fprintf(&sb, " %q", s.Props.Label)
		}
		sb.WriteString("\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func box(b layout.Box) string {
	return fmt.Sprintf("(%s,%s %sx%s)", num(b.X), num(b.Y), num(b.Width), num(b.Height))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
