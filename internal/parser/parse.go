package parser

import (
	"strings"

	"seqdiag/internal/combi"
)

// ParseDiagram parses a diagram source. A newline is appended when the text
// does not end with one. Only hard failures are returned: recoverable errors
// escaping the grammar are promoted to a Failure.
func ParseDiagram(code string) (*ParsedDiagram, *combi.Failure) {
	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	d, _, problem := combi.Unpack(diagram(combi.NewContext(code)))
	switch p := problem.(type) {
	case nil:
		return d, nil
	case *combi.Failure:
		return nil, p
	case *combi.Error:
		return nil, combi.Fail(p, "failure to parse diagram")
	default:
		return nil, combi.NewFailure(problem.Position(), problem.Message(), problem)
	}
}

// assemble resolves participants: declared ones first in declaration order,
// then every name first seen as a sender or receiver.
func assemble(title *string, declared []Participant, stmts []statement) *ParsedDiagram {
	d := &ParsedDiagram{
		Participants: make([]Participant, 0, len(declared)),
		Messages:     make([]Message, 0, len(stmts)),
	}
	if title != nil {
		d.Title = *title
	}

	seen := make(map[string]struct{}, len(declared))
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		d.Participants = append(d.Participants, Participant{Name: name})
	}

	for _, p := range declared {
		add(p.Name)
	}
	for _, st := range stmts {
		if st.participant != nil {
			add(st.participant.Name)
		}
	}
	for _, st := range stmts {
		if st.message != nil {
			add(st.message.From)
			add(st.message.To)
			d.Messages = append(d.Messages, *st.message)
		}
	}
	return d
}
