package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"seqdiag/internal/combi"
)

// MaxDelay is the largest accepted message delay.
const MaxDelay = 50

const (
	expectEnd         = "end of input"
	expectDestination = "destination participant alias"
)

type arrowSpec struct {
	Line LineStyle
	Head ArrowHead
}

// statement is either a late participant declaration or a message.
type statement struct {
	participant *Participant
	message     *Message
}

var (
	participantName = combi.Pattern(`[a-zA-Z0-9]+`, "participant name")
	lineContent     = combi.Pattern(`[^#\n]*`, "line content")
	newline         = combi.Literal("\n")

	skipWs  = combi.Discard(combi.Pattern(`[ \t]*`, "zero or more ws"))
	comment = combi.Discard(combi.Preceded(combi.Literal("#"), combi.Pattern(`[^\n]*`, "comment")))

	// blanks, an optional comment, then the newline
	skipLine = combi.Discard(combi.Sequence(
		skipWs,
		combi.Discard(combi.Optional(comment)),
		combi.Discard(newline),
	))
	skipLines     = combi.Discard(combi.OneOrMore(skipLine))
	skipLinesZero = combi.Discard(combi.ZeroOrMore(skipLine))
	endOfLine     = combi.Expect(skipLines, "end of line")

	titleLine       = combi.Map(taggedLine("title", lineContent, "title content"), strings.TrimSpace)
	labelLine       = combi.Map(taggedLine("label", lineContent, "label content"), strings.TrimSpace)
	participantLine = combi.Map(
		taggedLine("participant", participantName, "participant name"),
		func(name string) Participant { return Participant{Name: name} },
	)

	arrow = combi.Map(
		combi.DropNullish(combi.Sequence(
			combi.Literal("-"),
			combi.OptionalDefault(combi.Literal("-"), ""),
			combi.OptionalDefault(combi.Literal("-"), ""),
			combi.Expect(combi.Literal(">"), "arrowhead"),
			combi.OptionalDefault(combi.Literal(">"), ""),
		)),
		decodeArrow,
	)

	delay = combi.Map(
		combi.Delimited(
			combi.Literal("("),
			combi.Preceded(skipWs, combi.Pattern(`[^()#\n]*`, "delay value")),
			combi.Expect(combi.Literal(")"), "closing delimiter"),
		),
		parseDelay,
	)

	destination = combi.Expect(participantName, expectDestination)

	// the delay goes either right after the arrow or after the destination
	target = combi.Any(
		combi.Pair(combi.Terminated(delay, skipWs), destination),
		combi.Map(
			combi.Pair(destination, combi.OptionalDefault(combi.Preceded(skipWs, delay), 0)),
			func(t combi.Tuple2[string, float64]) combi.Tuple2[float64, string] {
				return combi.Tuple2[float64, string]{First: t.Second, Second: t.First}
			},
		),
	)

	fromTo = combi.Map(
		combi.Triple(
			combi.Delimited(skipWs, participantName, skipWs),
			combi.Terminated(combi.Expect(arrow, "arrow"), skipWs),
			combi.Terminated(target, endOfLine),
		),
		func(t combi.Tuple3[string, arrowSpec, combi.Tuple2[float64, string]]) Message {
			return Message{
				From: t.First,
				To:   t.Third.Second,
				MessageProperties: MessageProperties{
					Head:  t.Second.Head,
					Line:  t.Second.Line,
					Delay: t.Third.First,
				},
			}
		},
	)

	messageBlock = combi.Label(
		combi.Map(
			combi.Pair(fromTo, combi.Optional(labelLine)),
			func(t combi.Tuple2[Message, *string]) Message {
				msg := t.First
				if t.Second != nil {
					msg.Label = *t.Second
				}
				return msg
			},
		),
		"expected signal",
	)

	// participant lines go first: a message commits as soon as its source
	// name is read
	statementLine = combi.Any(
		combi.Map(participantLine, func(p Participant) statement { return statement{participant: &p} }),
		combi.Map(messageBlock, func(m Message) statement { return statement{message: &m} }),
	)

	diagram = combi.Map(
		combi.Triple(
			combi.Preceded(skipLinesZero, combi.Optional(titleLine)),
			combi.ZeroOrMore(participantLine),
			combi.Terminated(combi.ZeroOrMore(statementLine), combi.Expect(combi.EndOfInput(), expectEnd)),
		),
		func(t combi.Tuple3[*string, []Participant, []statement]) *ParsedDiagram {
			return assemble(t.First, t.Second, t.Third)
		},
	)
)

// taggedLine parses `<tag>: <body>` up to and including the end of line. The
// line is committed once the colon is seen.
func taggedLine(tag string, body combi.Parser[string], what string) combi.Parser[string] {
	head := combi.Sequence(
		skipWs,
		combi.Discard(combi.Literal(tag)),
		skipWs,
		combi.Discard(combi.Literal(":")),
	)
	return combi.Label(
		combi.Delimited(head, combi.Preceded(skipWs, combi.Expect(body, what)), endOfLine),
		"expected "+tag,
	)
}

func decodeArrow(parts []string) arrowSpec {
	joined := strings.Join(parts, "")
	spec := arrowSpec{Line: LineSolid, Head: HeadFilled}
	switch strings.Count(joined, "-") {
	case 2:
		spec.Line = LineDashed
	case 3:
		spec.Line = LineDotted
	}
	if strings.Count(joined, ">") > 1 {
		spec.Head = HeadEmpty
	}
	return spec
}

// parseDelay coerces anything that is not a finite non-negative number to 0.
// A literal too large for float64 is still a number and clamps to MaxDelay.
func parseDelay(value string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && d > 0:
		return MaxDelay
	case err != nil, math.IsNaN(d), math.IsInf(d, 0), d < 0:
		return 0
	case d > MaxDelay:
		return MaxDelay
	}
	return d
}
