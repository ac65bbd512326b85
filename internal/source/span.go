package source

import "fmt"

// Span is a half-open byte range inside one file.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start >= s.End
}

func (s Span) Len() uint32 {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both; spans of other files are ignored.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Clamp trims the span to [0, limit].
func (s Span) Clamp(limit uint32) Span {
	if s.Start > limit {
		s.Start = limit
	}
	if s.End > limit {
		s.End = limit
	}
	if s.End < s.Start {
		s.End = s.Start
	}
	return s
}
