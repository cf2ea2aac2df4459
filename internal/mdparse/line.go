package mdparse

import (
	"regexp"
	"strings"
)

// Mode is the protected-element state the machine is in while walking lines.
type Mode int

const (
	ModeNormal Mode = iota
	ModeCode
	ModeTable
)

func (m Mode) String() string {
	switch m {
	case ModeCode:
		return "code"
	case ModeTable:
		return "table"
	}
	return "normal"
}

// LineKind is the result of classifying one raw line.
type LineKind int

const (
	KindPlainText LineKind = iota
	KindHeading
	KindFenceDelimiter
	KindTableRow
)

// Line is a classified line plus any captured payload.
type Line struct {
	Kind  LineKind
	Text  string // the raw line, always set
	Level int    // heading level 1-6, Kind == KindHeading only
	Title string // heading title, Kind == KindHeading only
	Fence Fence  // fence marker, Kind == KindFenceDelimiter only
}

// Fence records the delimiter run that opened a code fence, so the closing
// line can be matched against the same character and at least the same length.
type Fence struct {
	Char   byte
	Length int
}

// Closes reports whether line terminates this fence: a run of the same
// delimiter character, at least as long as the opener, with nothing after it.
func (f Fence) Closes(line string) bool {
	s := strings.TrimSpace(line)
	n := 0
	for n < len(s) && s[n] == f.Char {
		n++
	}
	return n >= f.Length && n == len(s)
}

var headingRE = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// parseFence recognizes a fence-opening line: three or more backticks or
// tildes after optional indentation, optionally followed by an info string.
func parseFence(line string) (Fence, bool) {
	s := strings.TrimLeft(line, " \t")
	if s == "" {
		return Fence{}, false
	}
	c := s[0]
	if c != '`' && c != '~' {
		return Fence{}, false
	}
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	if n < 3 {
		return Fence{}, false
	}
	return Fence{Char: c, Length: n}, true
}

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "|")
}

// Classify maps one raw line to exactly one line kind given the current mode.
// Inside a code fence only the closing delimiter is recognized; everything
// else is inert content. Inside a table only the table-row test applies; the
// caller re-classifies a failing line under normal rules after closing the
// table. The function is pure and total over all inputs, including empty lines.
func Classify(line string, mode Mode, open Fence) Line {
	switch mode {
	case ModeCode:
		if open.Closes(line) {
			return Line{Kind: KindFenceDelimiter, Text: line, Fence: open}
		}
		return Line{Kind: KindPlainText, Text: line}
	case ModeTable:
		if isTableRow(line) {
			return Line{Kind: KindTableRow, Text: line}
		}
		return Line{Kind: KindPlainText, Text: line}
	}

	if f, ok := parseFence(line); ok {
		return Line{Kind: KindFenceDelimiter, Text: line, Fence: f}
	}
	if isTableRow(line) {
		return Line{Kind: KindTableRow, Text: line}
	}
	if m := headingRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
		return Line{
			Kind:  KindHeading,
			Text:  line,
			Level: len(m[1]),
			Title: strings.TrimSpace(m[2]),
		}
	}
	return Line{Kind: KindPlainText, Text: line}
}
