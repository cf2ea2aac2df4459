package mdparse

import (
	"strings"
	"unicode/utf8"

	"tagrag/internal/block"
)

type heading struct {
	level int
	title string
}

type bufferedLine struct {
	number int // 1-based source line number
	text   string
	runes  int
}

// parsingContext is the mutable state advanced one line at a time. One
// instance is created per Parse call and owned exclusively by it, so
// concurrent parses of different documents need no synchronization.
type parsingContext struct {
	mode  Mode
	fence Fence // opener of the current code fence, mode == ModeCode only

	// headings holds the currently open ancestors, levels strictly
	// increasing from outermost to innermost.
	headings []heading

	buf       []bufferedLine
	charCount int
	// seeded counts overlap lines copied from the previous fragment's tail;
	// they sit at the head of buf and never justify a flush on their own.
	seeded int

	pendingTags []block.Tag

	// Index into buf where the currently open protected element began.
	// Valid while mode != ModeNormal.
	openStart int

	// Most recently closed protected element still held in buf.
	protType  block.ProtectedType
	protStart int
	protEnd   int
	protRunes int
	protOver  bool
}

func newContext() *parsingContext {
	return &parsingContext{protStart: -1, protEnd: -1}
}

func (c *parsingContext) append(number int, text string) {
	n := utf8.RuneCountInString(text)
	c.buf = append(c.buf, bufferedLine{number: number, text: text, runes: n})
	c.charCount += n
}

// pushHeading pops every open ancestor with a level >= the incoming one,
// then pushes, keeping levels strictly increasing.
func (c *parsingContext) pushHeading(level int, title string) {
	for len(c.headings) > 0 && c.headings[len(c.headings)-1].level >= level {
		c.headings = c.headings[:len(c.headings)-1]
	}
	c.headings = append(c.headings, heading{level: level, title: title})
}

// headerPath renders the open heading titles as a "/"-joined path.
func (c *parsingContext) headerPath() string {
	parts := make([]string, len(c.headings))
	for i, h := range c.headings {
		parts[i] = h.title
	}
	return strings.Join(parts, "/")
}

func (c *parsingContext) enterProtected(mode Mode, fence Fence) {
	c.mode = mode
	c.fence = fence
	c.openStart = len(c.buf)
}

// recordClosedSpan remembers the protected element that just closed so later
// flushes can decide whether it dominates the block and where overlap
// seeding must stop.
func (c *parsingContext) recordClosedSpan(typ block.ProtectedType, start, end, runes int, over bool) {
	c.protType = typ
	c.protStart = start
	c.protEnd = end
	c.protRunes = runes
	c.protOver = over
}

func (c *parsingContext) clearSpan() {
	c.protType = block.ProtectedNone
	c.protStart = -1
	c.protEnd = -1
	c.protRunes = 0
	c.protOver = false
}

// dropFront removes the first n buffered lines, shifting span bookkeeping.
func (c *parsingContext) dropFront(n int) {
	for _, l := range c.buf[:n] {
		c.charCount -= l.runes
	}
	c.buf = c.buf[n:]
	if c.seeded > n {
		c.seeded -= n
	} else {
		c.seeded = 0
	}
	if c.protStart >= 0 {
		c.protStart -= n
		c.protEnd -= n
		if c.protStart < 0 {
			c.clearSpan()
		}
	}
}

// reset replaces the buffer with the given overlap seed and re-derives the
// incremental counters from it.
func (c *parsingContext) reset(seed []bufferedLine, seedTags []block.Tag) {
	c.buf = seed
	c.seeded = len(seed)
	c.charCount = 0
	for _, l := range seed {
		c.charCount += l.runes
	}
	c.pendingTags = seedTags
	c.clearSpan()
}

// blank reports whether the buffer holds nothing but whitespace.
func (c *parsingContext) blank() bool {
	for _, l := range c.buf {
		if strings.TrimSpace(l.text) != "" {
			return false
		}
	}
	return true
}
