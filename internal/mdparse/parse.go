// Package mdparse walks a Markdown document line by line and cuts it into
// ordered, tagged blocks. Boundaries align with heading structure and a
// character budget; code fences and tables are atomic and never split across
// blocks, even when that overrides the budget.
package mdparse

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"tagrag/internal/block"
)

// Options configures one parser. Validation happens in New, before any
// parsing begins; a rejected configuration is never partially applied.
type Options struct {
	// MaxChars is the per-block character budget before a forced split.
	MaxChars int
	// OverlapRows is the number of trailing lines copied into the next
	// fragment after a forced split.
	OverlapRows int
	// SeedPrefix is the single character marking seed tags, "?" by default.
	SeedPrefix string
	// ExcludePatterns suppress tags whose canonical text matches any of them.
	ExcludePatterns []*regexp.Regexp
}

// Parser converts documents to blocks. It holds no per-document state, so a
// single Parser may be used for many documents from concurrent goroutines;
// each Parse call owns its context for the duration of the pass.
type Parser struct {
	opts Options
	tags *TagExtractor
}

func New(opts Options) (*Parser, error) {
	if opts.MaxChars <= 0 {
		return nil, fmt.Errorf("max chars must be positive, got %d", opts.MaxChars)
	}
	if opts.OverlapRows < 0 {
		return nil, fmt.Errorf("overlap rows must not be negative, got %d", opts.OverlapRows)
	}
	ex, err := NewTagExtractor(opts.SeedPrefix, opts.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	return &Parser{opts: opts, tags: ex}, nil
}

type flushReason int

const (
	flushHeading flushReason = iota
	flushBudget
	flushFinal
)

// Parse runs the state machine over the document's decoded lines and returns
// the block list. The pass is strictly sequential: each line's classification
// depends on the mode left by the previous one. Any sequence of Unicode
// lines is accepted; unrecognized syntax is plain text, never an error.
func (p *Parser) Parse(lines []string) []block.ParsedBlock {
	c := newContext()
	blocks := []block.ParsedBlock{}

	for i, raw := range lines {
		p.step(c, i+1, raw, &blocks)
	}
	if c.mode != ModeNormal {
		// Unterminated fence or table: close it at the last line and keep
		// going. Structural anomalies are flags, not errors.
		p.closeProtected(c, &blocks)
	}
	p.flush(c, &blocks, flushFinal)
	return blocks
}

func (p *Parser) step(c *parsingContext, number int, raw string, blocks *[]block.ParsedBlock) {
	switch c.mode {
	case ModeCode:
		// Content of an open fence is opaque: appended verbatim, never
		// tag-extracted, never budget-checked.
		c.append(number, raw)
		if Classify(raw, ModeCode, c.fence).Kind == KindFenceDelimiter {
			p.closeProtected(c, blocks)
		}
		return
	case ModeTable:
		if Classify(raw, ModeTable, Fence{}).Kind == KindTableRow {
			c.append(number, raw)
			return
		}
		// The table ends here; the failing line is re-classified under
		// normal rules in the same step.
		p.closeProtected(c, blocks)
	}

	ln := Classify(raw, ModeNormal, Fence{})
	switch ln.Kind {
	case KindFenceDelimiter:
		c.enterProtected(ModeCode, ln.Fence)
		c.append(number, raw)
	case KindTableRow:
		c.enterProtected(ModeTable, Fence{})
		c.append(number, raw)
	case KindHeading:
		p.flush(c, blocks, flushHeading)
		c.pushHeading(ln.Level, ln.Title)
		c.append(number, raw)
	default:
		// The budget check runs before the append so multi-line blocks stay
		// within MaxChars; only the overlap seed or a single line longer
		// than the whole budget can push a block past it.
		runes := utf8.RuneCountInString(raw)
		if c.charCount+runes > p.opts.MaxChars && len(c.buf) > c.seeded && !c.blank() {
			p.flush(c, blocks, flushBudget)
		}
		c.pendingTags = append(c.pendingTags, p.tags.Extract(raw)...)
		c.append(number, raw)
	}
}

// closeProtected returns the machine to Normal and settles the budget for
// the element that just closed. The element is atomic: if it outgrew the
// budget it flushes intact with the overlength flag, after the lines that
// preceded it flush as their own fragment.
func (p *Parser) closeProtected(c *parsingContext, blocks *[]block.ParsedBlock) {
	typ := block.ProtectedCode
	if c.mode == ModeTable {
		typ = block.ProtectedTable
	}
	start := c.openStart
	elemRunes := 0
	for _, l := range c.buf[start:] {
		elemRunes += l.runes
	}
	over := elemRunes > p.opts.MaxChars

	c.mode = ModeNormal
	c.fence = Fence{}

	if c.charCount <= p.opts.MaxChars {
		c.recordClosedSpan(typ, start, len(c.buf)-1, elemRunes, over)
		return
	}

	if start > 0 {
		pre := c.buf[:start]
		if start > c.seeded && !allBlank(pre) {
			*blocks = append(*blocks, p.emit(pre, c.pendingTags, true, c.spanWithin(0, start-1)))
		}
		c.pendingTags = nil
		c.dropFront(start)
	}
	if over {
		*blocks = append(*blocks, p.emit(c.buf, c.pendingTags, false, spanInfo{typ: typ, runes: elemRunes, over: true}))
		c.reset(nil, nil)
		return
	}
	c.recordClosedSpan(typ, 0, len(c.buf)-1, elemRunes, false)
}

// flush materializes the buffered lines as one block, then starts the next
// buffer — seeded with overlap lines only after a budget split, and never
// reaching into a protected span.
func (p *Parser) flush(c *parsingContext, blocks *[]block.ParsedBlock, reason flushReason) {
	onlySeed := len(c.buf) <= c.seeded
	if len(c.buf) > 0 && !onlySeed && !c.blank() {
		*blocks = append(*blocks, p.emit(c.buf, c.pendingTags, reason == flushBudget, c.spanWithin(0, len(c.buf)-1)))
	}

	var seed []bufferedLine
	var seedTags []block.Tag
	if reason == flushBudget && p.opts.OverlapRows > 0 && !onlySeed {
		seed = p.overlapSeed(c)
		for _, l := range seed {
			seedTags = append(seedTags, p.tags.Extract(l.text)...)
		}
	}
	c.reset(seed, seedTags)
}

// overlapSeed copies the buffer's last OverlapRows lines, truncated at the
// most recent protected span so overlap never crosses an element boundary.
func (p *Parser) overlapSeed(c *parsingContext) []bufferedLine {
	lo := len(c.buf) - p.opts.OverlapRows
	if lo < 0 {
		lo = 0
	}
	if c.protStart >= 0 && lo <= c.protEnd {
		lo = c.protEnd + 1
	}
	if lo >= len(c.buf) {
		return nil
	}
	seed := make([]bufferedLine, len(c.buf)-lo)
	copy(seed, c.buf[lo:])
	return seed
}

type spanInfo struct {
	typ   block.ProtectedType
	runes int
	over  bool
}

// spanWithin returns the recorded protected span if it lies entirely inside
// the given buffer index range.
func (c *parsingContext) spanWithin(lo, hi int) spanInfo {
	if c.protType != block.ProtectedNone && c.protStart >= lo && c.protEnd <= hi {
		return spanInfo{typ: c.protType, runes: c.protRunes, over: c.protOver}
	}
	return spanInfo{}
}

func (p *Parser) emit(lines []bufferedLine, tags []block.Tag, isSplited bool, span spanInfo) block.ParsedBlock {
	texts := make([]string, len(lines))
	total := 0
	for i, l := range lines {
		texts[i] = l.text
		total += l.runes
	}
	content := strings.Join(texts, "\n")

	typ := block.ProtectedNone
	over := false
	// A block carries the element type only when the element dominates it:
	// at least half of the block's characters belong to the element.
	if span.typ != block.ProtectedNone && span.runes*2 >= total {
		typ = span.typ
		over = span.over
	}

	return block.ParsedBlock{
		BlockID:                    blockID(content, lines[0].number),
		Content:                    content,
		StartLine:                  lines[0].number,
		EndLine:                    lines[len(lines)-1].number,
		Tags:                       append([]block.Tag{}, tags...),
		IsSplited:                  isSplited,
		ProtectedElementType:       typ,
		ProtectedElementOverlength: over,
	}
}

// blockID derives a stable identifier from block content and position, so
// identical input always reproduces identical IDs.
func blockID(content string, startLine int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d\n%s", startLine, content)))
	return fmt.Sprintf("%x", h[:8])
}

func allBlank(lines []bufferedLine) bool {
	for _, l := range lines {
		if strings.TrimSpace(l.text) != "" {
			return false
		}
	}
	return true
}
