// Package outline builds a lightweight structural summary of a markdown
// document. The parsing core works line by line and never sees the full
// AST, so this pass exists for job metadata and diagnostics only.
package outline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Outline summarizes document structure.
type Outline struct {
	Title         string      `json:"title,omitempty"`
	HeadingCounts map[int]int `json:"heading_counts"`
	Paragraphs    int         `json:"paragraphs"`
	CodeBlocks    int         `json:"code_blocks"`
}

// Analyze parses the markdown source and counts headings, paragraphs and
// fenced code blocks. Title is the text of the first H1, if any.
func Analyze(lines []string) Outline {
	src := []byte(strings.Join(lines, "\n"))

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	out := Outline{HeadingCounts: make(map[int]int)}

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			out.HeadingCounts[node.Level]++
			if node.Level == 1 && out.Title == "" {
				out.Title = headingText(node, src)
			}
		case *ast.Paragraph:
			out.Paragraphs++
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out.CodeBlocks++
		}
		return ast.WalkContinue, nil
	})

	return out
}

func headingText(h *ast.Heading, src []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(b.String())
}
