package reader

import (
	"io"
	"strings"
)

// MarkdownReader passes Markdown through verbatim: the chunking core owns
// all Markdown interpretation, so decoding is just line splitting.
type MarkdownReader struct{}

func (p *MarkdownReader) ReadLines(r io.Reader, filename string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	lines := splitLines(string(data))

	title := baseTitle(filename)
	for _, line := range lines {
		if strings.HasPrefix(line, "# ") {
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			break
		}
	}

	return Document{Title: title, Lines: lines}, nil
}

// TextReader handles plain text files; lines are kept verbatim.
type TextReader struct{}

func (p *TextReader) ReadLines(r io.Reader, filename string) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	return Document{Title: baseTitle(filename), Lines: splitLines(string(data))}, nil
}
