// Package reader decodes document formats into plain Unicode text lines for
// the chunking core. Non-Markdown formats are reduced to Markdown-style
// lines (headings become "#" runs) so the core sees their structure.
package reader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Document is the decoded form of one source file.
type Document struct {
	Title string
	Lines []string
}

// Reader converts raw document bytes into decoded text lines.
type Reader interface {
	ReadLines(r io.Reader, filename string) (Document, error)
}

// SupportedExtensions lists file extensions this service can decode.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".csv":      true,
}

// ForFile returns the reader matching a filename's extension.
func ForFile(filename string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".txt":
		return &TextReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".pdf":
		return &PDFReader{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXReader{}, nil
	case ".csv":
		return &CSVReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
	}
}

// IsSupported checks whether a filename's extension is decodable.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// splitLines normalizes line endings, strips a UTF-8 BOM, and splits into
// lines. A trailing newline does not produce a phantom empty last line.
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// baseTitle derives a fallback title from the filename.
func baseTitle(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
