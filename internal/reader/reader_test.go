package reader

import (
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"notes.md", false},
		{"notes.markdown", false},
		{"NOTES.MD", false},
		{"plain.txt", false},
		{"page.html", false},
		{"page.htm", false},
		{"report.pdf", false},
		{"report.docx", false},
		{"rows.csv", false},
		{"image.png", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
		}
	}
}

func TestMarkdownReader_Lines(t *testing.T) {
	input := "# Title\r\n\r\nbody line\n"
	p := &MarkdownReader{}
	doc, err := p.ReadLines(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"# Title", "", "body line"}
	if len(doc.Lines) != len(want) {
		t.Fatalf("got %d lines %v, want %d", len(doc.Lines), doc.Lines, len(want))
	}
	for i := range want {
		if doc.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, doc.Lines[i], want[i])
		}
	}
	if doc.Title != "Title" {
		t.Errorf("title = %q, want %q", doc.Title, "Title")
	}
}

func TestMarkdownReader_StripsBOM(t *testing.T) {
	p := &MarkdownReader{}
	doc, err := p.ReadLines(strings.NewReader("\ufefftext"), "bom.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 1 || doc.Lines[0] != "text" {
		t.Errorf("lines = %v, want [text]", doc.Lines)
	}
}

func TestMarkdownReader_TitleFallsBackToFilename(t *testing.T) {
	p := &MarkdownReader{}
	doc, err := p.ReadLines(strings.NewReader("no headings here"), "dir/guide.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "guide" {
		t.Errorf("title = %q, want %q", doc.Title, "guide")
	}
}

func TestTextReader_Empty(t *testing.T) {
	p := &TextReader{}
	doc, err := p.ReadLines(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Errorf("expected no lines for empty input, got %v", doc.Lines)
	}
}

func TestHTMLReader_HeadingsBecomeMarkdown(t *testing.T) {
	input := `<html><head><title>Doc Title</title></head><body>
<h1>Main</h1>
<p>First paragraph.</p>
<h2>Sub</h2>
<p>Second paragraph.</p>
<script>ignored()</script>
</body></html>`

	p := &HTMLReader{}
	doc, err := p.ReadLines(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Doc Title" {
		t.Errorf("title = %q, want %q", doc.Title, "Doc Title")
	}

	text := strings.Join(doc.Lines, "\n")
	for _, want := range []string{"# Main", "## Sub", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}
	if strings.Contains(text, "ignored()") {
		t.Error("script content must be skipped")
	}
}

func TestCSVReader_RendersMarkdownTable(t *testing.T) {
	input := "city,population\nBeijing,21893095\nShanghai,24870895\n"
	p := &CSVReader{}
	doc, err := p.ReadLines(strings.NewReader(input), "cities.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"| city | population |",
		"| --- | --- |",
		"| Beijing | 21893095 |",
		"| Shanghai | 24870895 |",
	}
	if len(doc.Lines) != len(want) {
		t.Fatalf("lines = %v, want %v", doc.Lines, want)
	}
	for i := range want {
		if doc.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, doc.Lines[i], want[i])
		}
	}
	if doc.Title != "cities" {
		t.Errorf("title = %q, want %q", doc.Title, "cities")
	}
}

func TestCSVReader_EscapesPipes(t *testing.T) {
	p := &CSVReader{}
	doc, err := p.ReadLines(strings.NewReader("note\na|b\n"), "notes.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Lines[2] != `| a\|b |` {
		t.Errorf("row = %q, want escaped pipe", doc.Lines[2])
	}
}

func TestHTMLReader_BlankLinesBetweenBlocks(t *testing.T) {
	input := `<body><p>one</p><p>two</p></body>`
	p := &HTMLReader{}
	doc, err := p.ReadLines(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"one", "", "two"}
	if len(doc.Lines) != len(want) {
		t.Fatalf("lines = %v, want %v", doc.Lines, want)
	}
	for i := range want {
		if doc.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, doc.Lines[i], want[i])
		}
	}
}
