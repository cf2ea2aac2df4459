package mdparse

import "testing"

func TestClassify_NormalMode(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		kind  LineKind
		level int
		title string
	}{
		{"h1", "# Title", KindHeading, 1, "Title"},
		{"h3 indented", "  ### Deep Section  ", KindHeading, 3, "Deep Section"},
		{"h6", "###### Bottom", KindHeading, 6, "Bottom"},
		{"seven hashes", "####### not a heading", KindPlainText, 0, ""},
		{"hash without space", "#tag/value", KindPlainText, 0, ""},
		{"hash only", "#", KindPlainText, 0, ""},
		{"backtick fence", "```", KindFenceDelimiter, 0, ""},
		{"fence with info", "```go", KindFenceDelimiter, 0, ""},
		{"tilde fence", "~~~~", KindFenceDelimiter, 0, ""},
		{"two backticks", "``not a fence", KindPlainText, 0, ""},
		{"table row", "| a | b |", KindTableRow, 0, ""},
		{"indented table row", "   | a |", KindTableRow, 0, ""},
		{"empty", "", KindPlainText, 0, ""},
		{"plain", "just some prose", KindPlainText, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line, ModeNormal, Fence{})
			if got.Kind != tt.kind {
				t.Fatalf("Classify(%q) kind = %v, want %v", tt.line, got.Kind, tt.kind)
			}
			if tt.kind == KindHeading {
				if got.Level != tt.level {
					t.Errorf("level = %d, want %d", got.Level, tt.level)
				}
				if got.Title != tt.title {
					t.Errorf("title = %q, want %q", got.Title, tt.title)
				}
			}
		})
	}
}

func TestClassify_FencePayload(t *testing.T) {
	got := Classify("````python", ModeNormal, Fence{})
	if got.Kind != KindFenceDelimiter {
		t.Fatalf("expected fence delimiter, got %v", got.Kind)
	}
	if got.Fence.Char != '`' || got.Fence.Length != 4 {
		t.Errorf("fence = %+v, want char '`' length 4", got.Fence)
	}
}

func TestClassify_InCodeBlock(t *testing.T) {
	open := Fence{Char: '`', Length: 3}

	tests := []struct {
		line string
		kind LineKind
	}{
		{"```", KindFenceDelimiter},
		{"`````", KindFenceDelimiter},   // longer run still closes
		{"``` trailing", KindPlainText}, // info strings only open, never close
		{"~~~", KindPlainText},          // wrong delimiter character
		{"# looks like heading", KindPlainText},
		{"| looks like table |", KindPlainText},
		{"", KindPlainText},
	}

	for _, tt := range tests {
		got := Classify(tt.line, ModeCode, open)
		if got.Kind != tt.kind {
			t.Errorf("Classify(%q, code) = %v, want %v", tt.line, got.Kind, tt.kind)
		}
	}
}

func TestClassify_InTable(t *testing.T) {
	if got := Classify("| 1 | 2 |", ModeTable, Fence{}); got.Kind != KindTableRow {
		t.Errorf("expected table row, got %v", got.Kind)
	}
	// Anything else falls out of the table; the coordinator re-classifies it.
	if got := Classify("## heading", ModeTable, Fence{}); got.Kind != KindPlainText {
		t.Errorf("expected plain text, got %v", got.Kind)
	}
}

func TestFence_Closes(t *testing.T) {
	f := Fence{Char: '~', Length: 4}
	if !f.Closes("~~~~") {
		t.Error("expected exact-length run to close")
	}
	if !f.Closes("  ~~~~~  ") {
		t.Error("expected longer indented run to close")
	}
	if f.Closes("~~~") {
		t.Error("shorter run must not close")
	}
	if f.Closes("~~~~ info") {
		t.Error("trailing text must not close")
	}
}
