package mdparse

import (
	"regexp"
	"testing"

	"tagrag/internal/block"
)

func mustExtractor(t *testing.T, prefix string, exclude ...string) *TagExtractor {
	t.Helper()
	var res []*regexp.Regexp
	for _, p := range exclude {
		res = append(res, regexp.MustCompile(p))
	}
	e, err := NewTagExtractor(prefix, res)
	if err != nil {
		t.Fatalf("NewTagExtractor: %v", err)
	}
	return e
}

func TestTagExtractor_SeedNormalization(t *testing.T) {
	e := mustExtractor(t, "?")
	tags := e.Extract("status note #?city/beijing end")
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d: %v", len(tags), tags)
	}
	want := block.Tag{Key: "seed", Value: "city/beijing", OriginalText: "#seed/city/beijing"}
	if tags[0] != want {
		t.Errorf("tag = %+v, want %+v", tags[0], want)
	}
}

func TestTagExtractor_CustomSeedPrefix(t *testing.T) {
	e := mustExtractor(t, "!")
	tags := e.Extract("#!status/active")
	if len(tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(tags))
	}
	// Canonical form always uses "#seed/" regardless of the literal prefix.
	if tags[0].OriginalText != "#seed/status/active" {
		t.Errorf("original = %q, want %q", tags[0].OriginalText, "#seed/status/active")
	}
}

func TestTagExtractor_StandardTags(t *testing.T) {
	e := mustExtractor(t, "?")

	tests := []struct {
		name string
		line string
		want []block.Tag
	}{
		{
			"single",
			"Hello #topic/python world",
			[]block.Tag{{Key: "topic", Value: "python", OriginalText: "#topic/python"}},
		},
		{
			"deep value path",
			"#area/go/concurrency",
			[]block.Tag{{Key: "area", Value: "go/concurrency", OriginalText: "#area/go/concurrency"}},
		},
		{
			"multiple in order",
			"#a/b then #c/d",
			[]block.Tag{
				{Key: "a", Value: "b", OriginalText: "#a/b"},
				{Key: "c", Value: "d", OriginalText: "#c/d"},
			},
		},
		{"bare tag ignored", "just #hashtag here", nil},
		{"no tags", "plain prose with no markers", nil},
		{"empty line", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tags %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("tag %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTagExtractor_MixedSeedAndStandard(t *testing.T) {
	e := mustExtractor(t, "?")
	tags := e.Extract("#topic/go and #?city/beijing")
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d: %v", len(tags), tags)
	}
	if tags[0].Key != "topic" || tags[1].Key != "seed" {
		t.Errorf("expected [topic seed], got [%s %s]", tags[0].Key, tags[1].Key)
	}
}

func TestTagExtractor_Exclusion(t *testing.T) {
	e := mustExtractor(t, "?", `^#secret/`, `draft`)

	tags := e.Extract("#secret/key #topic/ok #status/draft")
	if len(tags) != 1 {
		t.Fatalf("expected 1 surviving tag, got %d: %v", len(tags), tags)
	}
	if tags[0].OriginalText != "#topic/ok" {
		t.Errorf("surviving tag = %q, want %q", tags[0].OriginalText, "#topic/ok")
	}
}

func TestTagExtractor_ExclusionMatchesCanonicalSeedForm(t *testing.T) {
	// The pattern targets the canonical "#seed/..." form, not the literal
	// "#?..." source text.
	e := mustExtractor(t, "?", `^#seed/tmp/`)
	if tags := e.Extract("#?tmp/scratch"); len(tags) != 0 {
		t.Errorf("expected seed tag to be excluded, got %v", tags)
	}
}

func TestTagExtractor_DuplicatesKept(t *testing.T) {
	e := mustExtractor(t, "?")
	tags := e.Extract("#topic/go #topic/go")
	if len(tags) != 2 {
		t.Errorf("duplicates are allowed, expected 2 tags, got %d", len(tags))
	}
}

func TestNewTagExtractor_RejectsMultiCharPrefix(t *testing.T) {
	if _, err := NewTagExtractor("??", nil); err == nil {
		t.Error("expected error for multi-character seed prefix")
	}
}
