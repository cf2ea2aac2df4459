package mdparse

import (
	"fmt"
	"regexp"
	"sort"
	"unicode/utf8"

	"tagrag/internal/block"
)

// TagExtractor pulls inline tags out of plain-text lines. Two dialects are
// recognized: seed tags ("#" + seed prefix + path), normalized to the
// canonical "seed" key, and standard "#key/value" tags. Candidates whose
// canonical text matches an exclusion pattern are dropped from the result;
// the source text is never altered.
type TagExtractor struct {
	seedRE  *regexp.Regexp
	stdRE   *regexp.Regexp
	exclude []*regexp.Regexp
}

// NewTagExtractor builds an extractor for the given seed prefix (a single
// character, "?" by default) and exclusion patterns.
func NewTagExtractor(seedPrefix string, exclude []*regexp.Regexp) (*TagExtractor, error) {
	if seedPrefix == "" {
		seedPrefix = "?"
	}
	if utf8.RuneCountInString(seedPrefix) != 1 {
		return nil, fmt.Errorf("seed prefix must be a single character, got %q", seedPrefix)
	}
	seedRE, err := regexp.Compile(`#` + regexp.QuoteMeta(seedPrefix) + `(\w+(?:/\w+)*)`)
	if err != nil {
		return nil, fmt.Errorf("compile seed pattern: %w", err)
	}
	return &TagExtractor{
		seedRE:  seedRE,
		stdRE:   regexp.MustCompile(`#(\w+)/(\w+(?:/\w+)*)`),
		exclude: exclude,
	}, nil
}

type candidate struct {
	start int
	end   int
	tag   block.Tag
}

// Extract returns the tags found in one line of plain text, in order of
// appearance. Matched spans are consumed once; overlapping candidates after
// an accepted match are skipped.
func (e *TagExtractor) Extract(line string) []block.Tag {
	var cands []candidate

	for _, m := range e.seedRE.FindAllStringSubmatchIndex(line, -1) {
		path := line[m[2]:m[3]]
		cands = append(cands, candidate{
			start: m[0],
			end:   m[1],
			tag: block.Tag{
				Key:          "seed",
				Value:        path,
				OriginalText: "#seed/" + path,
			},
		})
	}
	for _, m := range e.stdRE.FindAllStringSubmatchIndex(line, -1) {
		cands = append(cands, candidate{
			start: m[0],
			end:   m[1],
			tag: block.Tag{
				Key:          line[m[2]:m[3]],
				Value:        line[m[4]:m[5]],
				OriginalText: line[m[0]:m[1]],
			},
		})
	}
	if len(cands) == 0 {
		return nil
	}

	// Left to right, seed matches win ties by starting earlier (the seed
	// marker sits between "#" and the path, so a seed span never shares its
	// start with a standard span).
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].start < cands[j].start })

	var tags []block.Tag
	lastEnd := -1
	for _, c := range cands {
		if c.start < lastEnd {
			continue
		}
		lastEnd = c.end
		if e.excluded(c.tag.OriginalText) {
			continue
		}
		tags = append(tags, c.tag)
	}
	return tags
}

func (e *TagExtractor) excluded(canonical string) bool {
	for _, re := range e.exclude {
		if re.MatchString(canonical) {
			return true
		}
	}
	return false
}
