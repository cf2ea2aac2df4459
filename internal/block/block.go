package block

import "encoding/json"

// Tag is one piece of inline metadata extracted from a plain-text line.
// Key is the namespace root (e.g. "seed", "topic"), Value may itself be a
// slash-separated path, and OriginalText is the canonical source form.
type Tag struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	OriginalText string `json:"original_text"`
}

// ProtectedType identifies the protected element dominating a block, if any.
type ProtectedType string

const (
	ProtectedNone  ProtectedType = ""
	ProtectedCode  ProtectedType = "code"
	ProtectedTable ProtectedType = "table"
)

// MarshalJSON emits null for ProtectedNone so the wire shape is "code"|"table"|null.
func (p ProtectedType) MarshalJSON() ([]byte, error) {
	if p == ProtectedNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

func (p *ProtectedType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ProtectedNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ProtectedType(s)
	return nil
}

// ParsedBlock is one self-contained chunk of document text with its metadata.
// Instances are immutable once emitted by the parser.
type ParsedBlock struct {
	BlockID   string `json:"block_id"`
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Tags      []Tag  `json:"tags"`

	// IsSplited marks a forced fragment of a larger heading section: the
	// boundary was introduced by the size budget, not by a heading.
	IsSplited bool `json:"is_splited"`

	ProtectedElementType       ProtectedType `json:"protected_element_type"`
	ProtectedElementOverlength bool          `json:"protected_element_overlength"`
}
