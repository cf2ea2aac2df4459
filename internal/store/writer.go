// Package store persists parse results: a JSON block file per document
// and an embedded vector collection for retrieval.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tagrag/internal/block"
)

// BlockFile is the on-disk result for one parsed document.
type BlockFile struct {
	DocID       string              `json:"doc_id"`
	Title       string              `json:"title,omitempty"`
	Source      string              `json:"source,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	BlockCount  int                 `json:"block_count"`
	Blocks      []block.ParsedBlock `json:"blocks"`
}

// Writer serializes block files into an output directory.
type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("output directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteBlocks writes the document's blocks to <dir>/<docID>.blocks.json.
// The write goes through a temp file and rename so readers never observe
// a partial file.
func (w *Writer) WriteBlocks(docID, title, source string, blocks []block.ParsedBlock) (string, error) {
	if !ValidDocID(docID) {
		return "", fmt.Errorf("invalid document id %q", docID)
	}
	if blocks == nil {
		blocks = []block.ParsedBlock{}
	}
	file := BlockFile{
		DocID:       docID,
		Title:       title,
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		BlockCount:  len(blocks),
		Blocks:      blocks,
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal blocks: %w", err)
	}

	dest := w.Path(docID)
	tmp, err := os.CreateTemp(w.dir, ".blocks-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write blocks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("replace block file: %w", err)
	}
	return dest, nil
}

// ReadBlocks loads a previously written block file.
func (w *Writer) ReadBlocks(docID string) (*BlockFile, error) {
	if !ValidDocID(docID) {
		return nil, fmt.Errorf("invalid document id %q", docID)
	}
	data, err := os.ReadFile(w.Path(docID))
	if err != nil {
		return nil, err
	}
	var file BlockFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode block file for %s: %w", docID, err)
	}
	return &file, nil
}

// Path returns the block file location for a document ID.
func (w *Writer) Path(docID string) string {
	return filepath.Join(w.dir, docID+".blocks.json")
}

// ValidDocID rejects IDs that could escape the output directory.
func ValidDocID(id string) bool {
	return id != "" && !strings.ContainsAny(id, "/\\") && id != "." && id != ".."
}
