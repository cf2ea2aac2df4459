package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"

	"tagrag/internal/block"
)

// VectorStore indexes parsed blocks in an embedded chromem collection.
type VectorStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// VectorOptions configures the embedded store.
type VectorOptions struct {
	PersistPath string
	Collection  string
	APIBase     string
	APIKey      string
	Model       string
}

// NewVectorStore opens (or creates) the persistent collection. Embeddings
// come from an OpenAI-compatible endpoint.
func NewVectorStore(opts VectorOptions) (*VectorStore, error) {
	db, err := chromem.NewPersistentDB(opts.PersistPath, false)
	if err != nil {
		return nil, fmt.Errorf("open vector db: %w", err)
	}

	embed := chromem.NewEmbeddingFuncOpenAICompat(opts.APIBase, opts.APIKey, opts.Model, nil)
	collection, err := db.GetOrCreateCollection(opts.Collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", opts.Collection, err)
	}

	return &VectorStore{db: db, collection: collection}, nil
}

// AugmentText builds the text that gets embedded for a block: tags as
// "key: value" pairs prepended to the content. Protected-element blocks
// are embedded verbatim, their content is already self-describing.
func AugmentText(b block.ParsedBlock) string {
	if b.ProtectedElementType != block.ProtectedNone {
		return b.Content
	}
	parts := make([]string, 0, len(b.Tags)+1)
	for _, tag := range b.Tags {
		parts = append(parts, tag.Key+": "+tag.Value)
	}
	parts = append(parts, b.Content)
	return strings.Join(parts, " ")
}

// SaveBlocks indexes the blocks for one document. Block IDs double as
// vector IDs, so re-ingesting a document overwrites its entries.
func (s *VectorStore) SaveBlocks(ctx context.Context, docID string, blocks []block.ParsedBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(blocks))
	for _, b := range blocks {
		docs = append(docs, chromem.Document{
			ID:       b.BlockID,
			Content:  AugmentText(b),
			Metadata: blockMetadata(docID, b),
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("index blocks for %s: %w", docID, err)
	}
	return nil
}

// SearchResult is one vector query hit.
type SearchResult struct {
	BlockID    string            `json:"block_id"`
	DocID      string            `json:"doc_id"`
	Content    string            `json:"content"`
	Similarity float32           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Search runs a vector query. k is clamped to the collection size.
func (s *VectorStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return []SearchResult{}, nil
	}
	if k <= 0 {
		k = 5
	}
	if k > count {
		k = count
	}

	hits, err := s.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchResult{
			BlockID:    hit.ID,
			DocID:      hit.Metadata["doc_id"],
			Content:    hit.Content,
			Similarity: hit.Similarity,
			Metadata:   hit.Metadata,
		})
	}
	return results, nil
}

func blockMetadata(docID string, b block.ParsedBlock) map[string]string {
	md := map[string]string{
		"doc_id":     docID,
		"start_line": strconv.Itoa(b.StartLine),
		"end_line":   strconv.Itoa(b.EndLine),
		"is_splited": strconv.FormatBool(b.IsSplited),
	}
	if b.ProtectedElementType != block.ProtectedNone {
		md["protected_element_type"] = string(b.ProtectedElementType)
		md["protected_element_overlength"] = strconv.FormatBool(b.ProtectedElementOverlength)
	}
	for _, tag := range b.Tags {
		md["tag_"+tag.Key] = tag.Value
	}
	return md
}
