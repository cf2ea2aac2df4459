package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tagrag/internal/mdparse"
	"tagrag/internal/outline"
	"tagrag/internal/reader"
	"tagrag/internal/store"
)

// Worker processes a single document job: decode, parse, serialize, index.
type Worker struct {
	parser  *mdparse.Parser
	writer  *store.Writer
	vectors *store.VectorStore
	log     *slog.Logger
}

// NewWorker wires a worker. vectors may be nil, in which case the indexing
// phase is skipped and jobs complete after serialization.
func NewWorker(parser *mdparse.Parser, writer *store.Writer, vectors *store.VectorStore, log *slog.Logger) *Worker {
	return &Worker{
		parser:  parser,
		writer:  writer,
		vectors: vectors,
		log:     log,
	}
}

// Process runs the full ingest pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	// Phase 1: Decode the raw document into text lines.
	job.SetStatus(StatusDecoding, "decoding")
	data := job.FileData()
	if data == nil && job.Path != "" {
		var err error
		data, err = os.ReadFile(job.Path)
		if err != nil {
			log.Error("read failed", "path", job.Path, "error", err)
			job.AddError(fmt.Sprintf("read: %s", err))
			job.SetStatus(StatusFailed, "decoding")
			return
		}
	}
	job.ContentHash = ContentHashHex(data)

	r, err := reader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "decoding")
		return
	}
	doc, err := r.ReadLines(bytes.NewReader(data), job.Filename)
	if err != nil {
		log.Error("decode failed", "error", err)
		job.AddError(fmt.Sprintf("decode: %s", err))
		job.SetStatus(StatusFailed, "decoding")
		return
	}
	if job.Title == "" {
		job.Title = doc.Title
	}

	shape := outline.Analyze(doc.Lines)
	log.Info("decoded document", "lines", len(doc.Lines),
		"headings", shape.HeadingCounts, "paragraphs", shape.Paragraphs,
		"code_blocks", shape.CodeBlocks)

	// Phase 2: Parse into tagged blocks.
	job.SetStatus(StatusParsing, "parsing")
	blocks := w.parser.Parse(doc.Lines)
	job.SetTotalBlocks(len(blocks))
	log.Info("parsed document", "blocks", len(blocks))

	// Phase 3: Serialize the block list.
	job.SetStatus(StatusSerializing, "serializing")
	path, err := w.writer.WriteBlocks(job.DocID, job.Title, job.Filename, blocks)
	if err != nil {
		log.Error("serialize failed", "error", err)
		job.AddError(fmt.Sprintf("serialize: %s", err))
		job.SetStatus(StatusFailed, "serializing")
		return
	}
	log.Info("wrote block file", "path", path)

	if w.vectors == nil || len(blocks) == 0 {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 4: Index into the vector store, with backoff on transient
	// embedding failures.
	job.SetStatus(StatusStoring, "storing")
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		lastErr = w.vectors.SaveBlocks(ctx, job.DocID, blocks)
		if lastErr == nil {
			break
		}
		log.Warn("indexing attempt failed", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			job.AddError(ctx.Err().Error())
			job.SetStatus(StatusFailed, "storing")
			return
		}
	}
	if lastErr != nil {
		log.Error("indexing failed", "error", lastErr)
		job.AddError(fmt.Sprintf("index: %s", lastErr))
		job.SetStatus(StatusPartial, "done")
		return
	}

	job.AddBlocksStored(len(blocks))
	log.Info("indexed document", "blocks", len(blocks))
	job.SetStatus(StatusCompleted, "done")
}
