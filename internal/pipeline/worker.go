package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/j-russo/chunking-visualizer/internal/parser"
	"github.com/j-russo/chunking-visualizer/internal/stats"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Submit once the orchestrator is shutting down.
	ErrStopped = errors.New("pipeline is stopped")
	// ErrTextTooLarge marks extracted text above the configured limit.
	ErrTextTooLarge = errors.New("extracted text too large")
)

// CheckTextSize rejects text longer than limit bytes. A limit <= 0 disables
// the check.
func CheckTextSize(text string, limit int64) error {
	if limit > 0 && int64(len(text)) > limit {
		return fmt.Errorf("%w: %d bytes exceeds max %d", ErrTextTooLarge, len(text), limit)
	}
	return nil
}

// Worker processes a single document job.
type Worker struct {
	rec          *stats.Recorder
	log          *slog.Logger
	opts         parser.Options
	maxTextBytes int64
}

// NewWorker creates a worker. maxTextBytes caps the text extracted from a
// document; 0 means no cap.
func NewWorker(rec *stats.Recorder, log *slog.Logger, opts parser.Options, maxTextBytes int64) *Worker {
	return &Worker{rec: rec, log: log, opts: opts, maxTextBytes: maxTextBytes}
}

// Process parses the uploaded document, flattens it to text and chunks it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename, "strategy", job.Strategy)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	tree, err := parser.ParseBytes(job.FileData(), job.Filename, w.opts)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", err)
		return
	}
	if err := ctx.Err(); err != nil {
		job.Fail("parsing", fmt.Errorf("cancelled: %w", err))
		return
	}

	text := tree.Text()
	if err := CheckTextSize(text, w.maxTextBytes); err != nil {
		log.Warn("extracted text rejected", "error", err)
		job.Fail("parsing", err)
		return
	}
	log.Info("parsed document", "title", tree.Title, "sections", tree.Sections(), "bytes", len(text))

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	analysis, err := Analyze(w.rec, job.Strategy, text, job.Params)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.Fail("chunking", err)
		return
	}

	job.Complete(tree.Title, ContentHashHex([]byte(text)), analysis)
	log.Info("chunked document",
		"chunks", analysis.Metrics.Count,
		"avg_size", analysis.Metrics.AvgSize,
		"efficiency", analysis.Efficiency,
	)
}
