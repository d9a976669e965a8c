package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgallion1/screenlex/internal/chunker"
	"github.com/dgallion1/screenlex/internal/config"
	"github.com/dgallion1/screenlex/internal/extract"
	"github.com/dgallion1/screenlex/internal/lexicon"
	"github.com/dgallion1/screenlex/internal/screenplay"
)

// BucketWriter is the slice of the persistence layer the worker needs.
type BucketWriter interface {
	UpsertSwearBucket(ctx context.Context, sourceFile, bucket string, count int, tokens []string) error
}

// Worker processes a single document job: extract, clean, segment, filter,
// analyze, persist.
type Worker struct {
	buckets   BucketWriter
	log       *slog.Logger
	segmenter *screenplay.Segmenter
	profile   config.Profile
	chunkCfg  chunker.Config
	runStats  *RunStats

	pdfFallback bool
}

func NewWorker(buckets BucketWriter, log *slog.Logger, profile config.Profile, chunkCfg chunker.Config, runStats *RunStats, pdfFallback bool) *Worker {
	return &Worker{
		buckets:     buckets,
		log:         log,
		segmenter:   screenplay.NewSegmenter(screenplay.NewClassifier(screenplay.DefaultClassifierConfig())),
		profile:     profile,
		chunkCfg:    chunkCfg,
		runStats:    runStats,
		pdfFallback: pdfFallback,
	}
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	start := time.Now()
	defer func() {
		w.runStats.Record(time.Since(start).Milliseconds())
	}()

	log := w.log.With("job_id", job.ID, "source", job.SourceID)

	// Phase 1: Extract raw text.
	job.SetStatus(StatusExtracting, "extracting")
	ex, err := extract.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	if pdf, ok := ex.(*extract.PDFExtractor); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}

	raw, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return
	}

	clean := screenplay.Clean(raw)
	chunks := chunker.ChunkText(clean, w.chunkCfg)
	tokens := chunker.EstimateTokens(clean)

	// Phase 2: Segment into dialogue blocks.
	job.SetStatus(StatusSegmenting, "segmenting")
	blocks := w.segmenter.Segment(screenplay.SplitLines(clean))
	log.Info("segmented document",
		"blocks", len(blocks),
		"chunks", len(chunks),
		"token_estimate", tokens,
	)

	// Phase 3: Filter to the target speaker.
	job.SetStatus(StatusFiltering, "filtering")
	profile := w.profile
	if override, ok := job.Profile(); ok {
		profile = override
	}
	matched, err := screenplay.Filter(blocks, profile.Speaker)
	if err != nil {
		log.Error("speaker filter misconfigured", "error", err)
		job.AddError(fmt.Sprintf("filter: %s", err))
		job.SetStatus(StatusFailed, "filtering")
		return
	}
	job.SetCounts(len(chunks), tokens, len(blocks), len(matched))

	// Phase 4: Lexical analysis.
	job.SetStatus(StatusAnalyzing, "analyzing")
	stats := lexicon.Analyze(matched, profile.Buckets)
	job.SetResult(matched, stats)
	log.Info("analysis complete",
		"total_words", stats.TotalWords,
		"swear_words", stats.TotalSwearWords,
		"buckets", len(stats.Buckets),
	)

	// Phase 5: Persist non-empty buckets. Failures surface verbatim and
	// abort the run; the upsert is idempotent so a re-run is safe.
	job.SetStatus(StatusStoring, "storing")
	names := make([]string, 0, len(stats.Buckets))
	for name := range stats.Buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b := stats.Buckets[name]
		if err := w.buckets.UpsertSwearBucket(ctx, job.SourceID, name, b.Count, b.Tokens); err != nil {
			log.Error("bucket upsert failed", "bucket", name, "error", err)
			job.AddError(fmt.Sprintf("store %s: %s", name, err))
			job.SetStatus(StatusFailed, "storing")
			return
		}
		job.AddBucketsStored(1)
	}

	log.Info("stored buckets", "count", len(names))
	job.SetStatus(StatusCompleted, "done")
}
