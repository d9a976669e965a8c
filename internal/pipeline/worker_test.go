package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/screenlex/internal/chunker"
	"github.com/dgallion1/screenlex/internal/config"
	"github.com/dgallion1/screenlex/internal/screenplay"
)

type upsertCall struct {
	sourceFile string
	bucket     string
	count      int
	tokens     []string
}

type fakeBucketWriter struct {
	mu    sync.Mutex
	calls []upsertCall
	err   error
}

func (f *fakeBucketWriter) UpsertSwearBucket(ctx context.Context, sourceFile, bucket string, count int, tokens []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, upsertCall{
		sourceFile: sourceFile,
		bucket:     bucket,
		count:      count,
		tokens:     tokens,
	})
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(buckets BucketWriter, profile config.Profile) *Worker {
	return NewWorker(
		buckets,
		discardLogger(),
		profile,
		chunker.DefaultConfig(),
		NewRunStats(time.Hour),
		false,
	)
}

func newTestJob(filename, sourceID string, data []byte) *Job {
	job := &Job{
		ID:        ContentHashHex(data)[:20],
		SourceID:  sourceID,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	job.SetFileData(data)
	return job
}

const sampleScript = `INT. STATION - DAY

DEBRA (V.O.)
This is a fucking mess.

DEXTER
Tonight's the night.
`

func TestWorker_ProcessTextDocument(t *testing.T) {
	fake := &fakeBucketWriter{}
	worker := newTestWorker(fake, config.DefaultProfile())
	job := newTestJob("episode.txt", "s01e01", []byte(sampleScript))

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalBlocks != 2 {
		t.Errorf("expected 2 dialogue blocks, got %d", snap.Progress.TotalBlocks)
	}
	if snap.Progress.TokenEstimate <= 0 {
		t.Errorf("expected a positive token estimate, got %d", snap.Progress.TokenEstimate)
	}
	if snap.Progress.MatchedBlocks != 1 {
		t.Errorf("expected 1 matched block, got %d", snap.Progress.MatchedBlocks)
	}
	if snap.Progress.BucketsStored != 1 {
		t.Errorf("expected 1 bucket stored, got %d", snap.Progress.BucketsStored)
	}

	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 upsert call, got %d", len(fake.calls))
	}
	call := fake.calls[0]
	if call.sourceFile != "s01e01" {
		t.Errorf("expected source file %q, got %q", "s01e01", call.sourceFile)
	}
	if call.bucket != "FUCK*" {
		t.Errorf("expected bucket %q, got %q", "FUCK*", call.bucket)
	}
	if call.count != 1 {
		t.Errorf("expected count 1, got %d", call.count)
	}
	if len(call.tokens) != 1 || call.tokens[0] != "fucking" {
		t.Errorf("expected tokens [fucking], got %v", call.tokens)
	}

	blocks, stats, ok := job.Result()
	if !ok {
		t.Fatal("expected job result")
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 filtered block, got %d", len(blocks))
	}
	if blocks[0].Speaker != "DEBRA" || blocks[0].Mode != screenplay.ModeVoiceOver {
		t.Errorf("unexpected block %+v", blocks[0])
	}
	if stats.TotalWords != 5 {
		t.Errorf("expected 5 total words, got %d", stats.TotalWords)
	}
	if stats.TotalSwearWords != 1 {
		t.Errorf("expected 1 swear word, got %d", stats.TotalSwearWords)
	}
}

func TestWorker_BucketUpsertsSorted(t *testing.T) {
	fake := &fakeBucketWriter{}
	worker := newTestWorker(fake, config.DefaultProfile())

	script := "DEBRA\nShit. Fuck. Damn it to hell.\n"
	job := newTestJob("rant.txt", "rant", []byte(script))

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	if len(fake.calls) != 4 {
		t.Fatalf("expected 4 upsert calls, got %d", len(fake.calls))
	}
	// Bucket names are upserted in sorted order for deterministic runs.
	want := []string{"DAMN", "FUCK*", "HELL", "SHIT*"}
	for i, name := range want {
		if fake.calls[i].bucket != name {
			t.Errorf("call %d: expected bucket %q, got %q", i, name, fake.calls[i].bucket)
		}
	}
}

func TestWorker_StoreFailureFailsJob(t *testing.T) {
	fake := &fakeBucketWriter{err: errors.New("connection refused")}
	worker := newTestWorker(fake, config.DefaultProfile())
	job := newTestJob("episode.txt", "s01e01", []byte(sampleScript))

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status failed, got %q", snap.Status)
	}
	if snap.Phase != "storing" {
		t.Errorf("expected phase storing, got %q", snap.Phase)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected error recorded on job")
	}
}

func TestWorker_MisconfiguredFilterFailsJob(t *testing.T) {
	fake := &fakeBucketWriter{}
	// A profile with neither aliases nor a prefix cannot filter.
	profile := config.Profile{}
	worker := newTestWorker(fake, profile)
	job := newTestJob("episode.txt", "s01e01", []byte(sampleScript))

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status failed, got %q", snap.Status)
	}
	if snap.Phase != "filtering" {
		t.Errorf("expected phase filtering, got %q", snap.Phase)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no upserts, got %d", len(fake.calls))
	}
}

func TestWorker_UnsupportedFormatFailsJob(t *testing.T) {
	fake := &fakeBucketWriter{}
	worker := newTestWorker(fake, config.DefaultProfile())
	job := newTestJob("episode.xlsx", "s01e01", []byte("not a screenplay"))

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected status failed, got %q", snap.Status)
	}
	if snap.Phase != "extracting" {
		t.Errorf("expected phase extracting, got %q", snap.Phase)
	}
}

func TestWorker_PerJobProfileOverride(t *testing.T) {
	fake := &fakeBucketWriter{}
	worker := newTestWorker(fake, config.DefaultProfile())
	job := newTestJob("episode.txt", "s01e01", []byte(sampleScript))
	job.SetProfile(config.Profile{
		Speaker: screenplay.SpeakerConfig{Aliases: []string{"DEXTER"}},
		Buckets: config.DefaultProfile().Buckets,
	})

	worker.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected status completed, got %q (errors: %v)", snap.Status, snap.Progress.Errors)
	}
	blocks, stats, ok := job.Result()
	if !ok {
		t.Fatal("expected job result")
	}
	if len(blocks) != 1 || blocks[0].Speaker != "DEXTER" {
		t.Fatalf("expected DEXTER block, got %+v", blocks)
	}
	if stats.TotalSwearWords != 0 {
		t.Errorf("expected no swear words for DEXTER, got %d", stats.TotalSwearWords)
	}
	if len(fake.calls) != 0 {
		t.Errorf("expected no bucket upserts, got %d", len(fake.calls))
	}
}
