package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/screenlex/internal/chunker"
	"github.com/dgallion1/screenlex/internal/config"
	"github.com/dgallion1/screenlex/internal/extract"
	"github.com/dgallion1/screenlex/internal/lexicon"
	"github.com/dgallion1/screenlex/internal/screenplay"
	"github.com/dgallion1/screenlex/internal/store"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "screenlex <input>",
		Short:        "Segment a screenplay and compute swear-word statistics for one character",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "output", "Output directory")
	root.Flags().String("source", "", "Source label (defaults to input basename)")
	root.Flags().String("profile", "", "Speaker profile YAML (defaults to built-in)")
	root.Flags().Bool("db", false, "Upsert bucket records into Postgres (DATABASE_URL)")
	root.Flags().Int("chunk-chars", 1200, "Max chunk size in characters")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	source, _ := cmd.Flags().GetString("source")
	profilePath, _ := cmd.Flags().GetString("profile")
	toDB, _ := cmd.Flags().GetBool("db")
	chunkChars, _ := cmd.Flags().GetInt("chunk-chars")

	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	ex, err := extract.ForFile(input)
	if err != nil {
		return err
	}
	if pdf, ok := ex.(*extract.PDFExtractor); ok {
		pdf.FallbackPdftotext = true
	}
	raw, err := ex.Extract(f, filepath.Base(input))
	if err != nil {
		return err
	}

	clean := screenplay.Clean(raw)
	chunks := chunker.ChunkText(clean, chunker.Config{MaxChars: chunkChars})

	seg := screenplay.NewSegmenter(screenplay.NewClassifier(screenplay.DefaultClassifierConfig()))
	blocks := seg.Segment(screenplay.SplitLines(clean))

	matched, err := screenplay.Filter(blocks, profile.Speaker)
	if err != nil {
		return err
	}
	stats := lexicon.Analyze(matched, profile.Buckets)

	if err := writeOutputs(outDir, speakerTag(profile.Speaker), raw, clean, chunks, blocks, matched, stats); err != nil {
		return err
	}

	if toDB {
		if err := upsertBuckets(source, stats); err != nil {
			return err
		}
	}

	cmd.Printf("%s: %d chunks (~%d tokens), %d blocks, %d for speaker; %d words, %d swear words (%.1f%%)\n",
		source, len(chunks), chunker.EstimateTokens(clean), len(blocks), len(matched),
		stats.TotalWords, stats.TotalSwearWords, stats.SwearPct)
	return nil
}

// writeOutputs mirrors the numbered stage files downstream tooling expects.
func writeOutputs(outDir, tag, raw, clean string, chunks []string, blocks, matched []screenplay.DialogueBlock, stats lexicon.Stats) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(outDir, "01_raw.txt"), []byte(raw), 0o644); err != nil {
		return fmt.Errorf("write raw text: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "02_clean.txt"), []byte(clean), 0o644); err != nil {
		return fmt.Errorf("write clean text: %w", err)
	}

	var chunkLines strings.Builder
	for _, c := range chunks {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode chunk: %w", err)
		}
		chunkLines.Write(b)
		chunkLines.WriteByte('\n')
	}
	if err := os.WriteFile(filepath.Join(outDir, "03_chunks.jsonl"), []byte(chunkLines.String()), 0o644); err != nil {
		return fmt.Errorf("write chunks: %w", err)
	}

	if err := writeBlocksFile(filepath.Join(outDir, "04_dialogue.jsonl"), blocks); err != nil {
		return err
	}
	if err := writeBlocksFile(filepath.Join(outDir, fmt.Sprintf("05_%s_dialogue.jsonl", tag)), matched); err != nil {
		return err
	}

	statsJSON, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "06_stats.json"), append(statsJSON, '\n'), 0o644); err != nil {
		return fmt.Errorf("write stats: %w", err)
	}
	return nil
}

func writeBlocksFile(path string, blocks []screenplay.DialogueBlock) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := screenplay.WriteBlocks(f, blocks); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}

func upsertBuckets(source string, stats lexicon.Stats) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required with --db")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	names := make([]string, 0, len(stats.Buckets))
	for name := range stats.Buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b := stats.Buckets[name]
		if err := st.UpsertSwearBucket(ctx, source, name, b.Count, b.Tokens); err != nil {
			return err
		}
	}
	return nil
}

// speakerTag derives a filename-safe tag for the filtered dialogue output.
func speakerTag(cfg screenplay.SpeakerConfig) string {
	name := cfg.Prefix
	if name == "" && len(cfg.Aliases) > 0 {
		name = cfg.Aliases[0]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "speaker"
	}
	return name
}
