package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dgallion1/screenlex/internal/screenplay"
	"github.com/dgallion1/screenlex/internal/store"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "loader",
		Short:        "Load a dialogue JSONL file into Postgres",
		SilenceUsage: true,
		RunE:         run,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("input", "", "Path to a dialogue JSONL file")
	root.Flags().String("source", "", "Label for the episode/source (e.g. Dexter_1x01)")
	root.MarkFlagRequired("input")
	root.MarkFlagRequired("source")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	source, _ := cmd.Flags().GetString("source")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (set it in .env)")
	}

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	sc := screenplay.NewBlockScanner(f)
	loaded := 0
	for sc.Scan() {
		block := sc.Block()
		// The original JSONL line rides along as jsonb for audit.
		if err := st.InsertDialogueLine(ctx, source, sc.LineNo(), block.Speaker, string(block.Mode), block.Text, sc.Raw()); err != nil {
			return err
		}
		loaded++
	}
	if err := sc.Err(); err != nil {
		return err
	}

	cmd.Printf("loaded %d lines from %s as source %s\n", loaded, input, source)
	return nil
}
