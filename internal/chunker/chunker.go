// Package chunker packs cleaned document text into size-bounded chunks on
// paragraph boundaries. Chunks feed downstream embedding/retrieval tooling;
// nothing in this repo consumes them beyond writing them out.
package chunker

import "strings"

// Config controls chunking behavior.
type Config struct {
	MaxChars int // target chunk size in characters
}

// DefaultConfig returns the stock chunk size.
func DefaultConfig() Config {
	return Config{MaxChars: 1200}
}

// ChunkText greedily packs blank-line-separated paragraphs into chunks of at
// most roughly MaxChars. A paragraph is never split; a single oversized
// paragraph becomes its own oversized chunk. Empty chunks are never emitted.
func ChunkText(text string, cfg Config) []string {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 1200
	}

	var chunks []string
	var buf strings.Builder

	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			chunks = append(chunks, s)
		}
		buf.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		if buf.Len() > 0 && buf.Len()+len(para) > cfg.MaxChars {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(para)
	}
	flush()

	return chunks
}
