package screenplay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// WriteBlocks emits blocks as line-delimited JSON, one object per block.
// Field naming and mode omission follow the DialogueBlock struct tags; this
// is the interchange format downstream tooling parses.
func WriteBlocks(w io.Writer, blocks []DialogueBlock) error {
	enc := json.NewEncoder(w)
	for i, b := range blocks {
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode block %d: %w", i, err)
		}
	}
	return nil
}

// BlockScanner iterates line-delimited JSON blocks, exposing the raw line
// bytes alongside the decoded block. Blank lines advance the line number
// but yield nothing.
type BlockScanner struct {
	scanner *bufio.Scanner
	block   DialogueBlock
	raw     []byte
	lineNo  int
	err     error
}

func NewBlockScanner(r io.Reader) *BlockScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &BlockScanner{scanner: sc}
}

// Scan advances to the next non-blank line, returning false at end of input
// or on the first malformed line. Check Err after Scan returns false.
func (s *BlockScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	for s.scanner.Scan() {
		s.lineNo++
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var b DialogueBlock
		if err := json.Unmarshal(line, &b); err != nil {
			s.err = fmt.Errorf("decode block at line %d: %w", s.lineNo, err)
			return false
		}
		s.block = b
		s.raw = line
		return true
	}
	if err := s.scanner.Err(); err != nil {
		s.err = fmt.Errorf("read blocks: %w", err)
	}
	return false
}

// Block returns the most recently decoded block.
func (s *BlockScanner) Block() DialogueBlock { return s.block }

// Raw returns the current line's bytes, valid only until the next Scan.
func (s *BlockScanner) Raw() []byte { return s.raw }

// LineNo returns the 1-based input line number of the current block.
func (s *BlockScanner) LineNo() int { return s.lineNo }

func (s *BlockScanner) Err() error { return s.err }

// ReadBlocks parses line-delimited JSON blocks, skipping blank lines.
func ReadBlocks(r io.Reader) ([]DialogueBlock, error) {
	sc := NewBlockScanner(r)
	var blocks []DialogueBlock
	for sc.Scan() {
		blocks = append(blocks, sc.Block())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return blocks, nil
}
