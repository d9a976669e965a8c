package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown transcripts using goldmark. Block
// source lines are emitted verbatim with a blank line between blocks,
// which keeps header/dialogue line shape intact.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		block := blockLines(n, src)
		if len(block) == 0 {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.Write(block)
	}
	return buf.String(), nil
}

// blockLines returns the raw source lines of a block node, joined with
// newlines and stripped of trailing line terminators.
func blockLines(n ast.Node, src []byte) []byte {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.Write(bytes.TrimRight(seg.Value(src), "\r\n"))
	}
	if buf.Len() == 0 {
		// Container blocks (lists, quotes) carry no lines themselves.
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			sub := blockLines(c, src)
			if len(sub) == 0 {
				continue
			}
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.Write(sub)
		}
	}
	return buf.Bytes()
}
