package extract

import (
	"fmt"
	"io"
)

// TextExtractor handles plain text files. The bytes are the blob; line
// structure is already what the segmenter expects.
type TextExtractor struct{}

func (e *TextExtractor) Extract(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}
