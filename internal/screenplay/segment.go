package screenplay

import (
	"regexp"
	"strings"
)

// Segmenter partitions a line sequence into dialogue blocks. It is a small
// state machine: IDLE until a header line opens a block, COLLECTING until a
// blank line or the next header closes it. Narrative text outside any
// attribution is dropped.
type Segmenter struct {
	classifier *Classifier
}

func NewSegmenter(c *Classifier) *Segmenter {
	return &Segmenter{classifier: c}
}

// stageDirection matches a line that is exactly one parenthetical group,
// e.g. "(beat)" on its own line under a header.
var stageDirection = regexp.MustCompile(`^\s*\([^()]*\)\s*$`)

// Segment consumes lines strictly in order and returns the dialogue blocks
// they contain. A header with no collected text before the next boundary
// produces no block.
func (s *Segmenter) Segment(lines []string) []DialogueBlock {
	var (
		blocks     []DialogueBlock
		collecting bool
		speaker    string
		mode       Mode
		buf        []string
	)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if text == "" {
			return
		}
		blocks = append(blocks, DialogueBlock{Speaker: speaker, Mode: mode, Text: text})
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if m, ok := s.classifier.Classify(line); ok {
			flush()
			collecting = true
			speaker = m.Speaker
			mode = ResolveMode(m.Annotations)
			// A lone parenthetical stage direction right under the
			// header is consumed, never buffered or re-examined.
			if i+1 < len(lines) && stageDirection.MatchString(lines[i+1]) {
				i++
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			flush()
			collecting = false
			continue
		}

		if collecting {
			buf = append(buf, line)
		}
	}

	flush()
	return blocks
}

// SegmentText is the convenience path from a raw text blob: clean, split
// into lines, segment.
func (s *Segmenter) SegmentText(text string) []DialogueBlock {
	return s.Segment(SplitLines(Clean(text)))
}
