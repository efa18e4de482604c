package service

import "strings"

const (
	SegmentText  = "text"
	SegmentCode  = "code"
	SegmentBreak = "break"
)

// TextSegment is one renderable piece of a question's text. Clients show
// code segments preformatted in a fixed-width style, without highlighting.
type TextSegment struct {
	Kind    string `json:"kind"`
	Content string `json:"content,omitempty"`
}

// SplitQuestionText splits raw question text into alternating plain and code
// segments. A fence opens on a line whose trimmed content starts with ```
// (an optional language hint is accepted and ignored) and closes on a line
// whose trimmed content is exactly ```. A trailing unclosed fence still
// renders its accumulated lines as code. Outside fences, each non-blank line
// becomes its own text segment and each blank line a break segment.
func SplitQuestionText(text string) []TextSegment {
	var segments []TextSegment
	var codeLines []string
	inCode := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if !inCode && strings.HasPrefix(trimmed, "```") {
			inCode = true
			codeLines = codeLines[:0]
			continue
		}

		if inCode && trimmed == "```" {
			inCode = false
			segments = append(segments, TextSegment{Kind: SegmentCode, Content: strings.Join(codeLines, "\n")})
			codeLines = codeLines[:0]
			continue
		}

		if inCode {
			codeLines = append(codeLines, line)
			continue
		}

		if trimmed == "" {
			segments = append(segments, TextSegment{Kind: SegmentBreak})
		} else {
			segments = append(segments, TextSegment{Kind: SegmentText, Content: line})
		}
	}

	if inCode && len(codeLines) > 0 {
		segments = append(segments, TextSegment{Kind: SegmentCode, Content: strings.Join(codeLines, "\n")})
	}

	return segments
}
