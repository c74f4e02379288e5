package autorender

import (
	"strings"

	"github.com/JuanLara18/study-notes/internal/types"
)

// Segment is a piece of a text node: plain text or a math span.
type Segment struct {
	Math    bool
	Data    string // text, or the expression between the delimiters
	Raw     string // math span including its delimiters
	Display bool
}

// Split cuts text at the given delimiters. The earliest opening delimiter
// wins; at equal positions the one listed first wins. An opening delimiter
// without a closing one leaves the rest of the text untouched.
func Split(text string, delims []types.Delimiter) []Segment {
	var out []Segment
	for text != "" {
		start, d := findOpening(text, delims)
		if start < 0 {
			break
		}
		if start > 0 {
			out = append(out, Segment{Data: text[:start]})
			text = text[start:]
		}

		end := findEndOfMath(d.Right, text, len(d.Left))
		if end < 0 {
			break
		}
		raw := text[:end+len(d.Right)]
		data := text[len(d.Left):end]
		// environments are handed to the engine whole
		if strings.HasPrefix(raw, `\begin{`) {
			data = raw
		}
		out = append(out, Segment{Math: true, Data: data, Raw: raw, Display: d.Display})
		text = text[end+len(d.Right):]
	}
	if text != "" {
		out = append(out, Segment{Data: text})
	}
	return out
}

func findOpening(text string, delims []types.Delimiter) (int, types.Delimiter) {
	for i := 0; i < len(text); i++ {
		for _, d := range delims {
			if strings.HasPrefix(text[i:], d.Left) {
				return i, d
			}
		}
	}
	return -1, types.Delimiter{}
}

// findEndOfMath returns the index of the closing delimiter at brace level 0,
// skipping escaped characters. When braces never balance, the first closing
// delimiter at any level is used so the malformed span still reaches the
// engine and gets an error marker. -1 when there is none.
func findEndOfMath(right, text string, start int) int {
	level, first := 0, -1
	for i := start; i < len(text); i++ {
		if strings.HasPrefix(text[i:], right) {
			if level <= 0 {
				return i
			}
			if first < 0 {
				first = i
			}
		}
		switch text[i] {
		case '\\':
			i++
		case '{':
			level++
		case '}':
			level--
		}
	}
	return first
}

// HasMath reports whether text contains an opening delimiter.
func HasMath(text string, delims []types.Delimiter) bool {
	for _, d := range delims {
		if strings.Contains(text, d.Left) {
			return true
		}
	}
	return false
}
