package buffer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TextBuffer accumulates plain text and tracks its length in runes.
type TextBuffer struct {
	parts []string
	runes int
}

// New creates a new TextBuffer.
func New() *TextBuffer {
	return &TextBuffer{
		parts: make([]string, 0),
	}
}

// Write appends text to the buffer.
func (tb *TextBuffer) Write(text string) {
	if text == "" {
		return
	}
	tb.parts = append(tb.parts, text)
	tb.runes += utf8.RuneCountInString(text)
}

// Len returns the number of runes written.
func (tb *TextBuffer) Len() int {
	return tb.runes
}

// ByteOffset returns the current byte offset (total string length).
func (tb *TextBuffer) ByteOffset() int {
	total := 0
	for _, p := range tb.parts {
		total += len(p)
	}
	return total
}

// TrailingNewlineCount counts trailing newline characters in the buffer.
func (tb *TextBuffer) TrailingNewlineCount() int {
	count := 0
	for i := len(tb.parts) - 1; i >= 0; i-- {
		part := tb.parts[i]
		for j := len(part) - 1; j >= 0; j-- {
			if part[j] == '\n' {
				count++
			} else {
				return count
			}
		}
	}
	return count
}

// Break makes sure the buffer ends with at least n newlines.
// An empty buffer stays empty.
func (tb *TextBuffer) Break(n int) {
	if len(tb.parts) == 0 {
		return
	}
	if missing := n - tb.TrailingNewlineCount(); missing > 0 {
		tb.Write(strings.Repeat("\n", missing))
	}
}

// String returns the accumulated text.
func (tb *TextBuffer) String() string {
	var b strings.Builder
	b.Grow(tb.ByteOffset())
	for _, p := range tb.parts {
		b.WriteString(p)
	}
	return b.String()
}

// Reset clears the buffer.
func (tb *TextBuffer) Reset() {
	tb.parts = tb.parts[:0]
	tb.runes = 0
}

// Excerpt collapses whitespace in text and cuts it to at most limit runes,
// at a word boundary when there is one, appending "…" when cut.
func Excerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)[:limit]
	cut := len(runes)
	for i := len(runes) - 1; i > limit/2; i-- {
		if unicode.IsSpace(runes[i]) {
			cut = i
			break
		}
	}
	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + "…"
}
