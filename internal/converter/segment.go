package converter

import "strings"

// Span 记录一个被占位符替换掉的公式
type Span struct {
	Token   string // 占位符
	Raw     string // 原始公式文本（含定界符）
	Display bool
}

// Spans 按出现顺序保存被保护的公式
type Spans struct {
	list []Span
}

func (s *Spans) add(raw string, display bool) string {
	token := placeholder(len(s.list))
	s.list = append(s.list, Span{Token: token, Raw: raw, Display: display})
	return token
}

// Len returns the number of protected spans.
func (s *Spans) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// All returns the spans in source order.
func (s *Spans) All() []Span {
	if s == nil {
		return nil
	}
	return append([]Span(nil), s.list...)
}

func (s *Spans) lookup(token string) (Span, bool) {
	if s == nil {
		return Span{}, false
	}
	i := placeholderIndex(token)
	if i < 0 || i >= len(s.list) {
		return Span{}, false
	}
	return s.list[i], true
}

// RestoreText puts the raw math back into plain text.
func (s *Spans) RestoreText(text string) string {
	if s.Len() == 0 || !strings.Contains(text, placeholderPrefix) {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(token string) string {
		if span, ok := s.lookup(token); ok {
			return span.Raw
		}
		return token
	})
}
