package macro

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Expand replaces every macro call in tex with its template, arguments
// substituted. Arguments are expanded before substitution; inside its own
// expansion a macro name refers to the primitive, so `\sum` -> `\sum_{#1}^{#2}`
// terminates. A macro whose template is `\cs_{#1}^{#2}` and whose call is
// followed by `_` or `^` becomes just `\cs`, so `\sum_{i=1}^{n}` and
// `\integral_0^1` take the author's scripts.
// limit bounds the total number of expansions (<= 0: unbounded).
//
// Expand is a pure function of (table, tex, limit).
func (t *Table) Expand(tex string, limit int) (string, error) {
	if t.Len() == 0 {
		return tex, nil
	}
	e := &expander{t: t, limit: limit}
	return e.expand(tex, nil)
}

type expander struct {
	t     *Table
	limit int
	count int
}

func (e *expander) expand(s string, blocked []string) (string, error) {
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '\\' {
			out.WriteByte(s[i])
			i++
			continue
		}
		name, next := controlSequence(s, i)
		m, ok := e.t.Lookup(name)
		if !ok || contains(blocked, name) {
			out.WriteString(name)
			i = next
			continue
		}

		if head, ok := scriptHead(m.Template); ok && m.Arity > 0 && scriptFollows(s, next) {
			head, err := e.expand(head, append(blocked[:len(blocked):len(blocked)], name))
			if err != nil {
				return "", err
			}
			out.WriteString(head)
			i = next
			continue
		}

		e.count++
		if e.limit > 0 && e.count > e.limit {
			return "", fmt.Errorf("%w: more than %d macro expansions", ErrTooManyExpansions, e.limit)
		}

		args := make([]string, m.Arity)
		pos := next
		for a := 0; a < m.Arity; a++ {
			raw, end, ok := argument(s, pos)
			if !ok {
				return "", fmt.Errorf("%w: %s expects %d argument(s)", ErrMissingArgument, name, m.Arity)
			}
			expanded, err := e.expand(raw, blocked)
			if err != nil {
				return "", err
			}
			args[a] = expanded
			pos = end
		}
		body, err := e.expand(m.Template, append(blocked[:len(blocked):len(blocked)], name))
		if err != nil {
			return "", err
		}
		result := substitute(body, args)
		if result != "" && isLetter(result[0]) && endsWithControlWord(out.String()) {
			out.WriteByte(' ')
		}
		out.WriteString(result)
		if pos < len(s) && isLetter(s[pos]) && endsWithControlWord(result) {
			out.WriteByte(' ')
		}
		i = pos
	}
	return out.String(), nil
}

func scriptFollows(s string, i int) bool {
	i = skipSpaces(s, i)
	return i < len(s) && (s[i] == '_' || s[i] == '^')
}

// scriptHead returns the control sequence a template such as
// `\int_{#1}^{#2}` attaches its scripts to.
func scriptHead(template string) (string, bool) {
	if template == "" || template[0] != '\\' {
		return "", false
	}
	cs, next := controlSequence(template, 0)
	if next >= len(template) || (template[next] != '_' && template[next] != '^') {
		return "", false
	}
	return cs, true
}

// controlSequence reads the control word or symbol starting at s[i] == '\\'.
func controlSequence(s string, i int) (string, int) {
	j := i + 1
	if j >= len(s) {
		return `\`, j
	}
	if !isLetter(s[j]) {
		_, size := utf8.DecodeRuneInString(s[j:])
		return s[i : j+size], j + size
	}
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	return s[i:j], j
}

// argument reads one undelimited macro argument: a braced group (returned
// without its braces) or a single token.
func argument(s string, i int) (string, int, bool) {
	i = skipSpaces(s, i)
	if i >= len(s) {
		return "", i, false
	}
	switch c := s[i]; {
	case c == '{':
		end, ok := matchBrace(s, i)
		if !ok {
			return "", i, false
		}
		return s[i+1 : end], end + 1, true
	case c == '\\':
		name, next := controlSequence(s, i)
		return name, next, true
	case c == '#' && i+1 < len(s) && s[i+1] >= '1' && s[i+1] <= '9':
		return s[i : i+2], i + 2, true
	case c == '}':
		return "", i, false
	default:
		_, size := utf8.DecodeRuneInString(s[i:])
		return s[i : i+size], i + size, true
	}
}

// matchBrace returns the index of the '}' closing the '{' at s[open].
func matchBrace(s string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func skipSpaces(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
