package latex

import (
	"fmt"
	"strings"
)

// frame kinds
const (
	frameGroup = iota
	frameScript
	frameLeft
	frameEnv
)

type frame struct {
	kind int
	pos  int
	env  string
	sup  bool
	sub  bool
}

// Check 在转换前校验公式结构：括号配对、\left/\right、环境配对、
// 上下标参数与命令参数。返回的错误总是 *ParseError。
func Check(tex string) error {
	c := &checker{src: tex, stack: []*frame{{kind: frameGroup, pos: -1}}}
	if pe := c.run(); pe != nil {
		return pe
	}
	return nil
}

type checker struct {
	src   string
	stack []*frame
}

func (c *checker) top() *frame { return c.stack[len(c.stack)-1] }

func (c *checker) fail(pos int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Position: pos, Source: c.src}
}

func (c *checker) run() *ParseError {
	s := c.src
	i := 0
	for i < len(s) {
		ch := s[i]
		switch {
		case ch == '\\':
			if i+1 >= len(s) {
				return c.fail(len(s), "Expected control sequence at end of input")
			}
			name, next := controlWord(s, i)
			pe, n := c.command(name, i, next)
			if pe != nil {
				return pe
			}
			i = n

		case ch == '{':
			c.newAtom()
			c.stack = append(c.stack, &frame{kind: frameGroup, pos: i})
			i++

		case ch == '}':
			f := c.top()
			switch f.kind {
			case frameGroup, frameScript:
				if len(c.stack) == 1 {
					return c.fail(i, "Extra }")
				}
			case frameLeft:
				return c.fail(i, `Expected '\right', got '}'`)
			case frameEnv:
				return c.fail(i, `Expected '\end{%s}', got '}'`, f.env)
			}
			c.stack = c.stack[:len(c.stack)-1]
			i++

		case ch == '^' || ch == '_':
			pe, n := c.script(ch, i)
			if pe != nil {
				return pe
			}
			i = n

		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++

		default:
			c.newAtom()
			i++
		}
	}

	f := c.top()
	switch f.kind {
	case frameGroup, frameScript:
		if len(c.stack) > 1 {
			return c.fail(len(s), "Expected '}', got 'EOF' at end of input")
		}
	case frameLeft:
		return c.fail(len(s), `Expected '\right', got 'EOF' at end of input`)
	case frameEnv:
		return c.fail(len(s), `No matching \end found for \begin{%s}`, f.env)
	}
	return nil
}

// newAtom starts a new nucleus: scripts seen so far no longer apply.
func (c *checker) newAtom() {
	f := c.top()
	f.sup, f.sub = false, false
}

func (c *checker) script(ch byte, i int) (*ParseError, int) {
	f := c.top()
	if ch == '^' {
		if f.sup {
			return c.fail(i, "Double superscript"), 0
		}
		f.sup = true
	} else {
		if f.sub {
			return c.fail(i, "Double subscript"), 0
		}
		f.sub = true
	}

	j := skipBlanks(c.src, i+1)
	if j >= len(c.src) {
		return c.fail(len(c.src), "Expected group after '%c' at end of input", ch), 0
	}
	switch c.src[j] {
	case '}', '&', '^', '_':
		return c.fail(j, "Expected group after '%c'", ch), 0
	case '{':
		c.stack = append(c.stack, &frame{kind: frameScript, pos: j})
		return nil, j + 1
	case '\\':
		if j+1 >= len(c.src) {
			return c.fail(len(c.src), "Expected control sequence at end of input"), 0
		}
		_, next := controlWord(c.src, j)
		return nil, next
	}
	return nil, j + 1
}

func (c *checker) command(name string, start, next int) (*ParseError, int) {
	s := c.src
	switch name {
	case `\left`:
		c.newAtom()
		end, ok := c.delimiter(next)
		if !ok {
			return c.fail(next, `Missing delimiter after \left`), 0
		}
		c.stack = append(c.stack, &frame{kind: frameLeft, pos: start})
		return nil, end

	case `\middle`:
		if c.top().kind != frameLeft {
			return c.fail(start, `\middle without preceding \left`), 0
		}
		end, ok := c.delimiter(next)
		if !ok {
			return c.fail(next, `Missing delimiter after \middle`), 0
		}
		return nil, end

	case `\right`:
		if c.top().kind != frameLeft {
			return c.fail(start, `Extra \right`), 0
		}
		c.stack = c.stack[:len(c.stack)-1]
		c.newAtom()
		end, ok := c.delimiter(next)
		if !ok {
			return c.fail(next, `Missing delimiter after \right`), 0
		}
		return nil, end

	case `\begin`:
		env, end, ok := envName(s, next)
		if !ok {
			return c.fail(next, `Expected group after '\begin'`), 0
		}
		c.newAtom()
		c.stack = append(c.stack, &frame{kind: frameEnv, pos: start, env: env})
		return nil, end

	case `\end`:
		env, end, ok := envName(s, next)
		if !ok {
			return c.fail(next, `Expected group after '\end'`), 0
		}
		f := c.top()
		if f.kind != frameEnv {
			return c.fail(start, `Extra \end{%s}`, env), 0
		}
		if f.env != env {
			return c.fail(start, `Mismatch: \begin{%s} matched by \end{%s}`, f.env, env), 0
		}
		c.stack = c.stack[:len(c.stack)-1]
		c.newAtom()
		return nil, end
	}

	c.newAtom()
	n := commandArity[name]
	pos := next
	if name == `\sqrt` {
		pos = skipOptional(s, pos)
	}
	for a := 0; a < n; a++ {
		end, ok := skipArgument(s, pos)
		if ok && end < 0 {
			break
		}
		if !ok {
			if skipBlanks(s, pos) >= len(s) {
				return c.fail(len(s), "Expected group after '%s' at end of input", name), 0
			}
			return c.fail(skipBlanks(s, pos), "Expected group after '%s'", name), 0
		}
		pos = end
	}
	// 参数本身交给主循环逐字符检查
	return nil, next
}

// delimiter skips the delimiter token following \left, \middle or \right.
func (c *checker) delimiter(i int) (int, bool) {
	i = skipBlanks(c.src, i)
	if i >= len(c.src) {
		return i, false
	}
	switch c.src[i] {
	case '\\':
		if i+1 >= len(c.src) {
			return i, false
		}
		_, next := controlWord(c.src, i)
		return next, true
	case '{', '}', '^', '_', '&':
		return i, false
	}
	_, next := (&Parser{}).parseRune(c.src, i)
	return next, true
}

// controlWord reads the control sequence at s[i] == '\\'.
func controlWord(s string, i int) (string, int) {
	if m := commandRegex.FindString(s[i:]); m != "" {
		return m, i + len(m)
	}
	return `\`, i + 1
}

func envName(s string, i int) (string, int, bool) {
	i = skipBlanks(s, i)
	if i >= len(s) || s[i] != '{' {
		return "", i, false
	}
	end := strings.IndexByte(s[i:], '}')
	if end == -1 {
		return "", i, false
	}
	return s[i+1 : i+end], i + end + 1, true
}

func skipOptional(s string, i int) int {
	j := skipBlanks(s, i)
	if j >= len(s) || s[j] != '[' {
		return i
	}
	if end := strings.IndexByte(s[j:], ']'); end != -1 {
		return j + end + 1
	}
	return i
}

// skipArgument reports whether an argument starts at i and where it ends.
// An unbalanced group counts as present with end -1; the brace check
// reports it.
func skipArgument(s string, i int) (int, bool) {
	i = skipBlanks(s, i)
	if i >= len(s) {
		return i, false
	}
	switch s[i] {
	case '}', '&', '^', '_':
		return i, false
	case '\\':
		if i+1 >= len(s) {
			return i, false
		}
		_, next := controlWord(s, i)
		return next, true
	case '{':
		depth := 0
		for j := i; j < len(s); j++ {
			switch s[j] {
			case '\\':
				j++
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return j + 1, true
				}
			}
		}
		return -1, true
	}
	_, next := (&Parser{}).parseRune(s, i)
	return next, true
}
