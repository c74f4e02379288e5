// Package style edits inline CSS declaration lists (the style attribute).
package style

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Declarations is an ordered property → value list. Setting an existing
// property keeps its position, so repeated edits never grow the list.
type Declarations struct {
	m *orderedmap.OrderedMap[string, string]
}

// Parse reads a style attribute value. Malformed declarations are dropped.
func Parse(attr string) *Declarations {
	d := &Declarations{m: orderedmap.New[string, string]()}
	for _, decl := range split(attr) {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" || val == "" {
			continue
		}
		d.m.Set(prop, val)
	}
	return d
}

// split cuts attr at semicolons outside parentheses and quotes, so values
// like url(data:image/png;base64,...) stay whole.
func split(attr string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(attr); i++ {
		c := attr[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case c == ';' && depth == 0:
			parts = append(parts, attr[start:i])
			start = i + 1
		}
	}
	return append(parts, attr[start:])
}

func (d *Declarations) Get(prop string) (string, bool) {
	return d.m.Get(strings.ToLower(prop))
}

func (d *Declarations) Set(prop, val string) {
	d.m.Set(strings.ToLower(prop), val)
}

func (d *Declarations) Remove(prop string) {
	d.m.Delete(strings.ToLower(prop))
}

func (d *Declarations) Len() int { return d.m.Len() }

// String renders the declarations as `a: b; c: d`.
func (d *Declarations) String() string {
	parts := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		parts = append(parts, pair.Key+": "+pair.Value)
	}
	return strings.Join(parts, "; ")
}
