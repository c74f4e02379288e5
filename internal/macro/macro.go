// Package macro holds the macro table applied to math source before it is
// rendered, and the expansion of macro calls with positional arguments.
package macro

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var (
	ErrFrozen            = errors.New("macro table is frozen")
	ErrInvalidName       = errors.New("invalid macro name")
	ErrTooManyExpansions = errors.New("too many expansions")
	ErrMissingArgument   = errors.New("missing macro argument")
)

// Definition is one trigger token and the template it expands to.
type Definition struct {
	Name     string
	Template string
}

// Macro is a defined macro. Arity is the highest #n placeholder in Template.
type Macro struct {
	Name     string
	Template string
	Arity    int
}

// Duplicate records a redefinition of an existing key.
type Duplicate struct {
	Key      string
	Previous string
	Value    string
}

// Table is an ordered macro mapping. Redefining a key overwrites its value
// in place and is recorded in Duplicates.
type Table struct {
	mu         sync.RWMutex
	m          *orderedmap.OrderedMap[string, Macro]
	duplicates []Duplicate
	frozen     bool
}

// NewTable returns an empty, mutable table.
func NewTable() *Table {
	return &Table{m: orderedmap.New[string, Macro]()}
}

// FromDefinitions builds a frozen table from defs, in order.
func FromDefinitions(defs []Definition) (*Table, error) {
	t := NewTable()
	for _, d := range defs {
		if err := t.Define(d.Name, d.Template); err != nil {
			return nil, err
		}
	}
	t.Freeze()
	return t, nil
}

// MustFromDefinitions is like FromDefinitions but panics on error. Meant for
// package-level tables built from literals.
func MustFromDefinitions(defs []Definition) *Table {
	t, err := FromDefinitions(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// Define adds or overwrites name.
func (t *Table) Define(name, template string) error {
	if !validName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.frozen {
		return ErrFrozen
	}
	prev, present := t.m.Set(name, Macro{Name: name, Template: template, Arity: arity(template)})
	if present {
		t.duplicates = append(t.duplicates, Duplicate{Key: name, Previous: prev.Template, Value: template})
	}
	return nil
}

// Freeze makes the table read-only.
func (t *Table) Freeze() {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
}

func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Lookup returns the macro defined for name.
func (t *Table) Lookup(name string) (Macro, bool) {
	if t == nil {
		return Macro{}, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m.Get(name)
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.m.Len()
}

// Definitions returns the effective definitions in first-definition order.
func (t *Table) Definitions() []Definition {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	defs := make([]Definition, 0, t.m.Len())
	for p := t.m.Oldest(); p != nil; p = p.Next() {
		defs = append(defs, Definition{Name: p.Key, Template: p.Value.Template})
	}
	return defs
}

// Map returns the effective definitions as a plain map, the form external
// renderers take.
func (t *Table) Map() map[string]string {
	out := make(map[string]string, t.Len())
	for _, d := range t.Definitions() {
		out[d.Name] = d.Template
	}
	return out
}

// Duplicates returns every redefinition seen while the table was built.
func (t *Table) Duplicates() []Duplicate {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Duplicate(nil), t.duplicates...)
}

// Merge returns a new frozen table with t's definitions followed by other's.
func (t *Table) Merge(other *Table) (*Table, error) {
	return FromDefinitions(append(t.Definitions(), other.Definitions()...))
}

func validName(name string) bool {
	if len(name) < 2 || name[0] != '\\' {
		return false
	}
	rest := name[1:]
	if len(rest) == 1 {
		return true
	}
	for i := 0; i < len(rest); i++ {
		if !isLetter(rest[i]) {
			return false
		}
	}
	return true
}

func arity(template string) int {
	n := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '#' && template[i+1] >= '1' && template[i+1] <= '9' {
			if d := int(template[i+1] - '0'); d > n {
				n = d
			}
			i++
		}
	}
	return n
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// endsWithControlWord reports whether s ends in a control word such as
// `\partial`, so that appending a letter would change the command name.
func endsWithControlWord(s string) bool {
	i := len(s)
	for i > 0 && isLetter(s[i-1]) {
		i--
	}
	return i < len(s) && i > 0 && s[i-1] == '\\' && (i < 2 || s[i-2] != '\\')
}

func substitute(body string, args []string) string {
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '#' && i+1 < len(body) && body[i+1] >= '1' && body[i+1] <= '9' {
			idx := int(body[i+1]-'0') - 1
			arg := ""
			if idx < len(args) {
				arg = args[idx]
			}
			if arg != "" && isLetter(arg[0]) && endsWithControlWord(b.String()) {
				b.WriteByte(' ')
			}
			b.WriteString(arg)
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
