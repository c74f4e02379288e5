package config

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/JuanLara18/study-notes/internal/macro"
)

// Issue 一条 lint 结果
type Issue struct {
	Path    string // dotted key path, e.g. render.macros
	Key     string
	Line    int
	Message string
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Lint reports duplicate mapping keys at any depth and macros from the file
// that redefine a preset macro. Duplicates are not fatal for Parse; callers
// decide.
func Lint(data []byte) ([]Issue, error) {
	file, err := parser.ParseBytes(data, 0, parser.AllowDuplicateMapKey())
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	var issues []Issue
	for _, doc := range file.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		issues = append(issues, duplicateKeys(doc.Body, "")...)
	}

	site, err := Parse(data)
	if err != nil {
		return issues, err
	}
	cfg, err := site.RenderConfig()
	if err != nil {
		return issues, err
	}
	user := make(map[string]bool, len(site.Render.Macros))
	for _, item := range site.Render.Macros {
		if name, ok := item.Key.(string); ok {
			user[name] = true
		}
	}
	for _, d := range cfg.Macros.Duplicates() {
		if !user[d.Key] || duplicateReported(issues, d.Key) {
			continue
		}
		issues = append(issues, Issue{
			Path:    "render.macros",
			Key:     d.Key,
			Message: redefinition(d),
		})
	}
	return issues, nil
}

func duplicateReported(issues []Issue, key string) bool {
	for _, i := range issues {
		if i.Path == "render.macros" && i.Key == key {
			return true
		}
	}
	return false
}

func redefinition(d macro.Duplicate) string {
	return fmt.Sprintf("macro %s redefined: %q replaces %q", d.Key, d.Value, d.Previous)
}

func duplicateKeys(n ast.Node, path string) []Issue {
	var issues []Issue
	switch n := n.(type) {
	case *ast.MappingNode:
		seen := make(map[string]int)
		for _, mv := range n.Values {
			issues = append(issues, mappingValue(mv, path, seen)...)
		}
	case *ast.MappingValueNode:
		issues = append(issues, mappingValue(n, path, map[string]int{})...)
	case *ast.SequenceNode:
		for i, v := range n.Values {
			issues = append(issues, duplicateKeys(v, fmt.Sprintf("%s[%d]", path, i))...)
		}
	case *ast.AnchorNode:
		issues = append(issues, duplicateKeys(n.Value, path)...)
	case *ast.TagNode:
		issues = append(issues, duplicateKeys(n.Value, path)...)
	}
	return issues
}

func mappingValue(mv *ast.MappingValueNode, path string, seen map[string]int) []Issue {
	var issues []Issue
	tok := mv.Key.GetToken()
	key := strings.TrimSpace(mv.Key.String())
	line := 0
	if tok != nil {
		key = tok.Value
		line = tok.Position.Line
	}
	if first, ok := seen[key]; ok {
		issues = append(issues, Issue{
			Path:    path,
			Key:     key,
			Line:    line,
			Message: fmt.Sprintf("duplicate key %q in %s (first defined on line %d); the last value wins", key, displayPath(path), first),
		})
	} else {
		seen[key] = line
	}
	return append(issues, duplicateKeys(mv.Value, joinPath(path, key))...)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "document root"
	}
	return path
}
