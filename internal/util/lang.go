package util

import "strings"

// languageAliases maps fence info strings to chroma lexer names.
var languageAliases = map[string]string{
	"py":      "python",
	"python3": "python",
	"js":      "javascript",
	"ts":      "typescript",
	"sh":      "bash",
	"shell":   "bash",
	"zsh":     "bash",
	"console": "bash",
	"c++":     "cpp",
	"cc":      "cpp",
	"rb":      "ruby",
	"rs":      "rust",
	"kt":      "kotlin",
	"yml":     "yaml",
	"md":      "markdown",
	"tex":     "latex",
	"golang":  "go",
	"text":    "plaintext",
	"txt":     "plaintext",
	"":        "plaintext",
}

// NormalizeLanguage lowercases the first word of a fence info string and
// resolves common aliases, e.g. "Py {linenos}" -> "python".
func NormalizeLanguage(info string) string {
	lang := strings.ToLower(strings.TrimSpace(info))
	if i := strings.IndexAny(lang, " \t{"); i >= 0 {
		lang = lang[:i]
	}
	if alias, ok := languageAliases[lang]; ok {
		return alias
	}
	return lang
}
