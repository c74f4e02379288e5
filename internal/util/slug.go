// Package util holds small string helpers shared by the markdown pipeline.
package util

import (
	"path"
	"strconv"
	"strings"
	"unicode"
)

// Slugify turns a heading into an anchor id: lowercase letters and digits,
// runs of anything else collapsed to a single '-'. Math is kept as its
// letters, so "The $\mathbb{R}^n$ space" becomes "the-mathbb-r-n-space".
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// UniqueID returns id, or id-1, id-2... when it was seen before.
func UniqueID(id string, seen map[string]int) string {
	if id == "" {
		id = "section"
	}
	n, ok := seen[id]
	seen[id] = n + 1
	if !ok {
		return id
	}
	next := id + "-" + strconv.Itoa(n)
	for {
		if _, taken := seen[next]; !taken {
			seen[next] = 1
			return next
		}
		n++
		next = id + "-" + strconv.Itoa(n)
	}
}

// URLPath turns a slash-separated path relative to the content directory into
// a note URL: "/" + path without its extension.
func URLPath(rel string) string {
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	return "/" + rel
}

// RelativeRoot returns the "../" prefix that leads from the page at url back
// to the site root, or "./" for top-level pages.
func RelativeRoot(url string) string {
	depth := strings.Count(strings.Trim(url, "/"), "/")
	if depth == 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}
