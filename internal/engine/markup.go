package engine

import (
	"html"
	"strings"

	"github.com/JuanLara18/study-notes/internal/types"
)

const mathNS = "http://www.w3.org/1998/Math/MathML"

// Markup wraps rendered text in the KaTeX class structure the stylesheet
// and the size adjuster rely on. mathml replaces the generated MathML half
// when non-empty.
func Markup(text, tex string, display bool, p types.DisplayPolicy, mathml string) string {
	var b strings.Builder
	if display {
		b.WriteString(`<span class="katex-display`)
		if p.Fleqn {
			b.WriteString(" fleqn")
		}
		if p.Leqno {
			b.WriteString(" leqno")
		}
		b.WriteString(`">`)
	}

	b.WriteString(`<span class="katex">`)
	switch p.Output {
	case types.OutputMathML:
		writeMathML(&b, text, tex, display, mathml)
	case types.OutputHTMLAndMathML:
		b.WriteString(`<span class="katex-mathml">`)
		writeMathML(&b, text, tex, display, mathml)
		b.WriteString(`</span>`)
		writeHTML(&b, text)
	default:
		writeHTML(&b, text)
	}
	b.WriteString(`</span>`)

	if display {
		b.WriteString(`</span>`)
	}
	return b.String()
}

func writeHTML(b *strings.Builder, text string) {
	b.WriteString(`<span class="katex-html" aria-hidden="true">`)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString(`<br>`)
		}
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString(`</span>`)
}

func writeMathML(b *strings.Builder, text, tex string, display bool, mathml string) {
	if mathml != "" {
		b.WriteString(mathml)
		return
	}
	b.WriteString(`<math xmlns="` + mathNS + `"`)
	if display {
		b.WriteString(` display="block"`)
	}
	b.WriteString(`><semantics><mrow><mtext>`)
	b.WriteString(html.EscapeString(text))
	b.WriteString(`</mtext></mrow><annotation encoding="application/x-tex">`)
	b.WriteString(html.EscapeString(tex))
	b.WriteString(`</annotation></semantics></math>`)
}
