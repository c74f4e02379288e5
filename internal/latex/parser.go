package latex

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Parser 递归下降 LaTeX→Unicode 转换引擎
//
// 设计原则：
// 1. 数据驱动 — 符号映射集中在 symbols.go
// 2. 鲁棒降级 — 未知命令返回原文，并记录下来交给 strict 策略处理
// 3. 标准 LaTeX 语法 — 可选参数用 [...]
// 4. Unicode 优先 — 尽量用 Unicode，无法表示时用可读 ASCII 近似
//
// Parser 不是并发安全的，每次渲染使用一个新实例。
type Parser struct {
	opts      Options
	unknown   []string
	untrusted []string
}

// NewParser 创建新的 LaTeX 解析器
func NewParser(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Unknown 返回解析过程中遇到的未定义命令
func (p *Parser) Unknown() []string { return p.unknown }

// ──────────────────────────────────────────────
// 静态工具方法
// ──────────────────────────────────────────────

// TranslateCombining 将组合字符应用于文本
func TranslateCombining(command, text string) string {
	sample, ok := Combining[command]
	if !ok {
		return text
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	switch sample.Type {
	case FirstChar:
		// 跳过首字符后的空格和已有组合字符
		i := 1
		for i < len(runes) && (unicode.IsSpace(runes[i]) || isCombiningChar(runes[i])) {
			i++
		}
		if i >= len(runes) {
			return string(runes) + string(sample.Char)
		}
		return string(runes[:i]) + string(sample.Char) + string(runes[i:])

	case LastChar:
		return text + string(sample.Char)

	case AllChars:
		var result strings.Builder
		for _, r := range runes {
			result.WriteRune(r)
			result.WriteRune(sample.Char)
		}
		return result.String()
	}

	return text
}

// MakeNot 生成带否定符号的字符
func MakeNot(negated string) string {
	trimmed := strings.TrimSpace(negated)
	if trimmed == "" {
		return " "
	}
	if notSymbol, ok := NotMap[trimmed]; ok {
		return notSymbol
	}
	runes := []rune(trimmed)
	return string(runes[0]) + "̸" + string(runes[1:])
}

// ──────────────────────────────────────────────
// 上下标
// ──────────────────────────────────────────────

// TryMakeSubscript 尝试将文本完整转换为 Unicode 下标，失败返回空字符串
func TryMakeSubscript(text string) string {
	return tryMap(text, Subscripts)
}

// TryMakeSuperscript 尝试将文本完整转换为 Unicode 上标，失败返回空字符串
func TryMakeSuperscript(text string) string {
	return tryMap(text, Superscripts)
}

func tryMap(text string, table map[rune]rune) string {
	if text == "" {
		return ""
	}
	var result strings.Builder
	for _, ch := range text {
		mapped, ok := table[ch]
		if !ok {
			return ""
		}
		result.WriteRune(mapped)
	}
	return result.String()
}

// MakeSubscript 生成下标表示
func MakeSubscript(text string) string {
	return makeScript(text, "_", TryMakeSubscript)
}

// MakeSuperscript 生成上标表示
func MakeSuperscript(text string) string {
	return makeScript(text, "^", TryMakeSuperscript)
}

func makeScript(text, marker string, try func(string) string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if s := try(text); s != "" {
		return s
	}
	if len([]rune(text)) == 1 {
		return marker + text
	}
	return marker + "(" + text + ")"
}

// ──────────────────────────────────────────────
// 样式、分数、根号
// ──────────────────────────────────────────────

// TranslateStyles 翻译样式命令（\mathbb、\mathbf、\mathcal 等）
func TranslateStyles(command, text string) string {
	styleMap, ok := LatexStyles[command]
	if !ok || styleMap == nil {
		return text
	}

	var result strings.Builder
	for _, ch := range text {
		if styled, ok := styleMap[ch]; ok {
			result.WriteRune(styled)
		} else {
			result.WriteRune(ch)
		}
	}
	return result.String()
}

// MakeSqrt 生成根号的 Unicode 表示
func MakeSqrt(index, radicand string) string {
	var radix string
	switch index {
	case "", "2":
		radix = "√"
	case "3":
		radix = "∛"
	case "4":
		radix = "∜"
	default:
		if sup := TryMakeSuperscript(index); sup != "" {
			radix = sup + "√"
		} else {
			radix = "(" + index + ")√"
		}
	}
	if len([]rune(radicand)) > 1 {
		return radix + "(" + radicand + ")"
	}
	return radix + radicand
}

// MakeFraction 生成分数的 Unicode 表示
func MakeFraction(numerator, denominator string) string {
	n, d := strings.TrimSpace(numerator), strings.TrimSpace(denominator)
	if n == "" && d == "" {
		return ""
	}
	if frac, ok := FracMap[[2]string{n, d}]; ok {
		return frac
	}
	return maybeParenthesize(n) + "/" + maybeParenthesize(d)
}

// maybeParenthesize adds parentheses if text contains anything but a word.
func maybeParenthesize(text string) string {
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !isCombiningChar(r) && r != '_' {
			return "(" + text + ")"
		}
	}
	return text
}

func isCombiningChar(r rune) bool {
	return (r >= '̀' && r <= 'ͯ') ||
		(r >= '᪰' && r <= '᫿') ||
		(r >= '᷀' && r <= '᷿') ||
		(r >= '⃐' && r <= '⃿') ||
		(r >= '︠' && r <= '︯')
}

// ──────────────────────────────────────────────
// 解析器核心
// ──────────────────────────────────────────────

// Parse 递归下降解析 LaTeX 字符串，转换为 Unicode
func (p *Parser) Parse(latex string) string {
	var result []string
	i := 0

	for i < len(latex) {
		switch c := latex[i]; {
		case c == '\\':
			command, next := p.parseCommand(latex, i)
			if command == `\frac` {
				separateMixedNumber(result)
			}
			handled, next := p.handleCommand(command, latex, next)
			result = append(result, handled)
			i = next

		case c == '{':
			block, next := p.parseBlock(latex, i)
			result = append(result, block)
			i = next

		case c == '_' || c == '^':
			arg := ""
			i++
			i = skipBlanks(latex, i)
			if i < len(latex) && latex[i] == '{' {
				arg, i = p.parseBlock(latex, i)
			} else if i < len(latex) && latex[i] == '\\' {
				command, next := p.parseCommand(latex, i)
				arg, i = p.handleCommand(command, latex, next)
			} else if i < len(latex) {
				arg, i = p.parseRune(latex, i)
			}
			if c == '_' {
				result = append(result, MakeSubscript(arg))
			} else {
				result = append(result, MakeSuperscript(arg))
			}

		case c == '\'':
			result = append(result, "′")
			i++

		case c == '&':
			result = append(result, " ")
			i++

		case c == '~':
			result = append(result, " ")
			i++

		case unicode.IsSpace(rune(c)):
			spaces, next := p.parseSpaces(latex, i)
			result = append(result, spaces)
			i = next

		default:
			r, next := p.parseRune(latex, i)
			result = append(result, r)
			i = next
		}
	}

	return strings.Join(result, "")
}

// separateMixedNumber 混合分数（数字后紧跟 \frac）插入空格
func separateMixedNumber(result []string) {
	if len(result) == 0 {
		return
	}
	last := result[len(result)-1]
	if last != "" && last[len(last)-1] >= '0' && last[len(last)-1] <= '9' {
		result[len(result)-1] += " "
	}
}

// ──────────────────────────────────────────────
// 命令分派（有序优先级）
// ──────────────────────────────────────────────

func (p *Parser) handleCommand(command, latex string, index int) (string, int) {
	// 1. 符号表直查（最常见路径）
	if symbol, ok := LatexSymbols[command]; ok {
		return symbol, index
	}

	// 2. 需要 trust 的命令
	if trustedCommands[command] && !p.opts.Trust {
		p.untrusted = append(p.untrusted, command)
	}

	switch command {
	case `\\`, `\newline`, `\cr`:
		return "\n", index

	case `\not`:
		index = skipBlanks(latex, index)
		if index < len(latex) {
			if latex[index] == '\\' {
				nextCmd, nextIdx := p.parseCommand(latex, index)
				symbol := LatexSymbols[nextCmd]
				if symbol == "" {
					symbol = nextCmd
				}
				return MakeNot(symbol), nextIdx
			}
			r, next := p.parseRune(latex, index)
			return MakeNot(r), next
		}
		return "̸", index

	case `\frac`, `\dfrac`, `\tfrac`, `\cfrac`:
		numer, idx1 := p.parseBlock(latex, index)
		denom, idx2 := p.parseBlock(latex, idx1)
		return MakeFraction(numer, denom), idx2

	case `\sqrt`:
		option, idx1 := p.parseOptional(latex, index)
		param, idx2 := p.parseBlock(latex, idx1)
		return MakeSqrt(strings.TrimSpace(option), strings.TrimSpace(param)), idx2

	case `\left`, `\right`, `\middle`, `\big`, `\Big`, `\bigg`, `\Bigg`,
		`\bigl`, `\bigr`, `\Bigl`, `\Bigr`, `\biggl`, `\biggr`:
		return p.parseDelimiter(latex, index)

	case `\binom`, `\tbinom`, `\dbinom`:
		nVal, idx1 := p.parseBlock(latex, index)
		kVal, idx2 := p.parseBlock(latex, idx1)
		return "C(" + nVal + "," + kVal + ")", idx2

	case `\boxed`:
		text, next := p.parseBlock(latex, index)
		return "[" + text + "]", next

	case `\pmod`:
		text, next := p.parseBlock(latex, index)
		return " (mod " + text + ")", next

	case `\phantom`, `\hphantom`, `\vphantom`:
		text, next := p.parseBlock(latex, index)
		return strings.Repeat(" ", max(len([]rune(text)), 1)), next

	case `\overset`, `\stackrel`:
		over, idx1 := p.parseBlock(latex, index)
		base, idx2 := p.parseBlock(latex, idx1)
		if sup := TryMakeSuperscript(over); sup != "" {
			return base + sup, idx2
		}
		return base + "^(" + over + ")", idx2

	case `\underset`:
		under, idx1 := p.parseBlock(latex, index)
		base, idx2 := p.parseBlock(latex, idx1)
		if sub := TryMakeSubscript(under); sub != "" {
			return base + sub, idx2
		}
		return base + "_(" + under + ")", idx2

	case `\substack`:
		raw, next := p.rawBlock(latex, index)
		var parsed []string
		for _, line := range strings.Split(raw, `\\`) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				parsed = append(parsed, p.Parse(trimmed))
			}
		}
		return strings.Join(parsed, ", "), next

	case `\color`:
		// 颜色参数没有 Unicode 表示
		_, next := p.rawBlock(latex, index)
		return "", next

	case `\textcolor`:
		_, idx1 := p.rawBlock(latex, index)
		return p.parseBlock(latex, idx1)

	case `\cancel`, `\bcancel`, `\xcancel`, `\sout`:
		text, next := p.parseBlock(latex, index)
		return TranslateCombining(`\underline`, text), next

	case `\overbrace`:
		text, next := p.parseBlock(latex, index)
		return TranslateCombining(`\overline`, text), next

	case `\underbrace`:
		text, next := p.parseBlock(latex, index)
		return TranslateCombining(`\underline`, text), next

	case `\xrightarrow`, `\xleftarrow`:
		text, next := p.parseBlock(latex, index)
		arrow := "→"
		if command == `\xleftarrow` {
			arrow = "←"
		}
		if strings.TrimSpace(text) != "" {
			return arrow + "(" + text + ")", next
		}
		return arrow, next

	case `\href`:
		_, idx1 := p.rawBlock(latex, index)
		return p.parseBlock(latex, idx1)

	case `\url`:
		return p.rawBlock(latex, index)

	case `\tag`:
		text, next := p.parseBlock(latex, index)
		return "    (" + text + ")", next

	case `\label`, `\hspace`, `\vspace`, `\htmlClass`, `\htmlId`, `\htmlStyle`, `\htmlData`:
		_, next := p.rawBlock(latex, index)
		if command == `\hspace` {
			return " ", next
		}
		if strings.HasPrefix(command, `\html`) {
			return p.parseBlock(latex, next)
		}
		return "", next

	case `\begin`:
		envName, idx1 := p.parseEnvName(latex, index)
		content, idx2 := p.parseEnvironment(latex, idx1, envName)
		return p.renderEnvironment(envName, content), idx2

	case `\end`:
		_, next := p.parseEnvName(latex, index)
		return "", next
	}

	// 组合字符命令（\hat, \bar, \vec, \dot 等）
	if _, ok := Combining[command]; ok {
		arg, next := p.parseBlock(latex, index)
		return TranslateCombining(command, arg), next
	}

	// 样式命令（\mathbb, \mathbf, \mathrm, \mathit 等）
	if _, ok := LatexStyles[command]; ok {
		text, next := p.parseBlock(latex, index)
		return TranslateStyles(command, text), next
	}

	// 文本直通命令
	if textCommands[command] {
		return p.rawBlock(latex, index)
	}

	// 兜底：记录并返回原始命令文本
	p.unknown = append(p.unknown, command)
	return command, index
}

// ──────────────────────────────────────────────
// 底层解析方法
// ──────────────────────────────────────────────

var commandRegex = regexp.MustCompile(`^\\([a-zA-Z]+|[^a-zA-Z])`)

func (p *Parser) parseCommand(latex string, start int) (string, int) {
	if match := commandRegex.FindString(latex[start:]); match != "" {
		return match, start + len(match)
	}
	return `\`, start + 1
}

// parseRune reads a single UTF-8 character.
func (p *Parser) parseRune(latex string, start int) (string, int) {
	for _, r := range latex[start:] {
		return string(r), start + len(string(r))
	}
	return "", start
}

func (p *Parser) parseBlock(latex string, start int) (string, int) {
	start = skipBlanks(latex, start)
	if start >= len(latex) {
		return "", start
	}
	if latex[start] != '{' {
		// 无 {} 包裹 — 读取单个 token（标准 LaTeX 行为）
		if latex[start] == '\\' {
			cmd, next := p.parseCommand(latex, start)
			return p.handleCommand(cmd, latex, next)
		}
		return p.parseRune(latex, start)
	}
	raw, next := p.rawBlock(latex, start)
	return p.Parse(raw), next
}

// rawBlock returns the unparsed content of the {...} group at start.
func (p *Parser) rawBlock(latex string, start int) (string, int) {
	start = skipBlanks(latex, start)
	if start >= len(latex) {
		return "", start
	}
	if latex[start] != '{' {
		return p.parseRune(latex, start)
	}
	level, pos := 1, start+1
	for pos < len(latex) && level > 0 {
		switch latex[pos] {
		case '\\':
			pos++
		case '{':
			level++
		case '}':
			level--
		}
		pos++
	}
	if level > 0 {
		panic(&ParseError{Message: "Expected '}', got 'EOF' at end of input", Position: len(latex), Source: latex})
	}
	return latex[start+1 : pos-1], pos
}

func (p *Parser) parseOptional(latex string, start int) (string, int) {
	if start >= len(latex) || latex[start] != '[' {
		return "", start
	}
	level, pos := 1, start+1
	for pos < len(latex) && level > 0 {
		if latex[pos] == '[' {
			level++
		} else if latex[pos] == ']' {
			level--
		}
		pos++
	}
	if level > 0 {
		panic(&ParseError{Message: "Expected ']', got 'EOF' at end of input", Position: len(latex), Source: latex})
	}
	return p.Parse(latex[start+1 : pos-1]), pos
}

func (p *Parser) parseSpaces(latex string, start int) (string, int) {
	end := start
	for end < len(latex) && unicode.IsSpace(rune(latex[end])) {
		end++
	}
	return " ", end
}

func skipBlanks(latex string, i int) int {
	for i < len(latex) && (latex[i] == ' ' || latex[i] == '\t' || latex[i] == '\n') {
		i++
	}
	return i
}

// ──────────────────────────────────────────────
// 定界符解析
// ──────────────────────────────────────────────

func (p *Parser) parseDelimiter(latex string, index int) (string, int) {
	index = skipBlanks(latex, index)
	if index >= len(latex) {
		return "", index
	}
	ch := latex[index]
	if ch == '\\' {
		cmd, next := p.parseCommand(latex, index)
		symbol, ok := LatexSymbols[cmd]
		if !ok {
			symbol = strings.TrimPrefix(cmd, `\`)
		}
		return symbol, next
	}
	if ch == '.' {
		return "", index + 1 // 不可见定界符
	}
	return p.parseRune(latex, index)
}

// ──────────────────────────────────────────────
// 环境解析与渲染
// ──────────────────────────────────────────────

func (p *Parser) parseEnvName(latex string, index int) (string, int) {
	if index < len(latex) && latex[index] == '{' {
		if end := strings.IndexByte(latex[index:], '}'); end != -1 {
			return latex[index+1 : index+end], index + end + 1
		}
	}
	return "", index
}

func (p *Parser) parseEnvironment(latex string, index int, envName string) (string, int) {
	endMarker := `\end{` + envName + `}`
	beginMarker := `\begin{` + envName + `}`
	// 同名环境可以嵌套
	depth, pos := 1, index
	for {
		nextEnd := strings.Index(latex[pos:], endMarker)
		if nextEnd == -1 {
			panic(&ParseError{Message: fmt.Sprintf("No matching \\end found for \\begin{%s}", envName), Position: index, Source: latex})
		}
		nextBegin := strings.Index(latex[pos:], beginMarker)
		if nextBegin != -1 && nextBegin < nextEnd {
			depth++
			pos += nextBegin + len(beginMarker)
			continue
		}
		depth--
		if depth == 0 {
			return latex[index : pos+nextEnd], pos + nextEnd + len(endMarker)
		}
		pos += nextEnd + len(endMarker)
	}
}

// 矩阵类环境类型 → (左定界符, 右定界符)
var matrixTypes = map[string][2]string{
	"matrix":      {"", ""},
	"pmatrix":     {"(", ")"},
	"bmatrix":     {"[", "]"},
	"Bmatrix":     {"{", "}"},
	"vmatrix":     {"|", "|"},
	"Vmatrix":     {"‖", "‖"},
	"smallmatrix": {"", ""},
	"CD":          {"", ""},
}

// align 类环境
var alignTypes = map[string]bool{
	"align": true, "align*": true, "aligned": true, "alignat": true, "alignat*": true,
	"alignedat": true, "gather": true, "gather*": true, "gathered": true,
	"equation": true, "equation*": true, "multline": true, "multline*": true,
	"split": true, "flalign": true, "flalign*": true,
}

func (p *Parser) renderEnvironment(envName, content string) string {
	if delims, ok := matrixTypes[envName]; ok {
		return p.renderMatrix(content, delims[0], delims[1], envName == "smallmatrix")
	}
	switch {
	case envName == "cases" || envName == "dcases":
		return p.renderCases(content)
	case envName == "alignat" || envName == "alignat*" || envName == "alignedat":
		// 第一个 {} 是列数
		_, next := p.parseEnvName(content, 0)
		return p.renderAlign(content[next:])
	case alignTypes[envName]:
		return p.renderAlign(content)
	case envName == "array":
		return p.renderArray(content)
	}
	// 未知环境 — 直接解析内容
	p.unknown = append(p.unknown, `\begin{`+envName+`}`)
	return p.Parse(content)
}

func (p *Parser) renderMatrix(content, left, right string, compact bool) string {
	var rendered []string
	for _, row := range strings.Split(content, `\\`) {
		trimmed := strings.TrimSpace(row)
		if trimmed == "" {
			continue
		}
		var cells []string
		for _, cell := range strings.Split(trimmed, "&") {
			cells = append(cells, p.Parse(strings.TrimSpace(cell)))
		}
		sep := "  "
		if compact {
			sep = ", "
		}
		rendered = append(rendered, strings.Join(cells, sep))
	}
	joiner := "\n"
	if compact {
		joiner = "; "
	}
	return left + strings.Join(rendered, joiner) + right
}

func (p *Parser) renderCases(content string) string {
	var parts []string
	for _, row := range strings.Split(content, `\\`) {
		trimmed := strings.TrimSpace(row)
		if trimmed == "" {
			continue
		}
		segments := strings.SplitN(trimmed, "&", 2)
		val := p.Parse(strings.TrimSpace(segments[0]))
		if len(segments) > 1 {
			if cond := p.Parse(strings.TrimSpace(segments[1])); cond != "" {
				val += ", " + cond
			}
		}
		parts = append(parts, val)
	}

	n := len(parts)
	switch n {
	case 0:
		return ""
	case 1:
		return "⎧ " + parts[0]
	}
	lines := make([]string, n)
	for i, part := range parts {
		switch i {
		case 0:
			lines[i] = "⎧ " + part
		case n - 1:
			lines[i] = "⎩ " + part
		default:
			lines[i] = "⎨ " + part
		}
	}
	return strings.Join(lines, "\n")
}

func (p *Parser) renderAlign(content string) string {
	var rendered []string
	for _, row := range strings.Split(content, `\\`) {
		if trimmed := strings.TrimSpace(row); trimmed != "" {
			rendered = append(rendered, p.Parse(strings.ReplaceAll(trimmed, "&", " ")))
		}
	}
	return strings.Join(rendered, "\n")
}

func (p *Parser) renderArray(content string) string {
	// array 第一个 {} 是列格式说明（如 {ccc}），跳过
	stripped := strings.TrimSpace(content)
	if strings.HasPrefix(stripped, "{") {
		if end := strings.IndexByte(stripped, '}'); end != -1 {
			content = stripped[end+1:]
		}
	}
	return p.renderMatrix(content, "", "", false)
}

// ──────────────────────────────────────────────
// 公开接口
// ──────────────────────────────────────────────

// Convert 将 LaTeX 字符串转换为 Unicode 文本。
// 解析失败时返回 *ParseError，不会 panic。
func (p *Parser) Convert(latex string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			err = &ParseError{Message: fmt.Sprint(r), Source: latex}
		}
	}()
	return strings.TrimSpace(p.Parse(latex)), nil
}
