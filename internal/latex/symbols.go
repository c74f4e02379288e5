package latex

// CombiningType 组合字符附加位置
type CombiningType int

const (
	FirstChar CombiningType = iota
	LastChar
	AllChars
)

// CombiningSample 组合字符及其附加方式
type CombiningSample struct {
	Char rune
	Type CombiningType
}

// LatexSymbols 命令 → Unicode 符号
var LatexSymbols = map[string]string{
	// 希腊字母
	`\alpha`: "α", `\beta`: "β", `\gamma`: "γ", `\delta`: "δ", `\epsilon`: "ϵ",
	`\varepsilon`: "ε", `\zeta`: "ζ", `\eta`: "η", `\theta`: "θ", `\vartheta`: "ϑ",
	`\iota`: "ι", `\kappa`: "κ", `\lambda`: "λ", `\mu`: "μ", `\nu`: "ν", `\xi`: "ξ",
	`\pi`: "π", `\varpi`: "ϖ", `\rho`: "ρ", `\varrho`: "ϱ", `\sigma`: "σ",
	`\varsigma`: "ς", `\tau`: "τ", `\upsilon`: "υ", `\phi`: "ϕ", `\varphi`: "φ",
	`\chi`: "χ", `\psi`: "ψ", `\omega`: "ω",
	`\Gamma`: "Γ", `\Delta`: "Δ", `\Theta`: "Θ", `\Lambda`: "Λ", `\Xi`: "Ξ",
	`\Pi`: "Π", `\Sigma`: "Σ", `\Upsilon`: "Υ", `\Phi`: "Φ", `\Psi`: "Ψ", `\Omega`: "Ω",

	// 二元运算
	`\pm`: "±", `\mp`: "∓", `\times`: "×", `\div`: "÷", `\cdot`: "⋅", `\ast`: "∗",
	`\star`: "⋆", `\circ`: "∘", `\bullet`: "∙", `\oplus`: "⊕", `\ominus`: "⊖",
	`\otimes`: "⊗", `\oslash`: "⊘", `\odot`: "⊙", `\cap`: "∩", `\cup`: "∪",
	`\sqcap`: "⊓", `\sqcup`: "⊔", `\wedge`: "∧", `\land`: "∧", `\vee`: "∨",
	`\lor`: "∨", `\setminus`: "∖", `\wr`: "≀", `\dagger`: "†", `\ddagger`: "‡",
	`\amalg`: "⨿",

	// 关系
	`\leq`: "≤", `\le`: "≤", `\geq`: "≥", `\ge`: "≥", `\neq`: "≠", `\ne`: "≠",
	`\equiv`: "≡", `\approx`: "≈", `\cong`: "≅", `\sim`: "∼", `\simeq`: "≃",
	`\propto`: "∝", `\ll`: "≪", `\gg`: "≫", `\prec`: "≺", `\succ`: "≻",
	`\preceq`: "⪯", `\succeq`: "⪰", `\subset`: "⊂", `\supset`: "⊃",
	`\subseteq`: "⊆", `\supseteq`: "⊇", `\in`: "∈", `\ni`: "∋", `\notin`: "∉",
	`\mid`: "∣", `\parallel`: "∥", `\perp`: "⊥", `\vdash`: "⊢", `\dashv`: "⊣",
	`\models`: "⊨", `\asymp`: "≍", `\doteq`: "≐", `\triangleq`: "≜",
	`\lesssim`: "≲", `\gtrsim`: "≳", `\coloneqq`: "≔",

	// 箭头
	`\leftarrow`: "←", `\gets`: "←", `\rightarrow`: "→", `\to`: "→",
	`\leftrightarrow`: "↔", `\Leftarrow`: "⇐", `\Rightarrow`: "⇒",
	`\Leftrightarrow`: "⇔", `\iff`: "⟺", `\implies`: "⟹", `\impliedby`: "⟸",
	`\mapsto`: "↦", `\longrightarrow`: "⟶", `\longleftarrow`: "⟵",
	`\Longrightarrow`: "⟹", `\Longleftarrow`: "⟸", `\longmapsto`: "⟼",
	`\uparrow`: "↑", `\downarrow`: "↓", `\updownarrow`: "↕", `\Uparrow`: "⇑",
	`\Downarrow`: "⇓", `\nearrow`: "↗", `\searrow`: "↘", `\swarrow`: "↙",
	`\nwarrow`: "↖", `\hookrightarrow`: "↪", `\hookleftarrow`: "↩",
	`\rightleftharpoons`: "⇌", `\leadsto`: "⇝",

	// 逻辑与集合
	`\forall`: "∀", `\exists`: "∃", `\nexists`: "∄", `\neg`: "¬", `\lnot`: "¬",
	`\emptyset`: "∅", `\varnothing`: "∅", `\infty`: "∞", `\partial`: "∂",
	`\nabla`: "∇", `\top`: "⊤", `\bot`: "⊥", `\therefore`: "∴", `\because`: "∵",
	`\aleph`: "ℵ", `\beth`: "ℶ", `\hbar`: "ℏ", `\ell`: "ℓ", `\wp`: "℘",
	`\Re`: "ℜ", `\Im`: "ℑ", `\angle`: "∠", `\triangle`: "△", `\square`: "□",
	`\Box`: "□", `\diamond`: "⋄", `\prime`: "′", `\degree`: "°", `\checkmark`: "✓",
	`\clubsuit`: "♣", `\diamondsuit`: "♢", `\heartsuit`: "♡", `\spadesuit`: "♠",

	// 大型运算符
	`\sum`: "∑", `\prod`: "∏", `\coprod`: "∐", `\int`: "∫", `\iint`: "∬",
	`\iiint`: "∭", `\oint`: "∮", `\bigcup`: "⋃", `\bigcap`: "⋂",
	`\bigvee`: "⋁", `\bigwedge`: "⋀", `\bigoplus`: "⨁", `\bigotimes`: "⨂",
	`\bigsqcup`: "⨆",

	// 定界符
	`\langle`: "⟨", `\rangle`: "⟩", `\lceil`: "⌈", `\rceil`: "⌉",
	`\lfloor`: "⌊", `\rfloor`: "⌋", `\lbrace`: "{", `\rbrace`: "}",
	`\lvert`: "|", `\rvert`: "|", `\lVert`: "‖", `\rVert`: "‖", `\vert`: "|",
	`\Vert`: "‖", `\|`: "‖", `\{`: "{", `\}`: "}", `\backslash`: "\\",

	// 点
	`\ldots`: "…", `\dots`: "…", `\cdots`: "⋯", `\vdots`: "⋮", `\ddots`: "⋱",
	`\dotsc`: "…", `\dotsb`: "⋯",

	// 函数名
	`\sin`: "sin", `\cos`: "cos", `\tan`: "tan", `\cot`: "cot", `\sec`: "sec",
	`\csc`: "csc", `\arcsin`: "arcsin", `\arccos`: "arccos", `\arctan`: "arctan",
	`\sinh`: "sinh", `\cosh`: "cosh", `\tanh`: "tanh", `\log`: "log", `\ln`: "ln",
	`\lg`: "lg", `\exp`: "exp", `\lim`: "lim", `\liminf`: "lim inf",
	`\limsup`: "lim sup", `\max`: "max", `\min`: "min", `\sup`: "sup",
	`\inf`: "inf", `\det`: "det", `\dim`: "dim", `\ker`: "ker", `\deg`: "deg",
	`\gcd`: "gcd", `\arg`: "arg", `\Pr`: "Pr", `\hom`: "hom", `\mod`: " mod ",
	`\bmod`: " mod ",

	// 转义与间距
	`\%`: "%", `\$`: "$", `\&`: "&", `\#`: "#", `\_`: "_",
	`\,`: " ", `\:`: " ", `\;`: " ", `\!`: "", `\ `: " ", `\quad`: "  ",
	`\qquad`: "    ", `\enspace`: " ", `\thinspace`: " ", `\\`: "\n",
	`\displaystyle`: "", `\textstyle`: "", `\scriptstyle`: "", `\limits`: "",
	`\nolimits`: "", `\nonumber`: "", `\notag`: "", `\cr`: "\n",
}

// NotMap 符号 → 否定形式
var NotMap = map[string]string{
	"∈": "∉", "=": "≠", "⊂": "⊄", "⊃": "⊅", "⊆": "⊈", "⊇": "⊉", "≡": "≢",
	"<": "≮", ">": "≯", "≤": "≰", "≥": "≱", "∃": "∄", "∋": "∌", "∼": "≁",
	"≈": "≉", "≅": "≇", "∣": "∤", "∥": "∦", "≃": "≄", "≺": "⊀", "≻": "⊁",
}

// FracMap 常见分数的 Unicode 形式
var FracMap = map[[2]string]string{
	{"1", "2"}: "½", {"1", "3"}: "⅓", {"2", "3"}: "⅔", {"1", "4"}: "¼",
	{"3", "4"}: "¾", {"1", "5"}: "⅕", {"2", "5"}: "⅖", {"3", "5"}: "⅗",
	{"4", "5"}: "⅘", {"1", "6"}: "⅙", {"5", "6"}: "⅚", {"1", "7"}: "⅐",
	{"1", "8"}: "⅛", {"3", "8"}: "⅜", {"5", "8"}: "⅝", {"7", "8"}: "⅞",
	{"1", "9"}: "⅑", {"1", "10"}: "⅒",
}

// Combining 组合字符命令
var Combining = map[string]CombiningSample{
	`\hat`:       {Char: '\u0302', Type: FirstChar},
	`\widehat`:   {Char: '\u0302', Type: FirstChar},
	`\tilde`:     {Char: '\u0303', Type: FirstChar},
	`\widetilde`: {Char: '\u0303', Type: FirstChar},
	`\bar`:       {Char: '\u0304', Type: FirstChar},
	`\vec`:       {Char: '\u20D7', Type: FirstChar},
	`\dot`:       {Char: '\u0307', Type: FirstChar},
	`\ddot`:      {Char: '\u0308', Type: FirstChar},
	`\acute`:     {Char: '\u0301', Type: FirstChar},
	`\grave`:     {Char: '\u0300', Type: FirstChar},
	`\breve`:     {Char: '\u0306', Type: FirstChar},
	`\check`:     {Char: '\u030C', Type: FirstChar},
	`\mathring`:  {Char: '\u030A', Type: FirstChar},
	`\overline`:  {Char: '\u0305', Type: AllChars},
	`\underline`: {Char: '\u0332', Type: AllChars},
}

var Superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶', '7': '⁷',
	'8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽', ')': '⁾',
	'a': 'ᵃ', 'b': 'ᵇ', 'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ', 'f': 'ᶠ', 'g': 'ᵍ', 'h': 'ʰ',
	'i': 'ⁱ', 'j': 'ʲ', 'k': 'ᵏ', 'l': 'ˡ', 'm': 'ᵐ', 'n': 'ⁿ', 'o': 'ᵒ', 'p': 'ᵖ',
	'r': 'ʳ', 's': 'ˢ', 't': 'ᵗ', 'u': 'ᵘ', 'v': 'ᵛ', 'w': 'ʷ', 'x': 'ˣ', 'y': 'ʸ',
	'z': 'ᶻ', 'A': 'ᴬ', 'B': 'ᴮ', 'D': 'ᴰ', 'E': 'ᴱ', 'G': 'ᴳ', 'H': 'ᴴ', 'I': 'ᴵ',
	'J': 'ᴶ', 'K': 'ᴷ', 'L': 'ᴸ', 'M': 'ᴹ', 'N': 'ᴺ', 'O': 'ᴼ', 'P': 'ᴾ', 'R': 'ᴿ',
	'T': 'ᵀ', 'U': 'ᵁ', 'V': 'ⱽ', 'W': 'ᵂ', '∘': '°', '′': '′', '*': '*',
}

var Subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆', '7': '₇',
	'8': '₈', '9': '₉', '+': '₊', '-': '₋', '=': '₌', '(': '₍', ')': '₎',
	'a': 'ₐ', 'e': 'ₑ', 'h': 'ₕ', 'i': 'ᵢ', 'j': 'ⱼ', 'k': 'ₖ', 'l': 'ₗ', 'm': 'ₘ',
	'n': 'ₙ', 'o': 'ₒ', 'p': 'ₚ', 'r': 'ᵣ', 's': 'ₛ', 't': 'ₜ', 'u': 'ᵤ', 'v': 'ᵥ',
	'x': 'ₓ', 'β': 'ᵦ', 'γ': 'ᵧ', 'ρ': 'ᵨ', 'φ': 'ᵩ', 'χ': 'ᵪ',
}

// LatexStyles 样式命令 → 字母表映射；nil 表示原样输出
var LatexStyles = map[string]map[rune]rune{
	`\mathbb`: alphabet(0x1D538, 0x1D552, 0x1D7D8, map[rune]rune{
		'C': 'ℂ', 'H': 'ℍ', 'N': 'ℕ', 'P': 'ℙ', 'Q': 'ℚ', 'R': 'ℝ', 'Z': 'ℤ',
	}),
	`\mathbf`: alphabet(0x1D400, 0x1D41A, 0x1D7CE, nil),
	`\mathit`: alphabet(0x1D434, 0x1D44E, 0, map[rune]rune{'h': 'ℎ'}),
	`\mathcal`: alphabet(0x1D49C, 0x1D4B6, 0, map[rune]rune{
		'B': 'ℬ', 'E': 'ℰ', 'F': 'ℱ', 'H': 'ℋ', 'I': 'ℐ', 'L': 'ℒ', 'M': 'ℳ',
		'R': 'ℛ', 'e': 'ℯ', 'g': 'ℊ', 'o': 'ℴ',
	}),
	`\mathfrak`: alphabet(0x1D504, 0x1D51E, 0, map[rune]rune{
		'C': 'ℭ', 'H': 'ℌ', 'I': 'ℑ', 'R': 'ℜ', 'Z': 'ℨ',
	}),
	`\mathsf`: alphabet(0x1D5A0, 0x1D5BA, 0x1D7E2, nil),
	`\mathtt`: alphabet(0x1D670, 0x1D68A, 0x1D7F6, nil),
	`\mathrm`: nil,
	`\textbf`: alphabet(0x1D400, 0x1D41A, 0x1D7CE, nil),
	`\textit`: alphabet(0x1D434, 0x1D44E, 0, map[rune]rune{'h': 'ℎ'}),
	`\texttt`: alphabet(0x1D670, 0x1D68A, 0x1D7F6, nil),
	`\boldsymbol`: alphabet(0x1D400, 0x1D41A, 0x1D7CE, nil),
	`\bm`:         alphabet(0x1D400, 0x1D41A, 0x1D7CE, nil),
}

// alphabet builds a letter map for a Mathematical Alphanumeric Symbols block.
// Letters missing from the block live in Letterlike Symbols, given in holes.
func alphabet(upper, lower, digits rune, holes map[rune]rune) map[rune]rune {
	m := make(map[rune]rune, 62)
	for i := rune(0); i < 26; i++ {
		m['A'+i] = upper + i
		m['a'+i] = lower + i
	}
	if digits != 0 {
		for i := rune(0); i < 10; i++ {
			m['0'+i] = digits + i
		}
	}
	for k, v := range holes {
		m[k] = v
	}
	return m
}

// textCommands 参数按原文输出
var textCommands = map[string]bool{
	`\text`: true, `\operatorname`: true, `\mbox`: true, `\textrm`: true,
	`\textup`: true, `\mathop`: true, `\textnormal`: true, `\hbox`: true,
}

// trustedCommands 只在 trust 开启时允许
var trustedCommands = map[string]bool{
	`\href`: true, `\url`: true, `\includegraphics`: true, `\htmlClass`: true,
	`\htmlId`: true, `\htmlStyle`: true, `\htmlData`: true,
}

// commandArity 需要强制参数的命令
var commandArity = map[string]int{
	`\frac`: 2, `\dfrac`: 2, `\tfrac`: 2, `\cfrac`: 2, `\binom`: 2, `\tbinom`: 2,
	`\dbinom`: 2, `\overset`: 2, `\underset`: 2, `\stackrel`: 2, `\sqrt`: 1,
	`\boxed`: 1, `\pmod`: 1, `\color`: 1, `\textcolor`: 2, `\href`: 2, `\url`: 1,
	`\substack`: 1, `\phantom`: 1, `\hphantom`: 1, `\vphantom`: 1,
	`\cancel`: 1, `\bcancel`: 1, `\xcancel`: 1, `\sout`: 1, `\overbrace`: 1,
	`\underbrace`: 1, `\xrightarrow`: 1, `\xleftarrow`: 1, `\tag`: 1,
	`\label`: 1, `\hspace`: 1, `\vspace`: 1,
}

func init() {
	for cmd := range Combining {
		commandArity[cmd] = 1
	}
	for cmd := range LatexStyles {
		commandArity[cmd] = 1
	}
	for cmd := range textCommands {
		commandArity[cmd] = 1
	}
}
