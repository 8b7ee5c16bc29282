// Package texcodec converts case briefs to and from their LaTeX document
// form: character escaping, citation resolution, and the fixed \NewBrief
// record construct.
package texcodec

import "strings"

// escaper rewrites LaTeX metacharacters to their literal-producing escape
// sequences and newlines to explicit line breaks. A single Replacer pass
// keeps the character rules simultaneous; replacements are not rescanned.
var escaper = strings.NewReplacer(
	"{", `\{`,
	"}", `\}`,
	"$", `\$`,
	"%", `\%`,
	"#", `\#`,
	"_", `\_`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
	"&", `\&`,
	"\n", "\\\\\n",
)

// unescaper is the inverse character map. The two-character escapes cannot
// collide with the \textascii... forms, so argument order is immaterial.
var unescaper = strings.NewReplacer(
	`\textasciitilde{}`, "~",
	`\textasciicircum{}`, "^",
	"\\\\\n", "\n",
	`\{`, "{",
	`\}`, "}",
	`\$`, "$",
	`\%`, "%",
	`\#`, "#",
	`\_`, "_",
	`\&`, "&",
)

// Escape makes text safe for inclusion in a LaTeX brief document.
//
// Beyond the metacharacter map, two sequence rules apply: "period space"
// becomes ".\ " so the typesetter does not treat abbreviation periods as
// sentence ends, and "..." becomes \ldots. The period rule is applied
// uniformly to every occurrence; Unescape reverses it unconditionally.
func Escape(text string) string {
	text = escaper.Replace(text)
	text = strings.ReplaceAll(text, ". ", `.\ `)
	text = strings.ReplaceAll(text, "...", `\ldots`)
	return text
}

// Unescape reverses every rule Escape applies, in reverse order, so that
// Unescape(Escape(x)) == x for text drawn from the supported character set.
func Unescape(text string) string {
	text = strings.ReplaceAll(text, `\ldots`, "...")
	text = strings.ReplaceAll(text, `.\ `, ". ")
	text = unescaper.Replace(text)
	return text
}
