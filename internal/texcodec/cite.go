package texcodec

import (
	"context"
	"regexp"
)

// Placeholder tokens look like CITE(SmithVJones); resolved citations are
// hyperlink references anchored at case:<label> displaying the italic title.
var (
	citeRe     = regexp.MustCompile(`CITE\(([^)]*)\)`)
	hyperrefRe = regexp.MustCompile(`\\hyperref\[case:(.*?)\]\{\\textit\{(.*?)\}\}`)
)

// TitleLookup resolves a case label to its display title.
// The relational repository satisfies this.
type TitleLookup interface {
	CaseTitle(ctx context.Context, label string) (string, error)
}

// Resolver replaces citation placeholders with cross-reference expressions.
// The lookup dependency is explicit; the resolver holds no other state.
type Resolver struct {
	lookup TitleLookup
}

// NewResolver creates a resolver over the given lookup.
func NewResolver(lookup TitleLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve replaces every CITE(<label>) token in text with a hyperref
// expression for the referenced case. Text arrives already escaped, so the
// captured label is unescaped before lookup. Labels that resolve to no case
// keep their placeholder verbatim; unresolved citations stay visible rather
// than erroring or vanishing.
//
// Resolved output contains no further placeholders, so no nesting or cycle
// handling is needed.
func (r *Resolver) Resolve(ctx context.Context, text string) string {
	return citeRe.ReplaceAllStringFunc(text, func(match string) string {
		label := Unescape(citeRe.FindStringSubmatch(match)[1])
		title, err := r.lookup.CaseTitle(ctx, label)
		if err != nil {
			return match
		}
		return `\hyperref[case:` + label + `]{\textit{` + title + `}}`
	})
}

// Unresolve maps cross-reference expressions back to CITE(<label>)
// placeholders. This is a fixed-format match with no repository lookup;
// the displayed title is discarded.
func Unresolve(text string) string {
	return hyperrefRe.ReplaceAllString(text, "CITE($1)")
}
