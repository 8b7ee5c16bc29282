package texcodec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// mapLookup is a TitleLookup over a fixed label→title map.
type mapLookup map[string]string

func (m mapLookup) CaseTitle(_ context.Context, label string) (string, error) {
	title, ok := m[label]
	if !ok {
		return "", errors.NotFoundf("no case brief with label %q", label)
	}
	return title, nil
}

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(mapLookup{"SmithVJones": "Smith v. Jones"})
	ctx := context.Background()

	got := r.Resolve(ctx, "See CITE(SmithVJones).")
	assert.Equal(t, `See \hyperref[case:SmithVJones]{\textit{Smith v. Jones}}.`, got)
}

func TestResolver_Resolve_UnknownLabelKeepsPlaceholder(t *testing.T) {
	r := NewResolver(mapLookup{})
	ctx := context.Background()

	got := r.Resolve(ctx, "See CITE(Mystery) for details.")
	assert.Equal(t, "See CITE(Mystery) for details.", got)
}

func TestResolver_Resolve_MultiplePlaceholders(t *testing.T) {
	r := NewResolver(mapLookup{
		"A": "Alpha v. Beta",
		"B": "Gamma v. Delta",
	})
	ctx := context.Background()

	got := r.Resolve(ctx, "Compare CITE(A) with CITE(B) and CITE(C).")
	assert.Equal(t,
		`Compare \hyperref[case:A]{\textit{Alpha v. Beta}} with \hyperref[case:B]{\textit{Gamma v. Delta}} and CITE(C).`,
		got)
}

func TestResolver_Resolve_EscapedLabel(t *testing.T) {
	// Escaping runs before resolution, so a label with an underscore
	// arrives as Smith\_Jones; lookup happens on the unescaped form.
	r := NewResolver(mapLookup{"Smith_Jones": "Smith v. Jones"})
	ctx := context.Background()

	got := r.Resolve(ctx, `See CITE(Smith\_Jones).`)
	assert.Equal(t, `See \hyperref[case:Smith_Jones]{\textit{Smith v. Jones}}.`, got)
}

func TestUnresolve(t *testing.T) {
	in := `See \hyperref[case:SmithVJones]{\textit{Smith v. Jones}} at 42.`
	assert.Equal(t, "See CITE(SmithVJones) at 42.", Unresolve(in))
}

func TestUnresolve_NoReferences(t *testing.T) {
	assert.Equal(t, "plain text", Unresolve("plain text"))
}

func TestUnresolve_InverseOfResolve(t *testing.T) {
	r := NewResolver(mapLookup{"X": "A v. B"})
	ctx := context.Background()

	src := "Held in CITE(X); but see CITE(Unknown)."
	assert.Equal(t, src, Unresolve(r.Resolve(ctx, src)))
}
