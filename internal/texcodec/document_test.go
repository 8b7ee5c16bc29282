package texcodec

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

func sampleBrief() *domain.Brief {
	return &domain.Brief{
		Label:     "PalsgrafVLIRR",
		Plaintiff: "Palsgraf",
		Defendant: "Long Island Railroad",
		Citation:  "248 N.Y. 339 (1928)",
		Course:    "Torts",
		Facts:     "A package of fireworks fell & exploded. Scales struck the plaintiff.",
		Procedure: "Trial court found for plaintiff; appellate division affirmed.",
		Issue:     "Whether the railroad owed a duty of care to the plaintiff.",
		Holding:   "No duty was owed. Negligence requires a foreseeable plaintiff.",
		Principle: "Duty is relational; it runs only to foreseeable plaintiffs.",
		Reasoning: "The risk reasonably to be perceived defines the duty to be obeyed.",
		Notes:     "Compare CITE(WagonMound) on remoteness.",
		Subjects: []domain.Subject{
			{Name: "Torts"},
			{Name: "Negligence"},
		},
		Opinions: []domain.Opinion{
			{Author: "Cardozo", Text: "Majority opinion."},
			{Author: "Andrews", Text: "Dissent; duty runs to all."},
		},
	}
}

func TestEncodeDocument_FixedConstruct(t *testing.T) {
	r := NewResolver(mapLookup{})
	doc := EncodeDocument(context.Background(), sampleBrief(), r)

	assert.Contains(t, doc, `\documentclass[../tex_src/CaseBriefs.tex]{subfiles}`)
	assert.Contains(t, doc, `\usepackage{lawbrief}`)
	assert.Contains(t, doc, `\NewBrief{subject={Torts, Negligence},`)
	assert.Contains(t, doc, "label={case:PalsgrafVLIRR},")
	assert.Contains(t, doc, `facts={A package of fireworks fell \& exploded.\ Scales struck the plaintiff.}`)
	assert.Contains(t, doc, "opinions={Cardozo: Majority opinion.\\\\\nAndrews: Dissent; duty runs to all.}")
	// Field order is fixed.
	assert.Less(t,
		strings.Index(doc, "plaintiff={"),
		strings.Index(doc, "defendant={"))
}

func TestEncodeDocument_ResolvesCitations(t *testing.T) {
	r := NewResolver(mapLookup{"WagonMound": "Overseas Tankship v. Morts Dock"})
	doc := EncodeDocument(context.Background(), sampleBrief(), r)

	assert.Contains(t, doc,
		`notes={Compare \hyperref[case:WagonMound]{\textit{Overseas Tankship v. Morts Dock}} on remoteness.}`)
}

func TestDocumentRoundTrip(t *testing.T) {
	// Citations referencing known labels round-trip back to placeholders.
	r := NewResolver(mapLookup{"WagonMound": "Overseas Tankship v. Morts Dock"})
	src := sampleBrief()

	doc := EncodeDocument(context.Background(), src, r)
	got, err := DecodeDocument(doc)
	require.NoError(t, err)

	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("brief mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestDocumentRoundTrip_UnknownCitationStaysLiteral(t *testing.T) {
	r := NewResolver(mapLookup{})
	src := sampleBrief()

	doc := EncodeDocument(context.Background(), src, r)
	got, err := DecodeDocument(doc)
	require.NoError(t, err)

	// The placeholder survives as literal text.
	assert.Equal(t, src.Notes, got.Notes)
}

func TestDocumentRoundTrip_SpecialCharacters(t *testing.T) {
	r := NewResolver(mapLookup{})
	src := sampleBrief()
	src.Facts = "50% of $100 & a_b {c} ~d^e\nsecond line... done."
	src.Notes = "No citations here."

	doc := EncodeDocument(context.Background(), src, r)
	got, err := DecodeDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, src.Facts, got.Facts)
}

func TestDocumentRoundTrip_WhitespaceEdgedFields(t *testing.T) {
	// Trailing newlines and ". " escape to sequences ending in whitespace;
	// decode must capture the field verbatim or the backslashes are left
	// behind without the whitespace they escape.
	r := NewResolver(mapLookup{})
	src := sampleBrief()
	src.Facts = "first line\nsecond line\n"
	src.Notes = "ends with period and space. "
	src.Holding = " leading space stays"

	doc := EncodeDocument(context.Background(), src, r)
	got, err := DecodeDocument(doc)
	require.NoError(t, err)

	assert.Equal(t, src.Facts, got.Facts)
	assert.Equal(t, src.Notes, got.Notes)
	assert.Equal(t, src.Holding, got.Holding)
	if diff := cmp.Diff(src, got); diff != "" {
		t.Errorf("brief mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestDecodeDocument_MissingConstruct(t *testing.T) {
	_, err := DecodeDocument(`\documentclass{article}\begin{document}hello\end{document}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
	assert.Contains(t, err.Error(), `\NewBrief`)
}

func TestDecodeDocument_FieldOutOfOrder(t *testing.T) {
	doc := `\NewBrief{plaintiff={X}, subject={Y}}`
	_, err := DecodeDocument(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
	// The error names the field that failed to parse.
	assert.Contains(t, err.Error(), `"subject"`)
}

func TestDecodeDocument_UnterminatedField(t *testing.T) {
	doc := `\NewBrief{subject={Torts, plaintiff=...`
	_, err := DecodeDocument(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
	assert.Contains(t, err.Error(), "unterminated")
}

func TestDecodeDocument_MissingLabelPrefix(t *testing.T) {
	src := sampleBrief()
	r := NewResolver(mapLookup{})
	doc := EncodeDocument(context.Background(), src, r)
	doc = strings.Replace(doc, "label={case:PalsgrafVLIRR}", "label={PalsgrafVLIRR}", 1)

	_, err := DecodeDocument(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "case: anchor prefix")
}

func TestDecodeDocument_EmptySubjectsDropped(t *testing.T) {
	src := sampleBrief()
	src.Subjects = nil
	r := NewResolver(mapLookup{})

	doc := EncodeDocument(context.Background(), src, r)
	got, err := DecodeDocument(doc)
	require.NoError(t, err)
	assert.Empty(t, got.Subjects)
}

func TestDecodeDocument_OpinionMissingSeparator(t *testing.T) {
	src := sampleBrief()
	r := NewResolver(mapLookup{})
	doc := EncodeDocument(context.Background(), src, r)
	doc = strings.Replace(doc, "Cardozo: Majority opinion.", "Cardozo wrote alone", 1)

	_, err := DecodeDocument(doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
	assert.Contains(t, err.Error(), "author separator")
}
