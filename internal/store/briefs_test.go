package store

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

func TestSaveAndLoadBrief(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	in := makeTestBrief("SmithVJones")
	require.NoError(t, s.SaveBrief(ctx, in))

	out, err := s.LoadBrief(ctx, "SmithVJones")
	require.NoError(t, err)

	assert.Equal(t, in.Label, out.Label)
	assert.Equal(t, in.Plaintiff, out.Plaintiff)
	assert.Equal(t, in.Defendant, out.Defendant)
	assert.Equal(t, in.Citation, out.Citation)
	assert.Equal(t, in.Course, out.Course)
	assert.Equal(t, in.Facts, out.Facts)
	assert.Equal(t, in.Procedure, out.Procedure)
	assert.Equal(t, in.Issue, out.Issue)
	assert.Equal(t, in.Holding, out.Holding)
	assert.Equal(t, in.Principle, out.Principle)
	assert.Equal(t, in.Reasoning, out.Reasoning)
	assert.Equal(t, in.Notes, out.Notes)

	assert.ElementsMatch(t, in.Subjects, out.Subjects)
	assert.ElementsMatch(t, in.Opinions, out.Opinions)
}

func TestSaveBrief_UpsertInPlace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts", "Contracts")

	b := makeTestBrief("SmithVJones")
	require.NoError(t, s.SaveBrief(ctx, b))

	b.Course = "Contracts"
	b.Holding = "Revised holding."
	require.NoError(t, s.SaveBrief(ctx, b))

	out, err := s.LoadBrief(ctx, "SmithVJones")
	require.NoError(t, err)
	assert.Equal(t, "Contracts", out.Course)
	assert.Equal(t, "Revised holding.", out.Holding)

	// Still a single case row.
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM Cases").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSaveBrief_AssociationReplacementIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	b := makeTestBrief("SmithVJones")
	require.NoError(t, s.SaveBrief(ctx, b))
	require.NoError(t, s.SaveBrief(ctx, b))

	var subjectLinks, opinionLinks int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM CaseSubjects").Scan(&subjectLinks))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM CaseOpinions").Scan(&opinionLinks))
	assert.Equal(t, 2, subjectLinks)
	assert.Equal(t, 2, opinionLinks)

	// Shrinking the list drops the stale link rows.
	b.Subjects = b.Subjects[:1]
	require.NoError(t, s.SaveBrief(ctx, b))
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM CaseSubjects").Scan(&subjectLinks))
	assert.Equal(t, 1, subjectLinks)
}

func TestSaveBrief_SubjectsSharedAcrossBriefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	a := makeTestBrief("FirstCase")
	b := makeTestBrief("SecondCase")
	require.NoError(t, s.SaveBrief(ctx, a))
	require.NoError(t, s.SaveBrief(ctx, b))

	// Both briefs reference the same two subject rows.
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM Subjects").Scan(&n))
	assert.Equal(t, 2, n)
}

func TestSaveBrief_OpinionDedup(t *testing.T) {
	t.Run("by text only", func(t *testing.T) {
		s := newTestStore(t)
		ctx := context.Background()
		mustAddCourse(t, s, "Torts")

		b := makeTestBrief("SmithVJones")
		b.Opinions[0].Text = "Shared opinion text."
		b.Opinions[1].Text = "Shared opinion text."
		require.NoError(t, s.SaveBrief(ctx, b))

		// Both authors collapse onto one opinion row.
		var n int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM Opinions").Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("by author and text", func(t *testing.T) {
		s := newTestStoreOpts(t, Options{OpinionDedupByAuthor: true})
		ctx := context.Background()
		mustAddCourse(t, s, "Torts")

		b := makeTestBrief("SmithVJones")
		b.Opinions[0].Text = "Shared opinion text."
		b.Opinions[1].Text = "Shared opinion text."
		require.NoError(t, s.SaveBrief(ctx, b))

		var n int
		require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM Opinions").Scan(&n))
		assert.Equal(t, 2, n)
	})
}

func TestSaveBrief_UnknownCourseRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	b := makeTestBrief("SmithVJones")
	b.Course = "Unregistered"
	err := s.SaveBrief(ctx, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrIntegrityViolation)
}

func TestLoadBrief_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadBrief(context.Background(), "NoSuchCase")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteBrief(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	require.NoError(t, s.SaveBrief(ctx, makeTestBrief("SmithVJones")))
	require.NoError(t, s.DeleteBrief(ctx, "SmithVJones"))

	_, err := s.LoadBrief(ctx, "SmithVJones")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// Association rows cascade away with the case.
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM CaseSubjects").Scan(&n))
	assert.Equal(t, 0, n)

	err = s.DeleteBrief(ctx, "SmithVJones")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListLabels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	labels, err := s.ListLabels(ctx)
	require.NoError(t, err)
	assert.Empty(t, labels)

	for _, label := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, s.SaveBrief(ctx, makeTestBrief(label)))
	}

	labels, err = s.ListLabels(ctx)
	require.NoError(t, err)
	require.True(t, sort.StringsAreSorted(labels))
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, labels)
}

func TestCaseTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	require.NoError(t, s.SaveBrief(ctx, makeTestBrief("SmithVJones")))

	title, err := s.CaseTitle(ctx, "SmithVJones")
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", title)

	_, err = s.CaseTitle(ctx, "NoSuchCase")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAddCaseSubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	b := makeTestBrief("SmithVJones")
	b.Subjects = nil
	require.NoError(t, s.SaveBrief(ctx, b))

	require.NoError(t, s.AddCaseSubject(ctx, "SmithVJones", "Causation"))
	// Repeating the link is a no-op.
	require.NoError(t, s.AddCaseSubject(ctx, "SmithVJones", "Causation"))

	out, err := s.LoadBrief(ctx, "SmithVJones")
	require.NoError(t, err)
	require.Len(t, out.Subjects, 1)
	assert.Equal(t, "Causation", out.Subjects[0].Name)
}

func TestListSubjectNames(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustAddCourse(t, s, "Torts")

	require.NoError(t, s.SaveBrief(ctx, makeTestBrief("SmithVJones")))

	names, err := s.ListSubjectNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Duty", "Negligence"}, names)
}
