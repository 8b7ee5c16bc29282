package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrief_Title(t *testing.T) {
	b := &Brief{Plaintiff: "Smith", Defendant: "Jones"}
	assert.Equal(t, "Smith v. Jones", b.Title())
}

func TestBrief_Filename(t *testing.T) {
	tests := []struct {
		name      string
		plaintiff string
		defendant string
		expected  string
	}{
		{"simple parties", "Smith", "Jones", "Smith_V_Jones"},
		{"multi-word parties", "United States", "Nixon", "United_States_V_Nixon"},
		{"both multi-word", "New York Times", "United States", "New_York_Times_V_United_States"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Brief{Plaintiff: tt.plaintiff, Defendant: tt.defendant}
			assert.Equal(t, tt.expected, b.Filename())
		})
	}
}

func TestBrief_Equal(t *testing.T) {
	a := &Brief{Label: "SmithVJones", Plaintiff: "Smith"}
	b := &Brief{Label: "SmithVJones", Plaintiff: "completely different"}
	c := &Brief{Label: "Other"}

	// Label is the sole identity key.
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}

func TestBrief_AddSubject_SuppressesDuplicates(t *testing.T) {
	b := &Brief{}
	b.AddSubject(Subject{Name: "Torts"})
	b.AddSubject(Subject{Name: "Contracts"})
	b.AddSubject(Subject{Name: "Torts"})

	assert.Equal(t, []string{"Torts", "Contracts"}, b.SubjectNames())
}

func TestBrief_RemoveSubject(t *testing.T) {
	b := &Brief{Subjects: []Subject{{Name: "Torts"}, {Name: "Contracts"}}}
	b.RemoveSubject("Torts")
	assert.Equal(t, []string{"Contracts"}, b.SubjectNames())

	// Removing an absent subject is a no-op.
	b.RemoveSubject("Property")
	assert.Equal(t, []string{"Contracts"}, b.SubjectNames())
}

func TestBrief_AddOpinion_NoDedup(t *testing.T) {
	b := &Brief{}
	op := Opinion{Author: "Harlan", Text: "dissenting"}
	b.AddOpinion(op)
	b.AddOpinion(op)

	// Duplicate suppression is a relational-layer concern only.
	assert.Len(t, b.Opinions, 2)
}

func TestSubject_MatchesName(t *testing.T) {
	s := Subject{Name: "Torts"}
	assert.True(t, s.MatchesName("Torts"))
	assert.False(t, s.MatchesName("torts")) // case-sensitive
}

func TestOpinion_Line(t *testing.T) {
	o := Opinion{Author: "Holmes", Text: "The life of the law has not been logic."}
	assert.Equal(t, "Holmes: The life of the law has not been logic.", o.Line())
}
