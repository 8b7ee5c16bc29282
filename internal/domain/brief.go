// Package domain contains the core entities of the case-brief manager.
package domain

import (
	"strings"
)

// Brief is a structured legal case brief. It exists in two durable forms:
// a row set in the relational store and a LaTeX document, kept in sync by
// the store and codec layers.
//
// Label is the sole identity key: globally unique, immutable after
// creation, and used both as the primary key in the store and as the
// anchor token in cross-references.
type Brief struct {
	Label     string    `json:"label" validate:"required"`
	Plaintiff string    `json:"plaintiff" validate:"required"`
	Defendant string    `json:"defendant" validate:"required"`
	Citation  string    `json:"citation" validate:"required"`
	Course    string    `json:"course" validate:"required"`
	Facts     string    `json:"facts" validate:"required"`
	Procedure string    `json:"procedure" validate:"required"`
	Issue     string    `json:"issue" validate:"required"`
	Holding   string    `json:"holding" validate:"required"`
	Principle string    `json:"principle" validate:"required"`
	Reasoning string    `json:"reasoning" validate:"required"`
	Notes     string    `json:"notes" validate:"required"`
	Subjects  []Subject `json:"subjects"`
	Opinions  []Opinion `json:"opinions"`
}

// Title is the display title, derived from the parties.
func (b *Brief) Title() string {
	return b.Plaintiff + " v. " + b.Defendant
}

// Filename is the document base name derived from the title:
// " v. " becomes "_V_" and remaining spaces become underscores.
// The ".tex" extension is not included.
func (b *Brief) Filename() string {
	return strings.ReplaceAll(b.Plaintiff+"_V_"+b.Defendant, " ", "_")
}

// Equal reports whether two briefs denote the same case.
// Label is the only identity key; field contents do not participate.
func (b *Brief) Equal(other *Brief) bool {
	if other == nil {
		return false
	}
	return b.Label == other.Label
}

// AddSubject appends a subject, suppressing duplicates by name.
func (b *Brief) AddSubject(s Subject) {
	for _, existing := range b.Subjects {
		if existing.Name == s.Name {
			return
		}
	}
	b.Subjects = append(b.Subjects, s)
}

// RemoveSubject removes every subject matching the given name.
func (b *Brief) RemoveSubject(name string) {
	kept := b.Subjects[:0]
	for _, s := range b.Subjects {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	b.Subjects = kept
}

// AddOpinion appends an opinion. The document layer performs no
// dedup; the store applies its own dedup key on save.
func (b *Brief) AddOpinion(o Opinion) {
	b.Opinions = append(b.Opinions, o)
}

// SubjectNames returns the subject names in insertion order.
func (b *Brief) SubjectNames() []string {
	names := make([]string, len(b.Subjects))
	for i, s := range b.Subjects {
		names[i] = s.Name
	}
	return names
}
