package domain

// Subject classifies a brief by legal topic. Identity is the name,
// case-sensitive; callers trim whitespace before construction.
type Subject struct {
	Name string `json:"name"`
}

// MatchesName reports whether the subject carries the given name.
// Comparison against raw strings goes through here rather than
// overloading equality across types.
func (s Subject) MatchesName(name string) bool {
	return s.Name == name
}

// Opinion is a concurring or dissenting opinion attached to a brief.
type Opinion struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Line renders the opinion in the document convention "author: text".
func (o Opinion) Line() string {
	return o.Author + ": " + o.Text
}
