package texcodec

import (
	"context"
	"fmt"
	"strings"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// briefFields is the fixed key order of the \NewBrief construct. The
// document format preserves this order and the parser depends on it.
var briefFields = []string{
	"subject", "plaintiff", "defendant", "citation", "course",
	"facts", "procedure", "issue", "holding", "principle",
	"reasoning", "opinions", "label", "notes",
}

const documentTemplate = `\documentclass[../tex_src/CaseBriefs.tex]{subfiles}
\usepackage{lawbrief}
\begin{document}
\NewBrief{subject={%s},
	plaintiff={%s},
	defendant={%s},
	citation={%s},
	course={%s},
	facts={%s},
	procedure={%s},
	issue={%s},
	holding={%s},
	principle={%s},
	reasoning={%s},
	opinions={%s},
	label={case:%s},
	notes={%s}
}
\end{document}
`

// EncodeDocument renders a brief as a standalone LaTeX document.
//
// Every scalar field is escaped. Citations are then resolved in the fields
// that carry them by convention: facts, procedure, issue, notes, and the
// opinions block. Subjects are comma-joined raw names; course and label
// stay raw (the label gains the case: anchor prefix in the template).
func EncodeDocument(ctx context.Context, b *domain.Brief, r *Resolver) string {
	lines := make([]string, len(b.Opinions))
	for i, op := range b.Opinions {
		lines[i] = op.Line()
	}
	opinionsBlock := r.Resolve(ctx, Escape(strings.Join(lines, "\n")))

	return fmt.Sprintf(documentTemplate,
		strings.Join(b.SubjectNames(), ", "),
		Escape(b.Plaintiff),
		Escape(b.Defendant),
		Escape(b.Citation),
		b.Course,
		r.Resolve(ctx, Escape(b.Facts)),
		r.Resolve(ctx, Escape(b.Procedure)),
		r.Resolve(ctx, Escape(b.Issue)),
		Escape(b.Holding),
		Escape(b.Principle),
		Escape(b.Reasoning),
		opinionsBlock,
		b.Label,
		r.Resolve(ctx, Escape(b.Notes)),
	)
}

// DecodeDocument parses a brief document back into a Brief. A document
// without the fixed \NewBrief construct, or with fields out of order, is a
// hard parse failure; there is no partial result.
func DecodeDocument(text string) (*domain.Brief, error) {
	const marker = `\NewBrief{`
	idx := strings.Index(text, marker)
	if idx < 0 {
		return nil, errors.MalformedDocument(`no \NewBrief construct found`)
	}

	rd := &docReader{src: text, pos: idx + len(marker)}
	fields := make(map[string]string, len(briefFields))
	for i, key := range briefFields {
		if i > 0 {
			if err := rd.expect(","); err != nil {
				return nil, errors.Wrapf(err, errors.CodeMalformedDocument,
					"after field %q", briefFields[i-1])
			}
		}
		value, err := rd.readField(key)
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeMalformedDocument, "field %q", key)
		}
		// Values sit flush inside the braces; trimming here would strip
		// whitespace that escaped sequences like a trailing newline depend on.
		fields[key] = value
	}
	if err := rd.expect("}"); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedDocument, `unclosed \NewBrief construct`)
	}

	label, ok := strings.CutPrefix(fields["label"], "case:")
	if !ok {
		return nil, errors.MalformedDocumentf("label %q missing case: anchor prefix", fields["label"])
	}

	opinions, err := parseOpinions(fields["opinions"])
	if err != nil {
		return nil, err
	}

	// Citations come back first so the placeholder labels survive the
	// unescape pass untouched.
	unresolve := func(s string) string { return Unescape(Unresolve(s)) }

	b := &domain.Brief{
		Label:     label,
		Plaintiff: Unescape(fields["plaintiff"]),
		Defendant: Unescape(fields["defendant"]),
		Citation:  Unescape(fields["citation"]),
		Course:    fields["course"],
		Facts:     unresolve(fields["facts"]),
		Procedure: unresolve(fields["procedure"]),
		Issue:     unresolve(fields["issue"]),
		Holding:   Unescape(fields["holding"]),
		Principle: Unescape(fields["principle"]),
		Reasoning: Unescape(fields["reasoning"]),
		Notes:     unresolve(fields["notes"]),
		Opinions:  opinions,
	}

	for _, name := range strings.Split(fields["subject"], ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b.AddSubject(domain.Subject{Name: name})
	}

	return b, nil
}

// parseOpinions splits the decoded opinions block into author/text pairs.
// Convention: one "author: text" per line, blank lines skipped.
func parseOpinions(block string) ([]domain.Opinion, error) {
	block = Unescape(Unresolve(block))

	var opinions []domain.Opinion
	for i, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		author, text, found := strings.Cut(line, ":")
		if !found {
			return nil, errors.MalformedDocumentf("opinions line %d: missing author separator", i+1)
		}
		opinions = append(opinions, domain.Opinion{
			Author: strings.TrimSpace(author),
			Text:   strings.TrimSpace(text),
		})
	}
	return opinions, nil
}

// docReader walks the \NewBrief construct one field at a time, tracking
// position for error reporting.
type docReader struct {
	src string
	pos int
}

// skipSpace advances past whitespace.
func (r *docReader) skipSpace() {
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case ' ', '\t', '\n', '\r':
			r.pos++
		default:
			return
		}
	}
}

// expect consumes the literal token after optional whitespace.
func (r *docReader) expect(token string) error {
	r.skipSpace()
	if !strings.HasPrefix(r.src[r.pos:], token) {
		return fmt.Errorf("expected %q at offset %d", token, r.pos)
	}
	r.pos += len(token)
	return nil
}

// readField consumes `key={...}` and returns the brace-balanced value.
// Backslash-escaped characters do not count toward brace depth, so escaped
// braces inside field text are passed through.
func (r *docReader) readField(key string) (string, error) {
	if err := r.expect(key); err != nil {
		return "", err
	}
	if err := r.expect("="); err != nil {
		return "", err
	}
	if err := r.expect("{"); err != nil {
		return "", err
	}

	start := r.pos
	depth := 1
	for r.pos < len(r.src) {
		switch r.src[r.pos] {
		case '\\':
			r.pos++ // skip the escaped character
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				value := r.src[start:r.pos]
				r.pos++
				return value, nil
			}
		}
		r.pos++
	}
	return "", fmt.Errorf("unterminated value starting at offset %d", start)
}
