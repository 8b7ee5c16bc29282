package store

import (
	"context"
	"database/sql"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// caseColumns is the ordered list of scalar columns selected in case
// queries. Must match the scan order in scanBrief.
const caseColumns = `label, plaintiff, defendant, citation, course, facts, procedure, issue, holding, principle, reasoning, notes`

// scanBrief scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Brief. Subjects and opinions are left empty; the caller loads them.
func scanBrief(scanner interface{ Scan(dest ...any) error }) (*domain.Brief, error) {
	var b domain.Brief
	err := scanner.Scan(
		&b.Label,
		&b.Plaintiff,
		&b.Defendant,
		&b.Citation,
		&b.Course,
		&b.Facts,
		&b.Procedure,
		&b.Issue,
		&b.Holding,
		&b.Principle,
		&b.Reasoning,
		&b.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// SaveBrief upserts a brief keyed by label, then replaces its subject and
// opinion associations with the current set. Everything runs in a single
// transaction; any failure rolls the whole save back and is reported to the
// caller rather than leaving partial state.
//
// Replacing associations wholesale (delete then re-insert) makes save
// idempotent with respect to stale rows.
func (s *Store) SaveBrief(ctx context.Context, b *domain.Brief) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StoreUnavailable("begin save transaction").WithCause(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO Cases (`+caseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(label) DO UPDATE SET
			plaintiff=excluded.plaintiff,
			defendant=excluded.defendant,
			citation=excluded.citation,
			course=excluded.course,
			facts=excluded.facts,
			procedure=excluded.procedure,
			issue=excluded.issue,
			holding=excluded.holding,
			principle=excluded.principle,
			reasoning=excluded.reasoning,
			notes=excluded.notes`,
		b.Label,
		b.Plaintiff,
		b.Defendant,
		b.Citation,
		b.Course,
		b.Facts,
		b.Procedure,
		b.Issue,
		b.Holding,
		b.Principle,
		b.Reasoning,
		b.Notes,
	)
	if err != nil {
		return s.saveError(b.Label, "upsert case", err)
	}

	// Clear existing associations before re-inserting the current set.
	if _, err := tx.ExecContext(ctx, `DELETE FROM CaseSubjects WHERE case_label = ?`, b.Label); err != nil {
		return s.saveError(b.Label, "clear case subjects", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM CaseOpinions WHERE case_label = ?`, b.Label); err != nil {
		return s.saveError(b.Label, "clear case opinions", err)
	}

	for _, subject := range b.Subjects {
		subjectID, err := s.findOrCreateSubject(ctx, tx, subject.Name)
		if err != nil {
			return s.saveError(b.Label, "save subject "+subject.Name, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO CaseSubjects (case_label, subject_id) VALUES (?, ?)`,
			b.Label, subjectID)
		if err != nil {
			return s.saveError(b.Label, "associate subject "+subject.Name, err)
		}
	}

	for _, opinion := range b.Opinions {
		opinionID, err := s.findOrCreateOpinion(ctx, tx, opinion)
		if err != nil {
			return s.saveError(b.Label, "save opinion by "+opinion.Author, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO CaseOpinions (case_label, opinion_id) VALUES (?, ?)`,
			b.Label, opinionID)
		if err != nil {
			return s.saveError(b.Label, "associate opinion by "+opinion.Author, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return s.saveError(b.Label, "commit save", err)
	}

	s.logger.Debug("brief saved", "label", b.Label)
	return nil
}

// saveError classifies and logs a save failure. The deferred rollback
// undoes the transaction.
func (s *Store) saveError(label, op string, err error) error {
	s.logger.Error("error saving case brief", "label", label, "op", op, "error", err)
	if isConstraintViolation(err) {
		return errors.IntegrityViolationf("save %q: %s", label, op).WithCause(err)
	}
	return errors.Wrapf(err, errors.CodeInternal, "save %q: %s", label, op)
}

// LoadBrief fetches a brief by label, including its subjects and opinions.
// Returns a NotFound error when no case carries the label.
func (s *Store) LoadBrief(ctx context.Context, label string) (*domain.Brief, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+caseColumns+` FROM Cases WHERE label = ?`, label)

	b, err := scanBrief(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no case brief with label %q", label)
	}
	if err != nil {
		return nil, err
	}

	// Join views expose denormalized names and text alongside the label.
	// Row order follows whatever the views yield; callers needing stable
	// order sort explicitly.
	rows, err := s.db.QueryContext(ctx,
		`SELECT opinion_author, opinion_text FROM CaseOpinionsView WHERE case_label = ?`, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var op domain.Opinion
		if err := rows.Scan(&op.Author, &op.Text); err != nil {
			return nil, err
		}
		b.Opinions = append(b.Opinions, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	subjectRows, err := s.db.QueryContext(ctx,
		`SELECT subject_name FROM CaseSubjectsView WHERE case_label = ?`, label)
	if err != nil {
		return nil, err
	}
	defer subjectRows.Close()
	for subjectRows.Next() {
		var name string
		if err := subjectRows.Scan(&name); err != nil {
			return nil, err
		}
		b.Subjects = append(b.Subjects, domain.Subject{Name: name})
	}
	if err := subjectRows.Err(); err != nil {
		return nil, err
	}

	return b, nil
}

// DeleteBrief removes a case and, via cascade, its association rows.
// Returns NotFound when the label does not exist. Orphaned Subjects and
// Opinions rows are left in place; no garbage collection occurs.
func (s *Store) DeleteBrief(ctx context.Context, label string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM Cases WHERE label = ?`, label)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("no case brief with label %q", label)
	}
	return nil
}

// ListLabels returns every case label, sorted.
func (s *Store) ListLabels(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx, `SELECT label FROM Cases ORDER BY label`)
}

// CaseTitle returns the display title for a label. Satisfies
// texcodec.TitleLookup for citation resolution.
func (s *Store) CaseTitle(ctx context.Context, label string) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx,
		`SELECT title FROM Cases WHERE label = ?`, label).Scan(&title)
	if err == sql.ErrNoRows {
		return "", errors.NotFoundf("no case brief with label %q", label)
	}
	if err != nil {
		return "", err
	}
	return title, nil
}

// stringColumn runs a single-column projection query.
func (s *Store) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return values, nil
}
