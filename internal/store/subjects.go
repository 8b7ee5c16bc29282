package store

import (
	"context"
	"database/sql"

	"github.com/BennyWestsyde/Case-Briefs/internal/domain"
	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// findOrCreateSubject returns the id of the subject with the given name,
// inserting a new reference row when absent. Dedup is by exact name.
func (s *Store) findOrCreateSubject(ctx context.Context, q dbtx, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM Subjects WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := q.ExecContext(ctx, `INSERT INTO Subjects (name) VALUES (?)`, name)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// findOrCreateOpinion returns the id of a stored opinion matching the dedup
// key, inserting when absent.
//
// The historical dedup key is the opinion text alone, so identical text
// from different authors collapses to one shared row. Options.
// OpinionDedupByAuthor switches the key to (author, text).
func (s *Store) findOrCreateOpinion(ctx context.Context, q dbtx, op domain.Opinion) (int64, error) {
	var (
		id  int64
		err error
	)
	if s.opts.OpinionDedupByAuthor {
		err = q.QueryRowContext(ctx,
			`SELECT id FROM Opinions WHERE author = ? AND opinion_text = ?`,
			op.Author, op.Text).Scan(&id)
	} else {
		err = q.QueryRowContext(ctx,
			`SELECT id FROM Opinions WHERE opinion_text = ?`, op.Text).Scan(&id)
	}
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO Opinions (author, opinion_text) VALUES (?, ?)`, op.Author, op.Text)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// AddCaseSubject attaches a single subject to an existing case, creating
// the reference row if needed.
func (s *Store) AddCaseSubject(ctx context.Context, label, subjectName string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.StoreUnavailable("begin transaction").WithCause(err)
	}
	defer tx.Rollback()

	subjectID, err := s.findOrCreateSubject(ctx, tx, subjectName)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO CaseSubjects (case_label, subject_id) VALUES (?, ?)`,
		label, subjectID)
	if err != nil {
		if isConstraintViolation(err) {
			return errors.IntegrityViolationf("attach subject %q to %q", subjectName, label).WithCause(err)
		}
		return err
	}

	return tx.Commit()
}

// ListSubjectNames returns every subject reference name, sorted.
func (s *Store) ListSubjectNames(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx, `SELECT name FROM Subjects ORDER BY name`)
}
