package store

import (
	"context"

	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// AddCourse inserts a course reference row. A duplicate name is a hard
// integrity error, not a silent ignore.
func (s *Store) AddCourse(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO Courses (name) VALUES (?)`, name)
	if err != nil {
		if isConstraintViolation(err) {
			return errors.IntegrityViolationf("course %q already exists", name).WithCause(err)
		}
		return err
	}
	return nil
}

// RemoveCourse deletes a course reference row. A course still referenced by
// any case is protected: the call logs a warning and leaves the row in
// place, without error. Callers wanting a hard guarantee check
// CountCourseUsage first.
func (s *Store) RemoveCourse(ctx context.Context, name string) error {
	usage, err := s.CountCourseUsage(ctx, name)
	if err != nil {
		return err
	}
	if usage > 0 {
		s.logger.Warn("course still in use, not removed", "course", name, "cases", usage)
		return nil
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM Courses WHERE name = ?`, name)
	return err
}

// CountCourseUsage returns how many cases reference the course.
func (s *Store) CountCourseUsage(ctx context.Context, name string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Cases WHERE course = ?`, name).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListCourseNames returns every course name, sorted.
func (s *Store) ListCourseNames(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx, `SELECT name FROM Courses ORDER BY name`)
}
