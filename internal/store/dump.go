package store

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/BennyWestsyde/Case-Briefs/internal/errors"
)

// dumpTableOrder fixes export order: reference tables before the fact
// table before association tables, so a restore into an empty store
// populates parents first. Unlisted tables sort alphabetically after.
var dumpTableOrder = map[string]int{
	"Courses":      1,
	"Subjects":     2,
	"Opinions":     3,
	"Cases":        4,
	"CaseSubjects": 5,
	"CaseOpinions": 6,
}

const dumpUnlistedPriority = 100

// qident quotes an SQL identifier, escaping embedded double quotes.
func qident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ExportDump renders the entire store as a re-executable SQL script: one
// idempotent upsert per row, wrapped in a transaction with foreign-key
// checks disabled for the duration.
//
// The output is deterministic for an unchanged schema — fixed table order,
// schema column order, natural row order — which keeps dumps diffable and
// usable as backup artifacts.
func (s *Store) ExportDump(ctx context.Context) (string, error) {
	tables, err := s.stringColumn(ctx,
		`SELECT name FROM sqlite_schema WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", errors.StoreUnavailable("enumerate tables").WithCause(err)
	}

	sort.SliceStable(tables, func(i, j int) bool {
		return tablePriority(tables[i]) < tablePriority(tables[j])
	})

	parts := []string{
		"-- Exported SQLite data (data only)",
		"PRAGMA foreign_keys=OFF;",
		"BEGIN TRANSACTION;",
	}

	for _, table := range tables {
		columns, err := s.tableColumns(ctx, table)
		if err != nil {
			return "", err
		}
		if len(columns) == 0 {
			continue
		}

		quoted := make([]string, len(columns))
		selected := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = qident(col)
			// quote() renders each value as an SQL literal at the
			// source, including NULL, blobs, and embedded quotes.
			selected[i] = "quote(" + qident(col) + ")"
		}
		colList := strings.Join(quoted, ", ")

		rows, err := s.db.QueryContext(ctx,
			`SELECT `+strings.Join(selected, ", ")+` FROM `+qident(table))
		if err != nil {
			return "", errors.StoreUnavailable("dump table " + table).WithCause(err)
		}

		values := make([]string, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		for rows.Next() {
			if err := rows.Scan(dest...); err != nil {
				rows.Close()
				return "", err
			}
			parts = append(parts,
				"INSERT OR REPLACE INTO "+qident(table)+" ("+colList+") VALUES ("+strings.Join(values, ", ")+");")
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return "", err
		}
		rows.Close()
	}

	parts = append(parts, "COMMIT;", "PRAGMA foreign_keys=ON;")
	return strings.Join(parts, "\n"), nil
}

// tableColumns returns the table's non-hidden column names in schema order.
// Hidden and generated columns (table_xinfo hidden != 0) are skipped so
// derived values never land in the dump.
func (s *Store) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `PRAGMA table_xinfo(`+qident(table)+`)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    any
			pk      int
			hidden  int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk, &hidden); err != nil {
			return nil, err
		}
		if hidden == 0 {
			columns = append(columns, name)
		}
	}
	return columns, rows.Err()
}

func tablePriority(name string) int {
	if p, ok := dumpTableOrder[name]; ok {
		return p
	}
	return dumpUnlistedPriority
}

// RestoreDump executes a dump script as a single batch. A malformed script
// fails the whole restore; callers must treat the store as unverified and
// reload in-memory state after a successful restore.
func (s *Store) RestoreDump(ctx context.Context, script string) error {
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return errors.DumpParse("restore dump script").WithCause(err)
	}
	s.logger.Info("database restored from dump")
	return nil
}

// ExportDumpFile writes the dump to path.
func (s *Store) ExportDumpFile(ctx context.Context, path string) error {
	dump, err := s.ExportDump(ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(dump+"\n"), 0o644); err != nil {
		return err
	}
	s.logger.Info("database exported", "path", path)
	return nil
}

// RestoreDumpFile restores the store from a dump file at path.
func (s *Store) RestoreDumpFile(ctx context.Context, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.RestoreDump(ctx, string(script))
}
