package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// InsertIgnore inserts one row with INSERT ... ON CONFLICT DO NOTHING
// and reports whether a row was actually written. A false return with
// a nil error means the unique constraint on conflictKeys already held
// a row, which is the safe outcome of a lost get-or-create race.
func InsertIgnore(ctx context.Context, pool Pool, table string, columns, conflictKeys []string, values []any) (bool, error) {
	if len(columns) == 0 {
		return false, eris.New("db: insert: no columns specified")
	}
	if len(columns) != len(values) {
		return false, eris.Errorf("db: insert: %d columns but %d values", len(columns), len(values))
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		sanitizeTable(table),
		quoteAndJoin(columns),
		strings.Join(placeholders, ", "),
		quoteAndJoin(conflictKeys),
	)

	tag, err := pool.Exec(ctx, sql, values...)
	if err != nil {
		return false, eris.Wrapf(err, "db: insert into %s", table)
	}
	return tag.RowsAffected() > 0, nil
}

// sanitizeTable handles schema-qualified table names like "public.regions".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
