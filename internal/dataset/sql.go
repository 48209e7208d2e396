package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ImportOptions configures ImportTable.
type ImportOptions struct {
	// Relation names the resulting table. Defaults to the SQL table name.
	Relation string

	// SkipNulls drops rows whose first (and second) column is NULL.
	SkipNulls bool

	// Start and End bound the imported row window [Start, End).
	// End <= 0 means no upper bound.
	Start int
	End   int
}

// ImportTable reads columns of an SQL table as a categorical Table.
//
// Each column's domain is its distinct values plus Undefined. NULL and
// empty cells become Undefined and inner spaces become '|', matching the
// value cleaning of ReadARFF.
func ImportTable(ctx context.Context, db *sql.DB, table string, columns []string, opts ImportOptions) (*Table, error) {
	if len(columns) < 2 {
		return nil, fmt.Errorf("import %s: need at least 2 columns, got %d", table, len(columns))
	}
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("import: invalid table name %q", table)
	}
	for _, c := range columns {
		if !identifierPattern.MatchString(c) {
			return nil, fmt.Errorf("import %s: invalid column name %q", table, c)
		}
	}
	if opts.Start < 0 || (opts.End > 0 && opts.End < opts.Start) {
		return nil, fmt.Errorf("import %s: invalid row window [%d, %d)", table, opts.Start, opts.End)
	}

	relation := opts.Relation
	if relation == "" {
		relation = table
	}
	t := &Table{Relation: relation}

	for _, c := range columns {
		values, err := distinctValues(ctx, db, table, c)
		if err != nil {
			return nil, err
		}
		t.Attributes = append(t.Attributes, Attribute{Name: c, Kind: Nominal, Values: values})
	}

	rows, err := readRows(ctx, db, table, columns, opts)
	if err != nil {
		return nil, err
	}
	t.Rows = rows
	return t, nil
}

func distinctValues(ctx context.Context, db *sql.DB, table, column string) ([]string, error) {
	query := fmt.Sprintf("SELECT DISTINCT %s FROM %s ORDER BY %s", column, table, column)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	values := []string{}
	seen := make(map[string]bool)
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", table, column, err)
		}
		s := sqlValue(v)
		if !seen[s] {
			seen[s] = true
			values = append(values, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s.%s: %w", table, column, err)
	}
	if !seen[Undefined] {
		values = append(values, Undefined)
	}
	return values, nil
}

func readRows(ctx context.Context, db *sql.DB, table string, columns []string, opts ImportOptions) ([][]string, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)
	if opts.SkipNulls {
		query += fmt.Sprintf(" WHERE %s IS NOT NULL AND %s IS NOT NULL", columns[0], columns[1])
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	result := [][]string{}
	dest := make([]sql.NullString, len(columns))
	ptrs := make([]any, len(columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for n := 0; rows.Next(); n++ {
		if opts.End > 0 && n >= opts.End {
			break
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", table, n, err)
		}
		if n < opts.Start {
			continue
		}
		row := make([]string, len(columns))
		for i, v := range dest {
			row[i] = sqlValue(v)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return result, nil
}

func sqlValue(v sql.NullString) string {
	if !v.Valid {
		return Undefined
	}
	s := strings.Join(strings.Fields(v.String), "|")
	if s == "" {
		return Undefined
	}
	return s
}
