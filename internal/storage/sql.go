package storage

import (
	"fmt"
	"strings"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// scoreColumns are stored as floating point; everything else is text.
var scoreColumns = map[string]bool{
	"polarity":       true,
	"subjectivity":   true,
	"vader_polarity": true,
}

// sqlDialect captures the differences between the SQL backends.
type sqlDialect struct {
	realType    string
	quote       func(string) string
	placeholder func(n int) string
}

// sqlColumns prefixes the table columns with the run and post identifiers.
func sqlColumns(columns []string) []string {
	return append([]string{"run_id", "post_id"}, columns...)
}

func (d sqlDialect) createTable(table string, columns []string) string {
	defs := make([]string, 0, len(columns)+1)
	for _, col := range sqlColumns(columns) {
		typ := "TEXT"
		if scoreColumns[col] {
			typ = d.realType
		}
		defs = append(defs, d.quote(col)+" "+typ)
	}
	defs = append(defs, "stored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP")
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", d.quote(table), strings.Join(defs, ", "))
}

func (d sqlDialect) insert(table string, columns []string) string {
	cols := sqlColumns(columns)
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, col := range cols {
		names[i] = d.quote(col)
		marks[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// rowArgs returns the insert arguments for r. Missing fields become NULL.
func rowArgs(runID string, columns []string, r types.Record) []any {
	doc := r.Document()
	args := make([]any, 0, len(columns)+2)
	args = append(args, runID, doc["post_id"])
	for _, col := range columns {
		args = append(args, doc[col])
	}
	return args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
