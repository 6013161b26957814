package utils

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ExecType tells ExecWithCheck which write is being issued. Updates and
// deletes must touch at least one row; inserts either succeed or error
// outright, so their row count is not checked.
type ExecType int

const (
	ExecInsert ExecType = iota
	ExecUpdate
	ExecDelete
)

// ExecWithCheck runs a write statement and turns a zero-row update or delete
// into an error. Owner-scoped WHERE clauses and the scan status guards rely on
// this to report misses instead of silently writing nothing.
func ExecWithCheck(db *sqlx.DB, query string, execType ExecType, args ...any) error {
	result, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	if execType == ExecInsert {
		return nil
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}
