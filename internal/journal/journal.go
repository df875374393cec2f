package journal

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/qustavo/dotsql"
)

//go:embed queries/*.sql
var queriesFS embed.FS

// Journal provides access to the event/dispatch journal through named SQL
// queries loaded from embedded .sql files. Uses dotsql for named query
// management and sqlx for database operations.
type Journal struct {
	dot *dotsql.DotSql
	db  *sqlx.DB
}

// Dispatch is one recorded action dispatch.
type Dispatch struct {
	RuleName  string `db:"rule_name"`
	Method    string `db:"method"`
	Arg       string `db:"arg"`
	CreatedAt string `db:"created_at"`
}

// New loads the named queries and returns a Journal over db. The schema
// must already be migrated (MigrateUp).
func New(db *sqlx.DB) (*Journal, error) {
	var combinedSQL string

	err := fs.WalkDir(queriesFS, "queries", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}
		content, err := queriesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		combinedSQL += string(content) + "\n"
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load query files: %w", err)
	}

	dot, err := dotsql.LoadFromString(combinedSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse queries: %w", err)
	}

	return &Journal{dot: dot, db: db}, nil
}

// RecordEvent records one processed domain event.
func (j *Journal) RecordEvent(eventID string) error {
	_, err := j.exec("insert-event", eventID, timestamp())
	return err
}

// RecordDispatch records one dispatched rule action.
func (j *Journal) RecordDispatch(ruleName, method, arg string) error {
	_, err := j.exec("insert-dispatch", ruleName, method, arg, timestamp())
	return err
}

// RecentDispatches returns the latest n dispatches, newest first.
func (j *Journal) RecentDispatches(n int) ([]Dispatch, error) {
	query, err := j.dot.Raw("recent-dispatches")
	if err != nil {
		return nil, fmt.Errorf("query not found: recent-dispatches")
	}
	var out []Dispatch
	if err := j.db.Select(&out, j.db.Rebind(query), n); err != nil {
		return nil, err
	}
	return out, nil
}

// EventCount returns the number of recorded events.
func (j *Journal) EventCount() (int, error) {
	query, err := j.dot.Raw("count-events")
	if err != nil {
		return 0, fmt.Errorf("query not found: count-events")
	}
	var n int
	if err := j.db.Get(&n, j.db.Rebind(query)); err != nil {
		return 0, err
	}
	return n, nil
}

// exec runs a named query with placeholder conversion for database
// compatibility (? rebound to $1, $2 for PostgreSQL).
func (j *Journal) exec(name string, args ...any) (sql.Result, error) {
	query, err := j.dot.Raw(name)
	if err != nil {
		return nil, fmt.Errorf("query not found: %s", name)
	}
	return j.db.Exec(j.db.Rebind(query), args...)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
