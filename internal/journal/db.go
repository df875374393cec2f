// Package journal records processed events and dispatched actions so a
// hub operator can answer "what fired, and why" after the fact.
// Journaling is optional and best-effort; the evaluation pipeline runs
// unchanged without it.
//
// A single-hub install journals to SQLite; larger deployments can point
// the same code at PostgreSQL.
package journal

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// The journal sees one write per event plus one per dispatch, so a
// handful of connections covers even a chatty hub.
const (
	maxOpenConns    = 8
	maxIdleConns    = 2
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// Open connects to the journal database named by dbURL and sizes the
// connection pool. The scheme selects the driver: "sqlite://file.db"
// (or "sqlite:///absolute/path") and "postgres://..." are supported.
func Open(dbURL string) (*sqlx.DB, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	var driverName string
	var dataSource string

	switch u.Scheme {
	case "sqlite":
		driverName = "sqlite3"
		// A relative path parses into the host component, an absolute path
		// into the path component.
		if u.Host != "" {
			dataSource = u.Host + u.Path
		} else {
			dataSource = u.Path
		}
		if u.RawQuery != "" {
			dataSource += "?" + u.RawQuery
		}
	case "postgres":
		driverName = "postgres"
		dataSource = dbURL
	default:
		return nil, fmt.Errorf("unsupported database scheme: %s (expected sqlite or postgres)", u.Scheme)
	}

	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging journal database: %w", err)
	}

	return db, nil
}
