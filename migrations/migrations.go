// Package migrations carries the journal schema as embedded SQL, one
// directory per supported database dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
