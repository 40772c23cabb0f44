// Package migrations holds the PostgreSQL schema, applied at startup by
// database.RunMigrations when the postgres store driver is selected.
package migrations

import "embed"

// FS contains the *.up.sql files in apply order.
//
//go:embed *.up.sql
var FS embed.FS
