// Package migrations holds the PostgreSQL schema as golang-migrate file
// pairs and compiles them into the binaries that apply them.
package migrations

import "embed"

// FS contains every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
