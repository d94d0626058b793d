// Package migrations ships the PostgreSQL schema as versioned golang-migrate
// files embedded in the binary.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file of this directory
//
//go:embed *.sql
var FS embed.FS
