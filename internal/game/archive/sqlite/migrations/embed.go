// Package migrations embeds the match archive schema.
package migrations

import "embed"

// FS holds the numbered .sql migration files applied at store open.
//
//go:embed *.sql
var FS embed.FS
