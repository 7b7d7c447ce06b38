// Package migrations embeds the goose SQL migrations of the ledger schema.
package migrations

import "embed"

// Dir is the path of the migration files inside FS.
const Dir = "."

//go:embed *.sql
var FS embed.FS
