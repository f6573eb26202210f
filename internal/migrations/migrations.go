// Package migrations embeds the SQL schema migrations applied at server
// startup via goose.
package migrations

import "embed"

// Migrations holds the embedded goose migration files.
//
//go:embed *.sql
var Migrations embed.FS
