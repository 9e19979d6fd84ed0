// Package migrations embeds the schema migration files applied at startup
// when a database connection is configured.
package migrations

import "embed"

//go:embed *.up.sql
var Files embed.FS
