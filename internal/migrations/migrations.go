// Package migrations embeds the goose SQL migrations for the postgres
// backend. The sqlite backend keeps its schema inline next to its driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
