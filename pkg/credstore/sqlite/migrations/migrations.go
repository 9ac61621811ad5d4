// Package migrations embeds the credential database schema files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
