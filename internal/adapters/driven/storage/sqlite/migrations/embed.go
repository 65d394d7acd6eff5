// Package migrations holds the numbered schema files of the catalog
// database. Each NNN_name.up.sql runs once, in order.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
