// Package migrations embeds the SQL schema so binaries can apply it
// without shipping loose files.
package migrations

import "embed"

// FS holds the *.up.sql files, applied in lexical order.
//
//go:embed *.up.sql
var FS embed.FS
