// Package migrations embeds the platform's goose SQL migrations so
// cmd/annotation-server can apply them without a separate migration
// binary or external file path.
package migrations

import (
	"embed"
)

//go:embed sql/*.sql
var FS embed.FS
