// Package migrations embeds the goose migration tracks for the
// supported database dialects. The track to apply is selected by the
// dialect detected from the connection URL.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
