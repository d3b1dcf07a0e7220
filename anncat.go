// Package anncat embeds the static resources of the anncat web UI.
package anncat

import "embed"

//go:embed templates static
var Files embed.FS
