// Package assets embeds the static files served under /assets.
package assets

import "embed"

//go:embed css img
var Assets embed.FS
