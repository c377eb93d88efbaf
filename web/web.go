// Package web embeds the static assets shipped inside the binary, so
// serving them does not depend on the process working directory.
package web

import "embed"

//go:embed static
var Static embed.FS
