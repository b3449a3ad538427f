// Package web holds the HTML templates compiled into the binary.
package web

import "embed"

// Templates contains every page template under template/.
//
//go:embed template/*.html
var Templates embed.FS
