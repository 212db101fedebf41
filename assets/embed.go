package assets

import (
	"embed"
	"io/fs"
)

//go:embed web
var webFS embed.FS

// Web returns the browser UI files, rooted at the directory holding
// index.html.
func Web() fs.FS {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return sub
}
