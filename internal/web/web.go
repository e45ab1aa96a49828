// Package web serves the single-page form UI. Presentational only — every
// lifecycle rule lives behind the JSON API it calls.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// embed guarantees the directory exists
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
