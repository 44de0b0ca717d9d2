package editorkit

import (
	"embed"
	"io/fs"
)

//go:embed assets/*.css assets/*.js
var embeddedAssets embed.FS

// AssetsFS exposes the stylesheet and the browser glue of the preview pages
// so Go applications can serve them without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(editorkit.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		return embeddedAssets
	}
	return sub
}
