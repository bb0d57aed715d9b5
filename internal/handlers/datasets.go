package handlers

import (
	"io/fs"
	"net/http"

	"github.com/soulart2024-ship-it/Tem/internal/catalog"
)

// DatasetHandler serves the embedded delimited catalog datasets.
func DatasetHandler() http.Handler {
	sub, err := fs.Sub(catalog.DatasetFS, "data")
	if err != nil {
		// The datasets are compiled in; a missing subtree is a build defect.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
