package server

import (
	"embed"
	"io/fs"
	"net/http"
)

// Embed site assets
//
//go:embed static/*
var staticFiles embed.FS

// staticHandler serves the embedded assets under /static/
func staticHandler() http.Handler {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(assets)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(w, r)
	})
}
