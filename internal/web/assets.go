package web

import (
	"bytes"
	"compress/gzip"
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

//go:embed static/*
var staticFS embed.FS

// asset holds a minified and gzipped version of a static file.
type asset struct {
	content     []byte
	gzipped     []byte
	contentType string
}

// Assets serves the embedded static files, minified and gzipped once at startup.
type Assets struct {
	files map[string]*asset
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("application/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// NewAssets processes every embedded file. A file that fails to minify is served as is.
func NewAssets(logger *log.Logger) (*Assets, error) {
	m := newMinifier()
	a := &Assets{files: make(map[string]*asset)}

	err := fs.WalkDir(staticFS, "static", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		data, err := staticFS.ReadFile(filePath)
		if err != nil {
			return err
		}

		contentType := mime.TypeByExtension(filepath.Ext(filePath))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		servePath := strings.TrimPrefix(filePath, "static/")

		minified := data
		mediaType, _, _ := strings.Cut(contentType, ";")
		if _, _, fn := m.Match(mediaType); fn != nil {
			var buf bytes.Buffer
			if err := m.Minify(mediaType, &buf, bytes.NewReader(data)); err != nil {
				logger.Warn("failed to minify asset, using original", "path", servePath, "error", err)
			} else {
				minified = buf.Bytes()
				logger.Debug("minified asset", "path", servePath, "from", len(data), "to", len(minified))
			}
		}

		var gzBuf bytes.Buffer
		gz, err := gzip.NewWriterLevel(&gzBuf, gzip.BestCompression)
		if err != nil {
			return err
		}
		if _, err := gz.Write(minified); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}

		a.files[servePath] = &asset{content: minified, gzipped: gzBuf.Bytes(), contentType: contentType}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process embedded assets: %w", err)
	}

	logger.Debug("initialized embedded assets", "count", len(a.files))
	return a, nil
}

// ServeHTTP serves the asset named by the request path, relative to the static root.
func (a *Assets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	f, ok := a.files[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	a.write(w, r, f, "public, max-age=86400")
}

// Page serves index.html. It is never cached so a token fragment always reaches fresh script.
func (a *Assets) Page() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := a.files["index.html"]
		if !ok {
			http.NotFound(w, r)
			return
		}
		a.write(w, r, f, "no-cache")
	})
}

func (a *Assets) write(w http.ResponseWriter, r *http.Request, f *asset, cacheControl string) {
	w.Header().Set("Content-Type", f.contentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Vary", "Accept-Encoding")

	if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") && len(f.gzipped) > 0 {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write(f.gzipped)
		return
	}
	w.Write(f.content)
}
