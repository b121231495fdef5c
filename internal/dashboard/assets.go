package dashboard

import (
	_ "embed"
	"net/http"
	"strconv"
)

//go:embed index.html
var indexPage []byte

// ServeIndex serves the single-page dashboard, revalidated on every load.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Content-Length", strconv.Itoa(len(indexPage)))
	w.Write(indexPage)
}
