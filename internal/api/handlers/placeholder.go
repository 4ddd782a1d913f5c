package handlers

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
)

// Placeholder renders a grey SVG box of :width x :height with ?text=.
func Placeholder(w http.ResponseWriter, r *http.Request) {
	width, errW := strconv.Atoi(param(r, "width"))
	height, errH := strconv.Atoi(param(r, "height"))
	if errW != nil || errH != nil || width < 1 || height < 1 || width > 2000 || height > 2000 {
		writeError(w, r, http.StatusBadRequest, "invalid placeholder size")
		return
	}

	text := html.EscapeString(r.URL.Query().Get("text"))
	if text == "" {
		text = fmt.Sprintf("%dx%d", width, height)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="100%%" height="100%%" fill="#e5e7eb"/>`+
			`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#6b7280">%s</text></svg>`,
		width, height, text,
	)
}
