package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// HandlePreview serves a live preview resource. Released previews are gone.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := h.previews.Lookup(mux.Vars(r)["token"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		slog.Error("Unable to write preview", "err", err)
	}
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
