package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/SUMITRAUTHAN09/rosca/internal/dashboard"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

type Handler struct {
	drafts    *draftStore
	previews  *media.MemoryPreviews
	dashboard *dashboard.Reconciler
	notes     *Notifications
	spoolRoot string
}

// New wires the companion server. Uploaded media is spooled under
// spoolRoot, one directory per draft.
func New(dash *dashboard.Reconciler, previews *media.MemoryPreviews, notes *Notifications, spoolRoot string) *Handler {
	return &Handler{
		drafts:    newDraftStore(),
		previews:  previews,
		dashboard: dash,
		notes:     notes,
		spoolRoot: spoolRoot,
	}
}

// Close discards every open draft, releasing previews and spooled media
func (h *Handler) Close() {
	for _, d := range h.drafts.takeAll() {
		d.discard()
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message)
	} else {
		slog.Debug(message, "status", code)
	}
	h.writeJSONStatus(w, code, map[string]string{"message": message})
}

func (h *Handler) ensureSpoolDir() error {
	return os.MkdirAll(h.spoolRoot, 0755)
}
