package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

const maxUploadBytes = media.MaxItems*media.MaxVideoSize + 10<<20

type rejectionView struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// HandleAddMedia takes the "files" parts of a multipart upload into the
// draft's selection. Files are validated before they are spooled to disk;
// every rejected file is reported and also raised as a notification.
func (h *Handler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	d, ok := h.getDraftOrError(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		h.writeError(w, "No files provided", http.StatusBadRequest)
		return
	}

	if !h.lockDraftOrError(w, d) {
		return
	}
	defer d.mu.Unlock()

	if d.dir == "" {
		if err := h.ensureSpoolDir(); err != nil {
			h.writeError(w, "Failed to create media directory: "+err.Error(), http.StatusInternalServerError)
			return
		}
		dir, err := os.MkdirTemp(h.spoolRoot, "draft-*")
		if err != nil {
			h.writeError(w, "Failed to create media directory: "+err.Error(), http.StatusInternalServerError)
			return
		}
		d.dir = dir
	}

	var rejected []media.Rejection
	var candidates []media.FileHandle
	dropped := []string{}
	room := media.MaxItems - d.draft.Media.Len()
	for _, header := range headers {
		candidate := media.FromMultipart(header)
		if _, err := media.Validate(candidate); err != nil {
			rejected = append(rejected, media.Rejection{Name: candidate.Name(), Err: err})
			continue
		}
		if len(candidates) >= room {
			dropped = append(dropped, candidate.Name())
			continue
		}
		spooled, err := media.Spool(d.dir, candidate)
		if err != nil {
			rejected = append(rejected, media.Rejection{Name: candidate.Name(), Err: err})
			continue
		}
		candidates = append(candidates, spooled)
	}

	result := d.draft.Media.AddFiles(candidates)
	rejected = append(rejected, result.Rejected...)
	for _, item := range result.Dropped {
		h.cleanupItem(d, item)
		dropped = append(dropped, item.Name)
	}

	if err := d.previews.Derive(d.draft.Media); err != nil {
		slog.Warn("Some previews could not be created", "draft", d.id, "err", err)
	}

	response := map[string]any{
		"accepted": itemNames(result.Accepted),
		"rejected": h.reportRejections(rejected),
		"dropped":  dropped,
		"draft":    d.view(),
	}
	slog.Info("Media added", "draft", d.id, "accepted", len(result.Accepted), "rejected", len(rejected), "dropped", len(dropped))
	h.writeJSON(w, response)
}

func (h *Handler) reportRejections(rejected []media.Rejection) []rejectionView {
	views := make([]rejectionView, 0, len(rejected))
	for _, rej := range rejected {
		views = append(views, rejectionView{Name: rej.Name, Error: rej.Err.Error()})
		h.notes.Error(fmt.Sprintf("%s: %s", rej.Name, rej.Err))
	}
	return views
}

func (h *Handler) cleanupItem(d *draftSession, item media.Item) {
	if err := item.Cleanup(); err != nil {
		slog.Warn("Failed to remove spooled media", "draft", d.id, "name", item.Name, "err", err)
	}
}

func itemNames(items []media.Item) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

// HandleRemoveMedia removes one item by position. The other items keep their
// previews.
func (h *Handler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	d, ok := h.getDraftOrError(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		h.writeError(w, "Invalid media index", http.StatusBadRequest)
		return
	}

	if !h.lockDraftOrError(w, d) {
		return
	}
	defer d.mu.Unlock()

	removed, err := d.draft.Media.RemoveAt(index)
	if err != nil {
		h.writeError(w, "Media item not found", http.StatusNotFound)
		return
	}
	h.cleanupItem(d, removed)
	if err := d.previews.Derive(d.draft.Media); err != nil {
		slog.Warn("Some previews could not be created", "draft", d.id, "err", err)
	}

	slog.Info("Media removed", "draft", d.id, "name", removed.Name)
	h.writeJSON(w, d.view())
}
