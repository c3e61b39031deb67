package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/dashboard"
	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

type mediaView struct {
	Index      int        `json:"index"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SizeBytes  int64      `json:"size_bytes"`
	MimeType   string     `json:"mime_type"`
	Kind       media.Kind `json:"kind"`
	PreviewURL string     `json:"preview_url,omitempty"`
}

type draftView struct {
	ID                string            `json:"id"`
	Title             string            `json:"roomTitle"`
	Location          string            `json:"location"`
	Price             float64           `json:"price"`
	Type              string            `json:"type"`
	Beds              int               `json:"beds"`
	Bathrooms         int               `json:"bathrooms"`
	Description       string            `json:"description"`
	OwnerRequirements string            `json:"ownerRequirements"`
	ContactNumber     string            `json:"contactNumber"`
	OwnerName         string            `json:"ownerName"`
	Amenities         []string          `json:"amenities"`
	Media             []mediaView       `json:"media"`
	Ready             bool              `json:"ready"`
	Errors            map[string]string `json:"errors,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// view renders the draft; the caller holds d.mu
func (d *draftSession) view() draftView {
	draft := d.draft
	v := draftView{
		ID:                d.id,
		Title:             draft.Title,
		Location:          draft.Location,
		Price:             draft.Price,
		Type:              draft.Type,
		Beds:              draft.Beds,
		Bathrooms:         draft.Bathrooms,
		Description:       draft.Description,
		OwnerRequirements: draft.OwnerRequirements,
		ContactNumber:     draft.ContactNumber,
		OwnerName:         draft.OwnerName,
		Amenities:         draft.Amenities(),
		Media:             []mediaView{},
		CreatedAt:         d.createdAt,
	}
	if v.Amenities == nil {
		v.Amenities = []string{}
	}

	for i, item := range draft.Media.Items() {
		mv := mediaView{
			Index:     i,
			ID:        item.ID.String(),
			Name:      item.Name,
			SizeBytes: item.SizeBytes,
			MimeType:  item.MimeType,
			Kind:      item.Kind,
		}
		if preview, ok := d.previews.Get(item.ID); ok {
			mv.PreviewURL = preview.URL
		}
		v.Media = append(v.Media, mv)
	}

	if verr := draft.Validate(); verr != nil {
		v.Errors = verr.Fields
	} else {
		v.Ready = true
	}
	return v
}

func (h *Handler) getDraftOrError(w http.ResponseWriter, r *http.Request) (*draftSession, bool) {
	d, exists := h.drafts.get(mux.Vars(r)["id"])
	if !exists {
		h.writeError(w, "Draft not found", http.StatusNotFound)
		return nil, false
	}
	return d, true
}

// lockDraftOrError takes the draft's lock, answering 404 if the draft was
// discarded while the request waited for it.
func (h *Handler) lockDraftOrError(w http.ResponseWriter, d *draftSession) bool {
	if !d.lock() {
		h.writeError(w, "Draft not found", http.StatusNotFound)
		return false
	}
	return true
}

func (h *Handler) HandleCreateDraft(w http.ResponseWriter, r *http.Request) {
	d := h.drafts.create(h.previews)
	slog.Info("Draft created", "draft", d.id)

	d.mu.Lock()
	defer d.mu.Unlock()
	h.writeJSONStatus(w, http.StatusCreated, d.view())
}

func (h *Handler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.getDraftOrError(w, r)
	if !ok {
		return
	}
	if !h.lockDraftOrError(w, d) {
		return
	}
	defer d.mu.Unlock()
	h.writeJSON(w, d.view())
}

// HandleUpdateDraft applies form input. Fields that fail to parse are
// reported with 422 while the rest are still applied.
func (h *Handler) HandleUpdateDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.getDraftOrError(w, r)
	if !ok {
		return
	}

	var fields listing.Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if !h.lockDraftOrError(w, d) {
		return
	}
	defer d.mu.Unlock()

	if verr := d.draft.Apply(fields); verr != nil {
		h.writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Some fields could not be read",
			"errors":  verr.Fields,
			"draft":   d.view(),
		})
		return
	}
	h.writeJSON(w, d.view())
}

func (h *Handler) HandleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	d, exists := h.drafts.take(mux.Vars(r)["id"])
	if !exists {
		h.writeError(w, "Draft not found", http.StatusNotFound)
		return
	}
	d.discard()
	slog.Info("Draft discarded", "draft", d.id)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSubmitDraft validates the draft and creates the room through the
// dashboard. A submitted draft is discarded; a failed one stays editable.
func (h *Handler) HandleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.getDraftOrError(w, r)
	if !ok {
		return
	}

	if !h.lockDraftOrError(w, d) {
		return
	}
	defer d.mu.Unlock()

	room, err := h.dashboard.CreateRoom(r.Context(), d.draft)
	if err != nil {
		h.writeDashboardError(w, err)
		return
	}

	h.drafts.take(d.id)
	d.release()
	h.writeJSONStatus(w, http.StatusCreated, map[string]any{
		"message": "Room added successfully",
		"room":    room,
	})
}

// writeDashboardError maps dashboard and API failures to HTTP responses
func (h *Handler) writeDashboardError(w http.ResponseWriter, err error) {
	var verr *listing.ValidationError
	var remote *api.RemoteError

	switch {
	case errors.As(err, &verr):
		h.writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, api.ErrAuthRequired):
		h.writeError(w, "Please log in to continue", http.StatusUnauthorized)
	case errors.As(err, &remote):
		status := http.StatusBadGateway
		if remote.StatusCode == http.StatusUnauthorized {
			status = http.StatusUnauthorized
		}
		h.writeError(w, remote.Message, status)
	case errors.Is(err, dashboard.ErrBusy), errors.Is(err, dashboard.ErrInvalidState):
		h.writeError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, dashboard.ErrUnknownRoom):
		h.writeError(w, "Room not found", http.StatusNotFound)
	case errors.Is(err, dashboard.ErrCancelled):
		h.writeError(w, "Deletion must be confirmed", http.StatusBadRequest)
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrFileTooLarge):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, "Internal server error: "+err.Error(), http.StatusInternalServerError)
	}
}
