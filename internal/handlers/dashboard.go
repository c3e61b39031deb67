package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SUMITRAUTHAN09/rosca/internal/dashboard"
	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.dashboard.Snapshot())
}

func (h *Handler) HandleLoadProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.LoadProfile(r.Context()); err != nil {
		h.writeDashboardError(w, err)
		return
	}
	h.writeJSON(w, h.dashboard.Snapshot())
}

func (h *Handler) HandleRetryProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.Retry(r.Context()); err != nil {
		h.writeDashboardError(w, err)
		return
	}
	h.writeJSON(w, h.dashboard.Snapshot())
}

func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.SignOut(); err != nil {
		h.writeError(w, "Failed to sign out: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var update listing.RoomUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	room, err := h.dashboard.UpdateRoom(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		h.writeDashboardError(w, err)
		return
	}
	h.writeJSON(w, map[string]any{"room": room})
}

// HandleDeleteRoom deletes only when the request carries confirm=true, the
// answer to the front-end's confirmation dialog.
func (h *Handler) HandleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	confirmed := r.URL.Query().Get("confirm") == "true"
	confirm := dashboard.ConfirmFunc(func(context.Context, models.Room) (bool, error) {
		return confirmed, nil
	})

	if err := h.dashboard.DeleteRoom(r.Context(), mux.Vars(r)["id"], confirm); err != nil {
		h.writeDashboardError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.notes.Drain())
}
