package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
	"github.com/SUMITRAUTHAN09/rosca/internal/session"
	"github.com/SUMITRAUTHAN09/rosca/internal/storage"
)

// RemoteAPI is the part of the API client the dashboard drives
type RemoteAPI interface {
	CurrentUser(ctx context.Context) (models.User, error)
	MyRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, payload *listing.Payload) (models.Room, error)
	UpdateRoom(ctx context.Context, roomID string, update listing.RoomUpdate) (models.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
	UploadProfilePicture(ctx context.Context, file media.FileHandle) (models.User, error)
}

// Reconciler keeps the local room store in line with the signed-in user's
// rooms on the server. The store is written only after the server confirms
// a change, and one mutation runs at a time.
type Reconciler struct {
	api     RemoteAPI
	session *session.Context
	store   *storage.RoomStore
	notify  Notifier

	mu      sync.Mutex
	state   State
	user    *models.User
	lastErr error
	closed  bool
}

func New(remote RemoteAPI, sess *session.Context, store *storage.RoomStore, notify Notifier) *Reconciler {
	if notify == nil {
		notify = discard{}
	}
	return &Reconciler{
		api:     remote,
		session: sess,
		store:   store,
		notify:  notify,
		state:   Unauthenticated,
	}
}

// Snapshot is a consistent view of the dashboard for display
type Snapshot struct {
	State State         `json:"state"`
	User  *models.User  `json:"user,omitempty"`
	Rooms []models.Room `json:"rooms"`
	Error string        `json:"error,omitempty"`
}

func (r *Reconciler) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{State: r.state, Rooms: r.store.All()}
	if r.user != nil {
		u := *r.user
		snap.User = &u
	}
	if r.state == Error && r.lastErr != nil {
		snap.Error = api.Message(r.lastErr)
	}
	return snap
}

func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LoadProfile fetches the user and then their rooms. Without a session token
// it goes straight to Unauthenticated without calling the API. A failed room
// fetch after a good profile still ends in Ready, with an empty store and a
// warning.
func (r *Reconciler) LoadProfile(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.state == Loading || r.state == Mutating {
		r.mu.Unlock()
		return ErrBusy
	}
	if !r.session.HasToken() {
		r.state = Unauthenticated
		r.user = nil
		r.mu.Unlock()
		return api.ErrAuthRequired
	}
	r.state = Loading
	r.mu.Unlock()

	user, err := r.api.CurrentUser(ctx)
	if err != nil {
		return r.profileFailed(err)
	}

	rooms, roomsErr := r.api.MyRooms(ctx)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.user = &user
	r.lastErr = nil
	if roomsErr != nil {
		r.store.Clear()
	} else {
		r.store.Replace(rooms)
	}
	r.state = Ready
	r.mu.Unlock()

	if roomsErr != nil {
		slog.Warn("Profile loaded without rooms", "err", roomsErr)
		r.notify.Warn(api.Message(roomsErr))
		return nil
	}
	slog.Info("Profile loaded", "user", user.ID, "rooms", len(rooms))
	return nil
}

func (r *Reconciler) profileFailed(err error) error {
	unauthorized := api.IsUnauthorized(err) || errors.Is(err, api.ErrAuthRequired)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.user = nil
	r.store.Clear()
	if unauthorized {
		r.state = Unauthenticated
	} else {
		r.state = Error
		r.lastErr = err
	}
	r.mu.Unlock()

	if unauthorized {
		if clearErr := r.session.Clear(); clearErr != nil {
			slog.Warn("Failed to clear rejected session", "err", clearErr)
		}
	}
	slog.Error("Failed to load profile", "err", err)
	r.notify.Error(api.Message(err))
	return err
}

// Retry reloads after a failed load
func (r *Reconciler) Retry(ctx context.Context) error {
	if r.State() != Error {
		return ErrInvalidState
	}
	return r.LoadProfile(ctx)
}

// begin moves into Mutating. Room mutations need Ready and a room that is in
// the store; create and avatar upload may run from any idle state.
func (r *Reconciler) begin(roomID string, needReady bool) (State, models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, models.Room{}, ErrClosed
	}
	if r.state == Mutating || r.state == Loading {
		return 0, models.Room{}, ErrBusy
	}
	if needReady && r.state != Ready {
		return 0, models.Room{}, ErrInvalidState
	}

	var room models.Room
	if roomID != "" {
		var ok bool
		room, ok = r.store.Get(roomID)
		if !ok {
			return 0, models.Room{}, ErrUnknownRoom
		}
	}

	prev := r.state
	r.state = Mutating
	return prev, room, nil
}

// end leaves Mutating, applying fn first. It reports false after Close, in
// which case nothing is applied.
func (r *Reconciler) end(prev State, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if fn != nil {
		fn()
	}
	r.state = prev
	return true
}

// DeleteRoom asks for confirmation and then deletes the room remotely. The
// store drops the room only once the server confirms.
func (r *Reconciler) DeleteRoom(ctx context.Context, roomID string, confirm Confirmer) error {
	r.mu.Lock()
	room, known := r.store.Get(roomID)
	state := r.state
	r.mu.Unlock()

	switch {
	case state == Mutating:
		return ErrBusy
	case state != Ready:
		return ErrInvalidState
	case !known:
		return ErrUnknownRoom
	case confirm == nil:
		return ErrCancelled
	}

	ok, err := confirm.Confirm(ctx, room)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}

	prev, _, err := r.begin(roomID, true)
	if err != nil {
		return err
	}

	err = r.api.DeleteRoom(ctx, roomID)
	applied := r.end(prev, func() {
		if err == nil {
			r.store.Delete(roomID)
		}
	})
	if !applied {
		return err
	}

	if err != nil {
		slog.Error("Failed to delete room", "room", roomID, "err", err)
		r.notify.Error(api.Message(err))
		return err
	}
	slog.Info("Room deleted", "room", roomID)
	r.notify.Success("Room deleted successfully")
	return nil
}

// UpdateRoom sends the changed fields and then reloads the whole room list,
// so the store holds the server's version of every room. On failure the
// store is left as it was.
func (r *Reconciler) UpdateRoom(ctx context.Context, roomID string, update listing.RoomUpdate) (models.Room, error) {
	update = update.Normalize()
	if verr := update.Validate(); verr != nil {
		return models.Room{}, verr
	}

	prev, room, err := r.begin(roomID, true)
	if err != nil {
		return models.Room{}, err
	}
	if update.Empty() {
		r.end(prev, nil)
		return room, nil
	}

	updated, err := r.api.UpdateRoom(ctx, roomID, update)
	if err != nil {
		if r.end(prev, nil) {
			slog.Error("Failed to update room", "room", roomID, "err", err)
			r.notify.Error(api.Message(err))
		}
		return models.Room{}, err
	}

	rooms, refreshErr := r.api.MyRooms(ctx)
	applied := r.end(prev, func() {
		if refreshErr == nil {
			r.store.Replace(rooms)
		}
	})
	if !applied {
		return updated, nil
	}

	if current, ok := r.store.Get(roomID); ok && refreshErr == nil {
		updated = current
	}
	if refreshErr != nil {
		slog.Warn("Room updated but list refresh failed", "room", roomID, "err", refreshErr)
		r.notify.Warn("Room updated, but the list could not be refreshed")
	}
	slog.Info("Room updated", "room", roomID)
	r.notify.Success("Room updated successfully")
	return updated, nil
}

// CreateRoom validates and submits a draft. The room list is reloaded when
// the dashboard is showing it.
func (r *Reconciler) CreateRoom(ctx context.Context, draft *listing.RoomDraft) (models.Room, error) {
	payload, err := listing.BuildSubmissionPayload(draft)
	if err != nil {
		return models.Room{}, err
	}

	prev, _, err := r.begin("", false)
	if err != nil {
		return models.Room{}, err
	}

	room, err := r.api.CreateRoom(ctx, payload)
	if err != nil {
		if r.end(prev, nil) {
			slog.Error("Failed to add room", "err", err)
			r.notify.Error(api.Message(err))
		}
		return models.Room{}, err
	}

	var rooms []models.Room
	var refreshErr error
	if prev == Ready {
		rooms, refreshErr = r.api.MyRooms(ctx)
	}
	applied := r.end(prev, func() {
		if prev == Ready && refreshErr == nil {
			r.store.Replace(rooms)
		}
	})
	if !applied {
		return room, nil
	}

	if refreshErr != nil {
		slog.Warn("Room added but list refresh failed", "err", refreshErr)
		r.notify.Warn("Room added, but the list could not be refreshed")
	}
	slog.Info("Room added", "room", room.ID, "media", payload.MediaCount())
	r.notify.Success("Room added successfully")
	return room, nil
}

// UploadAvatar replaces the profile picture and updates the cached user
func (r *Reconciler) UploadAvatar(ctx context.Context, file media.FileHandle) (models.User, error) {
	prev, _, err := r.begin("", false)
	if err != nil {
		return models.User{}, err
	}

	user, err := r.api.UploadProfilePicture(ctx, file)
	applied := r.end(prev, func() {
		if err == nil {
			r.user = &user
		}
	})
	if !applied {
		return user, err
	}

	if err != nil {
		r.notify.Error(api.Message(err))
		return models.User{}, err
	}
	r.notify.Success("Profile picture updated")
	return user, nil
}

// SignOut forgets the session and everything cached for it
func (r *Reconciler) SignOut() error {
	r.mu.Lock()
	r.user = nil
	r.lastErr = nil
	r.store.Clear()
	if !r.closed {
		r.state = Unauthenticated
	}
	r.mu.Unlock()

	return r.session.Clear()
}

// Close detaches the dashboard. Calls still in flight complete, but their
// results no longer touch the state or the store.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}
