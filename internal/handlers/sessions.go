package handlers

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SUMITRAUTHAN09/rosca/internal/listing"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

// draftSession is one add-room form being filled in. All access goes
// through mu; the selection and previews are not safe for concurrent use.
type draftSession struct {
	id        string
	draft     *listing.RoomDraft
	previews  *media.Previews
	dir       string
	createdAt time.Time
	discarded bool
	mu        sync.Mutex
}

// lock takes mu and reports whether the draft is still live. When it
// returns false the lock is not held.
func (d *draftSession) lock() bool {
	d.mu.Lock()
	if d.discarded {
		d.mu.Unlock()
		return false
	}
	return true
}

// discard releases every preview and removes spooled media
func (d *draftSession) discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.release()
}

// release is discard for callers already holding mu
func (d *draftSession) release() {
	if d.discarded {
		return
	}
	d.discarded = true

	d.previews.ReleaseAll()
	d.draft.Media.Reset()
	if d.dir != "" {
		if err := os.RemoveAll(d.dir); err != nil {
			slog.Warn("Failed to remove draft media", "draft", d.id, "err", err)
		}
	}
}

type draftStore struct {
	drafts map[string]*draftSession
	mu     sync.RWMutex
}

func newDraftStore() *draftStore {
	return &draftStore{
		drafts: make(map[string]*draftSession),
	}
}

func (s *draftStore) create(provider media.PreviewProvider) *draftSession {
	d := &draftSession{
		id:        uuid.NewString(),
		draft:     listing.NewDraft(),
		previews:  media.NewPreviews(provider),
		createdAt: time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.id] = d
	return d
}

func (s *draftStore) get(id string) (*draftSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, exists := s.drafts[id]
	return d, exists
}

// take removes a draft from the store and hands it to the caller
func (s *draftStore) take(id string) (*draftSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, exists := s.drafts[id]
	if exists {
		delete(s.drafts, id)
	}
	return d, exists
}

func (s *draftStore) takeAll() []*draftSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*draftSession, 0, len(s.drafts))
	for id, d := range s.drafts {
		all = append(all, d)
		delete(s.drafts, id)
	}
	return all
}

func (s *draftStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.drafts)
}
