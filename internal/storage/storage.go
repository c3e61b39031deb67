package storage

import (
	"sync"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

// RoomStore is the session-scoped cache of the signed-in user's rooms.
// It is never persisted; the remote API stays the source of truth.
type RoomStore struct {
	rooms map[string]models.Room
	order []string
	mu    sync.RWMutex
}

func New() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]models.Room),
	}
}

func (s *RoomStore) Get(roomID string) (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, exists := s.rooms[roomID]
	return room, exists
}

// Replace swaps the whole contents for a freshly fetched list, keeping the
// fetch order for display. Rooms without an ID are skipped.
func (s *RoomStore) Replace(rooms []models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = make(map[string]models.Room, len(rooms))
	s.order = make([]string, 0, len(rooms))
	for _, room := range rooms {
		if room.ID == "" {
			continue
		}
		if _, dup := s.rooms[room.ID]; !dup {
			s.order = append(s.order, room.ID)
		}
		s.rooms[room.ID] = room
	}
}

func (s *RoomStore) All() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Room, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.rooms[id])
	}
	return result
}

func (s *RoomStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

func (s *RoomStore) Delete(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[roomID]; !exists {
		return false
	}
	delete(s.rooms, roomID)
	for i, id := range s.order {
		if id == roomID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *RoomStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = make(map[string]models.Room)
	s.order = nil
}
