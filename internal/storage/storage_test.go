package storage

import (
	"testing"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRoomStore_ReplaceKeepsFetchOrder(t *testing.T) {
	store := New()
	store.Replace([]models.Room{
		{ID: "b", Title: "Second"},
		{ID: "a", Title: "First"},
		{Title: "No id"},
		{ID: "b", Title: "Second updated"},
	})

	assert.Equal(t, []string{"b", "a"}, store.IDs())
	assert.Equal(t, 2, store.Len())

	room, ok := store.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "Second updated", room.Title)
}

func TestRoomStore_Delete(t *testing.T) {
	store := New()
	store.Replace([]models.Room{{ID: "1"}, {ID: "2"}, {ID: "3"}})

	assert.True(t, store.Delete("2"))
	assert.False(t, store.Delete("2"))
	assert.Equal(t, []string{"1", "3"}, store.IDs())

	_, ok := store.Get("2")
	assert.False(t, ok)
}

func TestRoomStore_Clear(t *testing.T) {
	store := New()
	store.Replace([]models.Room{{ID: "1"}})
	store.Clear()

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.All())
}
