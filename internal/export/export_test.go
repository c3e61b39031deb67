package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

func sampleRooms() []models.Room {
	created := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	return []models.Room{
		{
			ID:            "r1",
			Owner:         "u1",
			Title:         "Sunny Room",
			Location:      "Dehradun",
			Price:         4500.5,
			Type:          "single room",
			Amenities:     []string{"wifi", "AC"},
			Beds:          1,
			Bathrooms:     1,
			ContactNumber: "9876543210",
			OwnerName:     "Asha",
			Images:        []string{"/uploads/a.jpg", "https://cdn.example.com/b.jpg"},
			CreatedAt:     created,
			UpdatedAt:     created.Add(time.Hour),
		},
		{
			ID:        "r2",
			Title:     "Flat",
			Type:      "flat",
			Amenities: []string{"parking"},
			Beds:      3,
			Bathrooms: 2,
			Images:    []string{},
		},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"rooms.yaml", FormatYAML, false},
		{"rooms.YML", FormatYAML, false},
		{"out/rooms.parquet", FormatParquet, false},
		{"rooms.csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.parquet")
	rooms := sampleRooms()

	require.NoError(t, WriteFile(path, NewSnapshot("my-rooms", "u1", rooms)))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, rooms[0].ID, got[0].ID)
	assert.Equal(t, rooms[0].Price, got[0].Price)
	assert.Equal(t, rooms[0].Amenities, got[0].Amenities)
	assert.Equal(t, rooms[0].Images, got[0].Images)
	assert.True(t, rooms[0].CreatedAt.Equal(got[0].CreatedAt))
	assert.Equal(t, 3, got[1].Beds)
	assert.True(t, got[1].CreatedAt.IsZero())
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rooms.yaml")
	rooms := sampleRooms()

	require.NoError(t, WriteFile(path, NewSnapshot("my-rooms", "u1", rooms)))

	got, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sunny Room", got[0].Title)
	assert.Equal(t, []string{"wifi", "AC"}, got[0].Amenities)
	assert.True(t, rooms[0].UpdatedAt.Equal(got[0].UpdatedAt))
	assert.Equal(t, 2, got[1].Bathrooms)
}
