package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

func newMediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/uploads/front.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	})
	mux.HandleFunc("/uploads/tour", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("mp4-bytes"))
	})
	mux.HandleFunc("/uploads/readme", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("not media"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestFetchRoomMedia(t *testing.T) {
	server := newMediaServer(t)
	out := t.TempDir()

	f := NewFetcher()
	f.Delay = 0
	room := models.Room{
		ID:     "r1",
		Images: []string{"/uploads/front.jpg", server.URL + "/uploads/tour", "/uploads/readme", "/uploads/missing.png"},
	}

	downloads, err := f.FetchRoomMedia(context.Background(), server.URL, room, out)
	require.NoError(t, err)
	require.Len(t, downloads, 4)

	assert.Equal(t, filepath.Join(out, "r1_1.jpg"), downloads[0].Path)
	assert.Equal(t, filepath.Join(out, "r1_2.mp4"), downloads[1].Path)
	assert.Error(t, downloads[2].Err)
	assert.Empty(t, downloads[2].Path)
	assert.Error(t, downloads[3].Err)

	data, err := os.ReadFile(downloads[0].Path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))
}

func TestFetchRoomMedia_NothingSaved(t *testing.T) {
	server := newMediaServer(t)
	f := NewFetcher()
	f.Delay = 0

	_, err := f.FetchRoomMedia(context.Background(), server.URL, models.Room{ID: "r1", Images: []string{"/uploads/readme"}}, t.TempDir())
	assert.Error(t, err)

	_, err = f.FetchRoomMedia(context.Background(), server.URL, models.Room{ID: "r2"}, t.TempDir())
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	tests := []struct {
		contentType, url, want string
	}{
		{"image/jpeg", "http://x/a.JPG", ".jpg"},
		{"image/jpeg", "http://x/a", ".jpg"},
		{"image/png; charset=binary", "http://x/a?v=2", ".png"},
		{"video/mp4", "http://x/clip", ".mp4"},
		{"image/webp", "http://x/photo.webp?size=l", ".webp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extension(tt.contentType, tt.url), tt.url)
	}
}
