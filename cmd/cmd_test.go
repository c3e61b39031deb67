package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SUMITRAUTHAN09/rosca/internal/config"
	"github.com/SUMITRAUTHAN09/rosca/internal/export"
	"github.com/SUMITRAUTHAN09/rosca/internal/session"
)

type backend struct {
	*httptest.Server
	mu      sync.Mutex
	calls   []string
	updates []map[string]any
}

func (b *backend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

var testRooms = []map[string]any{
	{"_id": "r1", "roomTitle": "Sunny Room", "location": "Dehradun", "price": 4500, "type": "single room", "beds": 1, "bathrooms": 1},
	{"_id": "r2", "roomTitle": "Quiet Flat", "location": "Mussoorie", "price": 9000, "type": "flat", "beds": 2, "bathrooms": 1},
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, r.Method+" "+r.URL.Path)
		b.mu.Unlock()

		reply := func(v any) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(v)
		}
		switch r.Method + " " + r.URL.Path {
		case "GET /api/rooms":
			reply(map[string]any{"success": true, "data": testRooms})
		case "POST /api/auth/login":
			reply(map[string]any{"success": true, "token": "tok", "user": map[string]any{"_id": "u1", "firstName": "Asha", "email": "asha@example.com"}})
		case "GET /api/users/me":
			reply(map[string]any{"user": map[string]any{"_id": "u1", "firstName": "Asha", "email": "asha@example.com"}})
		case "GET /api/rooms/user/my-rooms":
			reply(map[string]any{"success": true, "rooms": testRooms})
		case "DELETE /api/rooms/r1":
			reply(map[string]any{"success": true})
		case "PUT /api/rooms/r1":
			var update map[string]any
			json.NewDecoder(r.Body).Decode(&update)
			b.mu.Lock()
			b.updates = append(b.updates, update)
			b.mu.Unlock()
			room := map[string]any{}
			for k, v := range testRooms[0] {
				room[k] = v
			}
			for k, v := range update {
				room[k] = v
			}
			reply(map[string]any{"success": true, "data": room})
		default:
			w.WriteHeader(http.StatusNotFound)
			reply(map[string]any{"message": "not found"})
		}
	}))
	t.Cleanup(b.Close)
	return b
}

type harness struct {
	backend     *backend
	configFile  string
	sessionFile string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		backend:     newBackend(t),
		configFile:  filepath.Join(dir, "rosca.yaml"),
		sessionFile: filepath.Join(dir, "session", "session.yaml"),
	}
	cfg := fmt.Sprintf("api:\n  base_url: %s/api\nsession:\n  file: %s\nlog:\n  level: error\n", h.backend.URL, h.sessionFile)
	require.NoError(t, os.WriteFile(h.configFile, []byte(cfg), 0644))
	return h
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	sess, err := session.Open(h.sessionFile)
	require.NoError(t, err)
	require.NoError(t, sess.Set("tok", nil))
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", h.configFile}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoomsList(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "", "rooms", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Sunny Room")
	assert.Contains(t, out, "Quiet Flat")
	assert.Contains(t, out, "₹4500")
}

func TestLoginThenProfile(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run(t, "secret\n", "login", "--email", "Asha@Example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Asha")

	out, _, err = h.run(t, "", "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "asha@example.com")
	assert.Contains(t, out, "My rooms (2)")

	_, _, err = h.run(t, "", "logout")
	require.NoError(t, err)
	_, _, err = h.run(t, "", "profile")
	assert.ErrorContains(t, err, "not signed in")
}

func TestRoomsAdd_InvalidMakesNoCall(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	_, _, err := h.run(t, "", "rooms", "add",
		"--title", "Sunny Room", "--location", "Dehradun", "--price", "4500",
		"--type", "single room", "--contact", "12345", "--owner-name", "Asha",
		"--amenity", "wifi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contactNumber: Must be 10 digits")
	assert.Equal(t, 0, h.backend.count())
}

func TestRoomsDelete(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t)

		out, _, err := h.run(t, "n\n", "rooms", "delete", "r1")
		require.NoError(t, err)
		assert.Contains(t, out, "Cancelled")
		assert.False(t, h.backend.called("DELETE /api/rooms/r1"))
	})

	t.Run("confirmed", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t)

		_, errOut, err := h.run(t, "", "rooms", "delete", "r1", "--yes")
		require.NoError(t, err)
		assert.True(t, h.backend.called("DELETE /api/rooms/r1"))
		assert.Contains(t, errOut, "Room deleted successfully")
	})

	t.Run("not mine", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t)

		_, _, err := h.run(t, "", "rooms", "delete", "other", "--yes")
		assert.ErrorContains(t, err, "not one of your rooms")
	})
}

func TestRoomsUpdate_NumericFlags(t *testing.T) {
	t.Run("padded numbers are accepted", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t)

		_, _, err := h.run(t, "", "rooms", "update", "r1", "--price", " 5000 ", "--beds", " 2 ")
		require.NoError(t, err)

		h.backend.mu.Lock()
		defer h.backend.mu.Unlock()
		require.Len(t, h.backend.updates, 1)
		assert.Equal(t, 5000.0, h.backend.updates[0]["price"])
		assert.Equal(t, 2.0, h.backend.updates[0]["beds"])
	})

	t.Run("bad numbers make no call", func(t *testing.T) {
		h := newHarness(t)
		h.signIn(t)

		_, _, err := h.run(t, "", "rooms", "update", "r1", "--price", "cheap", "--bathrooms", "1.5")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Only numbers allowed")
		assert.Contains(t, err.Error(), "Must be a number")
		assert.False(t, h.backend.called("PUT /api/rooms/r1"))
	})
}

func TestRoomsExport(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	path := filepath.Join(t.TempDir(), "rooms.parquet")

	out, _, err := h.run(t, "", "rooms", "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 rooms")

	rooms, err := export.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Quiet Flat", rooms[1].Title)

	_, _, err = h.run(t, "", "rooms", "export", filepath.Join(t.TempDir(), "rooms.csv"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(&buf, config.LogConfig{Level: "warn", Format: "json"}, false)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	logger, err = newLogger(&buf, config.LogConfig{Level: "warn"}, true)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(context.Background(), -4))

	_, err = newLogger(&buf, config.LogConfig{Level: "loud"}, false)
	assert.Error(t, err)
	_, err = newLogger(&buf, config.LogConfig{Level: "info", Format: "xml"}, false)
	assert.Error(t, err)
}
