package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mib = 1024 * 1024

type fakeFile struct {
	name        string
	contentType string
	size        int64
	data        []byte
}

func (f fakeFile) Name() string        { return f.name }
func (f fakeFile) Size() int64         { return f.size }
func (f fakeFile) ContentType() string { return f.contentType }
func (f fakeFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

func image2MiB(name string) FileHandle {
	return fakeFile{name: name, contentType: "image/jpeg", size: 2 * mib, data: []byte("jpeg " + name)}
}

// countingProvider hands out sequential tokens and tracks releases
type countingProvider struct {
	next     int
	live     map[string]bool
	released []string
}

func newCountingProvider() *countingProvider {
	return &countingProvider{live: make(map[string]bool)}
}

func (c *countingProvider) Create(item Item) (Preview, error) {
	c.next++
	token := fmt.Sprintf("%s#%d", item.Name, c.next)
	c.live[token] = true
	return Preview{ItemID: item.ID, Token: token, URL: "blob:" + token}, nil
}

func (c *countingProvider) Release(p Preview) {
	delete(c.live, p.Token)
	c.released = append(c.released, p.Token)
}

func TestAddFiles_ThreeImagesAndOversizedVideo(t *testing.T) {
	sel := NewSelection()

	result := sel.AddFiles([]FileHandle{
		image2MiB("a.jpg"),
		image2MiB("b.jpg"),
		image2MiB("c.jpg"),
		fakeFile{name: "tour.mp4", contentType: "video/mp4", size: 60 * mib},
	})

	assert.Equal(t, 3, sel.Len())
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "tour.mp4", result.Rejected[0].Name)
	assert.ErrorIs(t, result.Rejected[0], ErrFileTooLarge)
	assert.Empty(t, result.Dropped)
}

func TestAddFiles_LengthIsCappedAtMax(t *testing.T) {
	tests := []struct {
		name     string
		previous int
		added    int
	}{
		{"empty plus few", 0, 4},
		{"fills exactly", 6, 4},
		{"overflow drops tail", 7, 6},
		{"already full", 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection()
			for i := 0; i < tt.previous; i++ {
				sel.AddFiles([]FileHandle{image2MiB("old.jpg")})
			}
			before := sel.Items()

			var batch []FileHandle
			for i := 0; i < tt.added; i++ {
				batch = append(batch, image2MiB("new.jpg"))
			}
			result := sel.AddFiles(batch)

			want := min(MaxItems, tt.previous+tt.added)
			assert.Equal(t, want, sel.Len())
			assert.Len(t, result.Dropped, tt.previous+tt.added-want)
			assert.Empty(t, result.Rejected)
			// older items are never displaced
			assert.Equal(t, before, sel.Items()[:tt.previous])
			for _, item := range sel.Items() {
				assert.LessOrEqual(t, item.SizeBytes, item.Kind.Limit())
			}
		})
	}
}

func TestAddFiles_RejectsByTypeAndSize(t *testing.T) {
	tests := []struct {
		name    string
		file    FileHandle
		wantErr error
	}{
		{"pdf", fakeFile{name: "a.pdf", contentType: "application/pdf", size: 10}, ErrUnsupportedType},
		{"no type", fakeFile{name: "blob", size: 10}, ErrUnsupportedType},
		{"bare image prefix", fakeFile{name: "x", contentType: "image/", size: 10}, ErrUnsupportedType},
		{"image over limit", fakeFile{name: "big.png", contentType: "image/png", size: MaxImageSize + 1}, ErrFileTooLarge},
		{"video over limit", fakeFile{name: "big.mov", contentType: "video/quicktime", size: MaxVideoSize + 1}, ErrFileTooLarge},
		{"image at limit", fakeFile{name: "ok.png", contentType: "image/png", size: MaxImageSize}, nil},
		{"video at limit", fakeFile{name: "ok.mp4", contentType: "video/mp4", size: MaxVideoSize}, nil},
		{"type with params", fakeFile{name: "p.svg", contentType: "Image/SVG+XML; charset=utf-8", size: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewSelection()
			result := sel.AddFiles([]FileHandle{tt.file})
			if tt.wantErr == nil {
				assert.Empty(t, result.Rejected)
				assert.Equal(t, 1, sel.Len())
				return
			}
			require.Len(t, result.Rejected, 1)
			assert.ErrorIs(t, result.Rejected[0], tt.wantErr)
			assert.Equal(t, 0, sel.Len())
		})
	}
}

func TestRemoveAt(t *testing.T) {
	sel := NewSelection()
	sel.AddFiles([]FileHandle{image2MiB("a.jpg"), image2MiB("b.jpg"), image2MiB("c.jpg")})
	before := sel.Items()

	_, err := sel.RemoveAt(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = sel.RemoveAt(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, before, sel.Items())

	removed, err := sel.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", removed.Name)
	assert.Equal(t, []uuid.UUID{before[0].ID, before[2].ID}, ids(sel.Items()))

	primary, ok := sel.Primary()
	assert.True(t, ok)
	assert.Equal(t, "a.jpg", primary.Name)
}

func ids(items []Item) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestPreviews_OnePerItem(t *testing.T) {
	provider := newCountingProvider()
	previews := NewPreviews(provider)
	sel := NewSelection()

	sel.AddFiles([]FileHandle{image2MiB("a.jpg"), image2MiB("b.jpg")})
	require.NoError(t, previews.Derive(sel))
	assert.Equal(t, sel.Len(), previews.Live())
	assert.Len(t, provider.live, 2)

	// idempotent for the same selection
	require.NoError(t, previews.Derive(sel))
	assert.Len(t, provider.live, 2)
	assert.Empty(t, provider.released)

	sel.AddFiles([]FileHandle{image2MiB("c.jpg")})
	require.NoError(t, previews.Derive(sel))
	assert.Equal(t, 3, previews.Live())
	assert.Len(t, provider.live, 3)
}

func TestPreviews_RemoveKeepsOtherHandles(t *testing.T) {
	provider := newCountingProvider()
	previews := NewPreviews(provider)
	sel := NewSelection()
	sel.AddFiles([]FileHandle{image2MiB("a.jpg"), image2MiB("b.jpg"), image2MiB("c.jpg"), image2MiB("d.jpg")})
	require.NoError(t, previews.Derive(sel))
	before := previews.For(sel)

	_, err := sel.RemoveAt(1)
	require.NoError(t, err)
	require.NoError(t, previews.Derive(sel))
	after := previews.For(sel)

	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, before[2], after[1])
	assert.Equal(t, before[3], after[2])
	assert.Equal(t, []string{before[1].Token}, provider.released)
	assert.Len(t, provider.live, 3)
}

func TestPreviews_ReleaseAllLeavesNothingLive(t *testing.T) {
	provider := NewMemoryPreviews("/previews/")
	previews := NewPreviews(provider)
	sel := NewSelection()
	sel.AddFiles([]FileHandle{image2MiB("a.jpg"), image2MiB("b.jpg")})
	require.NoError(t, previews.Derive(sel))
	assert.Equal(t, 2, provider.Live())

	sel.Reset()
	require.NoError(t, previews.Derive(sel))
	assert.Equal(t, 0, provider.Live())

	sel.AddFiles([]FileHandle{image2MiB("c.jpg")})
	require.NoError(t, previews.Derive(sel))
	previews.ReleaseAll()
	assert.Equal(t, 0, provider.Live())
	assert.Equal(t, 0, previews.Live())
}

func TestMemoryPreviews_ImageThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 400))
	for x := 0; x < 600; x++ {
		img.Set(x, x%400, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	sel := NewSelection()
	sel.AddFiles([]FileHandle{fakeFile{name: "room.png", contentType: "image/png", size: int64(buf.Len()), data: buf.Bytes()}})
	item, _ := sel.Primary()

	provider := NewMemoryPreviews("/previews/")
	preview, err := provider.Create(item)
	require.NoError(t, err)
	assert.Equal(t, "/previews/"+preview.Token, preview.URL)
	assert.Equal(t, "image/jpeg", preview.ContentType)

	data, contentType, ok := provider.Lookup(preview.Token)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", contentType)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, 300)
	assert.LessOrEqual(t, cfg.Height, 300)

	provider.Release(preview)
	_, _, ok = provider.Lookup(preview.Token)
	assert.False(t, ok)
}

func TestMemoryPreviews_VideoKeepsBytes(t *testing.T) {
	sel := NewSelection()
	sel.AddFiles([]FileHandle{fakeFile{name: "tour.mp4", contentType: "video/mp4", size: 5, data: []byte("video")}})
	item, _ := sel.Primary()

	provider := NewMemoryPreviews("/previews/")
	preview, err := provider.Create(item)
	require.NoError(t, err)

	data, contentType, ok := provider.Lookup(preview.Token)
	require.True(t, ok)
	assert.Equal(t, "video/mp4", contentType)
	assert.Equal(t, []byte("video"), data)
}

func TestOpenFileAndSpool(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	path := filepath.Join(dir, "room.bin")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	handle, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "room.bin", handle.Name())
	assert.Equal(t, "image/png", handle.ContentType())
	assert.Equal(t, int64(buf.Len()), handle.Size())

	spoolDir := t.TempDir()
	spooled, err := Spool(spoolDir, handle)
	require.NoError(t, err)
	assert.Equal(t, handle.Name(), spooled.Name())
	assert.Equal(t, handle.ContentType(), spooled.ContentType())
	assert.Equal(t, handle.Size(), spooled.Size())

	rc, err := spooled.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), data)

	_, err = OpenFile(dir)
	assert.Error(t, err)
}

func TestItemCleanup(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	path := filepath.Join(dir, "room.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	original, err := OpenFile(path)
	require.NoError(t, err)
	spooled, err := Spool(t.TempDir(), original)
	require.NoError(t, err)

	s := NewSelection()
	result := s.AddFiles([]FileHandle{original, spooled})
	require.Len(t, result.Accepted, 2)

	for _, item := range result.Accepted {
		require.NoError(t, item.Cleanup())
	}
	assert.FileExists(t, path)
	_, err = spooled.Open()
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, result.Accepted[1].Cleanup())
	assert.NoError(t, Item{Name: "empty"}.Cleanup())
}
