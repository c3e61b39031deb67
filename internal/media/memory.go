package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const thumbnailSize = 300

type blob struct {
	contentType string
	data        []byte
}

// MemoryPreviews holds preview blobs in memory and addresses them by URL
// under baseURL. Decodable images are reduced to a thumbnail; everything
// else keeps its original bytes.
type MemoryPreviews struct {
	baseURL string
	blobs   map[string]blob
	mu      sync.RWMutex
}

func NewMemoryPreviews(baseURL string) *MemoryPreviews {
	return &MemoryPreviews{
		baseURL: baseURL,
		blobs:   make(map[string]blob),
	}
}

func (m *MemoryPreviews) Create(item Item) (Preview, error) {
	rc, err := item.Open()
	if err != nil {
		return Preview{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, item.Kind.Limit()+1))
	if err != nil {
		return Preview{}, fmt.Errorf("failed to read %s: %w", item.Name, err)
	}

	b := blob{contentType: item.MimeType, data: data}
	if item.Kind == KindImage {
		if thumb, err := thumbnail(data); err == nil {
			b = blob{contentType: "image/jpeg", data: thumb}
		}
	}

	token := uuid.NewString()
	m.mu.Lock()
	m.blobs[token] = b
	m.mu.Unlock()

	return Preview{
		ItemID:      item.ID,
		Token:       token,
		URL:         m.baseURL + token,
		ContentType: b.contentType,
	}, nil
}

func (m *MemoryPreviews) Release(p Preview) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, p.Token)
}

// Lookup returns the bytes of a live preview
func (m *MemoryPreviews) Lookup(token string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[token]
	return b.data, b.contentType, ok
}

// Live is the number of blobs not yet released
func (m *MemoryPreviews) Live() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}

func thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
