package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/media"
	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

// Fetcher downloads the media of listed rooms
type Fetcher struct {
	HTTPClient *http.Client
	// Delay is the pause between two downloads from the same server
	Delay time.Duration
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		Delay: 250 * time.Millisecond,
	}
}

// Download is the outcome for one media URL of a room
type Download struct {
	URL  string `json:"url"`
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`
}

// FetchRoomMedia saves every media file of the room into outputDir as
// <roomID>_<n><ext>. Relative URLs are resolved against serverBase. A
// failed file does not stop the others; an error is returned only when
// nothing could be saved.
func (f *Fetcher) FetchRoomMedia(ctx context.Context, serverBase string, room models.Room, outputDir string) ([]Download, error) {
	if len(room.Images) == 0 {
		return nil, fmt.Errorf("room %s has no media", room.ID)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	downloads := make([]Download, 0, len(room.Images))
	saved := 0
	for i, ref := range room.Images {
		if i > 0 && f.Delay > 0 {
			select {
			case <-ctx.Done():
				return downloads, ctx.Err()
			case <-time.After(f.Delay):
			}
		}

		d := Download{URL: api.ResolveImageURL(serverBase, ref)}
		base := filepath.Join(outputDir, fmt.Sprintf("%s_%d", safeName(room.ID), i+1))
		d.Path, d.Err = f.download(ctx, d.URL, base)
		if d.Err != nil {
			slog.Warn("Failed to download room media", "room", room.ID, "url", d.URL, "error", d.Err)
			d.Path = ""
		} else {
			saved++
			slog.Debug("Downloaded room media", "room", room.ID, "path", d.Path)
		}
		downloads = append(downloads, d)
	}

	if saved == 0 {
		return downloads, fmt.Errorf("no media could be downloaded for room %s", room.ID)
	}
	return downloads, nil
}

// download writes one URL to basePath plus an extension picked from the
// response. Only images and videos within the upload limits are kept.
func (f *Fetcher) download(ctx context.Context, url, basePath string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("media URL returned status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	kind, err := media.Classify(contentType)
	if err != nil {
		return "", fmt.Errorf("unexpected content type %q: %w", contentType, err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, kind.Limit()+1))
	if err != nil {
		return "", fmt.Errorf("failed to read media data: %w", err)
	}
	if int64(len(data)) > kind.Limit() {
		return "", media.ErrFileTooLarge
	}

	outputPath := basePath + extension(contentType, url)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return outputPath, nil
}

func extension(contentType, url string) string {
	if ext := path.Ext(strings.SplitN(url, "?", 2)[0]); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "video/mp4":
		return ".mp4"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func safeName(id string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == '.' {
			return '_'
		}
		return r
	}, id)
}
