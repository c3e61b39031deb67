package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("only images and videos are allowed")
	ErrFileTooLarge    = errors.New("file too large")
	ErrIndexOutOfRange = errors.New("index out of range")
)

const (
	MaxImageSize = 5 * 1024 * 1024  // 5 MiB
	MaxVideoSize = 50 * 1024 * 1024 // 50 MiB
	MaxItems     = 10
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Limit is the largest accepted size for the kind
func (k Kind) Limit() int64 {
	switch k {
	case KindImage:
		return MaxImageSize
	case KindVideo:
		return MaxVideoSize
	}
	return 0
}

// Item is one validated file pending upload. ID is assigned at intake and
// stays stable while the item moves within the selection.
type Item struct {
	ID        uuid.UUID
	Name      string
	SizeBytes int64
	MimeType  string
	Kind      Kind

	handle FileHandle
}

// Open returns the raw content of the selected file
func (i Item) Open() (io.ReadCloser, error) {
	if i.handle == nil {
		return nil, fmt.Errorf("media item %s has no content", i.Name)
	}
	return i.handle.Open()
}

// Cleanup deletes the item's spooled copy. Files the item was opened from
// directly are left alone.
func (i Item) Cleanup() error {
	if f, ok := i.handle.(*spooledFile); ok {
		return f.remove()
	}
	return nil
}

// Rejection reports why a candidate file did not enter the selection
type Rejection struct {
	Name string
	Err  error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.Name, r.Err)
}

func (r Rejection) Unwrap() error { return r.Err }

// Classify maps a MIME type onto a media kind, ignoring parameters and case
func Classify(contentType string) (Kind, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	switch {
	case strings.HasPrefix(mediaType, "image/") && len(mediaType) > len("image/"):
		return KindImage, nil
	case strings.HasPrefix(mediaType, "video/") && len(mediaType) > len("video/"):
		return KindVideo, nil
	}
	return "", ErrUnsupportedType
}

// Validate checks a candidate against the type and size limits and returns
// the item it would become.
func Validate(h FileHandle) (Item, error) {
	kind, err := Classify(h.ContentType())
	if err != nil {
		return Item{}, err
	}

	size := h.Size()
	if size < 0 {
		return Item{}, fmt.Errorf("invalid size %d", size)
	}
	if size > kind.Limit() {
		return Item{}, fmt.Errorf("%w: %s files must be at most %d MB", ErrFileTooLarge, kind, kind.Limit()/(1024*1024))
	}

	mediaType, _, err := mime.ParseMediaType(h.ContentType())
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(h.ContentType()))
	}

	return Item{
		ID:        uuid.New(),
		Name:      h.Name(),
		SizeBytes: size,
		MimeType:  mediaType,
		Kind:      kind,
		handle:    h,
	}, nil
}
