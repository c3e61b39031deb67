package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FileHandle is a user-selected file whose content is read once, at
// submission or preview time.
type FileHandle interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

type multipartFile struct {
	header *multipart.FileHeader
}

// FromMultipart wraps an uploaded form file. The content type is the one
// the browser declared for the part.
func FromMultipart(header *multipart.FileHeader) FileHandle {
	return &multipartFile{header: header}
}

func (f *multipartFile) Name() string        { return f.header.Filename }
func (f *multipartFile) Size() int64         { return f.header.Size }
func (f *multipartFile) ContentType() string { return f.header.Header.Get("Content-Type") }

func (f *multipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

type localFile struct {
	path        string
	name        string
	size        int64
	contentType string
}

// OpenFile describes a file on disk. The MIME type is sniffed from the first
// bytes and falls back to the extension when sniffing is inconclusive.
func OpenFile(path string) (FileHandle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &localFile{
		path:        path,
		name:        filepath.Base(path),
		size:        info.Size(),
		contentType: detectContentType(head[:n], path),
	}, nil
}

func detectContentType(head []byte, name string) string {
	sniffed := http.DetectContentType(head)
	if strings.HasPrefix(sniffed, "image/") || strings.HasPrefix(sniffed, "video/") {
		return sniffed
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return sniffed
}

func (f *localFile) Name() string        { return f.name }
func (f *localFile) Size() int64         { return f.size }
func (f *localFile) ContentType() string { return f.contentType }

func (f *localFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// spooledFile is a private copy made by Spool. Unlike a localFile it is
// owned by the selection and removed with the item.
type spooledFile struct {
	localFile
}

func (f *spooledFile) remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove spooled %s: %w", f.name, err)
	}
	return nil
}

// Spool copies the content of h into a new file under dir so it outlives
// the request that carried it. Name and content type are preserved.
func Spool(dir string, h FileHandle) (FileHandle, error) {
	src, err := h.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", h.Name(), err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(dir, "media-*"+filepath.Ext(h.Name()))
	if err != nil {
		return nil, fmt.Errorf("failed to create spool file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to spool %s: %w", h.Name(), err)
	}

	return &spooledFile{localFile{
		path:        dst.Name(),
		name:        h.Name(),
		size:        written,
		contentType: h.ContentType(),
	}}, nil
}
