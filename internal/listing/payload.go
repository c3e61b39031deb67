package listing

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

// Payload is a multipart/form-data body for creating a room. It is a
// read-only snapshot of the draft taken when it was built; media content is
// streamed from the selected files when the payload is written.
type Payload struct {
	boundary  string
	values    []FieldValue
	amenities []string
	items     []media.Item
}

// BuildSubmissionPayload validates the draft and snapshots it for upload.
// Amenities are sent as one JSON-encoded array part; media as repeated
// "images" file parts in selection order.
func BuildSubmissionPayload(d *RoomDraft) (*Payload, error) {
	if verr := d.Validate(); verr != nil {
		return nil, verr
	}

	var items []media.Item
	if d.Media != nil {
		items = d.Media.Items()
	}

	return &Payload{
		boundary:  multipart.NewWriter(io.Discard).Boundary(),
		values:    d.Values(),
		amenities: d.Amenities(),
		items:     items,
	}, nil
}

func (p *Payload) ContentType() string {
	return "multipart/form-data; boundary=" + p.boundary
}

// MediaCount is the number of file parts the payload carries
func (p *Payload) MediaCount() int {
	return len(p.items)
}

// WriteTo encodes the payload. It can be called more than once, e.g. when a
// request is retried.
func (p *Payload) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	mw := multipart.NewWriter(cw)
	if err := mw.SetBoundary(p.boundary); err != nil {
		return cw.n, err
	}

	for _, v := range p.values {
		if err := mw.WriteField(v.Name, v.Value); err != nil {
			return cw.n, fmt.Errorf("failed to write %s: %w", v.Name, err)
		}
	}

	amenities, err := json.Marshal(p.amenities)
	if err != nil {
		return cw.n, fmt.Errorf("failed to encode amenities: %w", err)
	}
	if err := mw.WriteField(FieldAmenities, string(amenities)); err != nil {
		return cw.n, fmt.Errorf("failed to write amenities: %w", err)
	}

	for _, item := range p.items {
		if err := writeItem(mw, item); err != nil {
			return cw.n, err
		}
	}

	if err := mw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeItem(mw *multipart.Writer, item media.Item) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldImages, quoteEscaper.Replace(item.Name)))
	header.Set("Content-Type", item.MimeType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", item.Name, err)
	}

	src, err := item.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", item.Name, err)
	}
	defer src.Close()

	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", item.Name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}

// DecodedFile is one file part read back from a payload
type DecodedFile struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// DecodedPayload is a multipart room submission read back into its parts
type DecodedPayload struct {
	Fields    map[string]string
	Amenities []string
	Files     []DecodedFile
}

// DecodePayload parses a room submission body. The amenities part is
// decoded from its JSON array form.
func DecodePayload(contentType string, body io.Reader) (*DecodedPayload, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("invalid content type: %w", err)
	}
	if mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("unexpected content type %s", mediaType)
	}

	decoded := &DecodedPayload{Fields: make(map[string]string)}
	reader := multipart.NewReader(body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read part: %w", err)
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read part %s: %w", part.FormName(), err)
		}

		if part.FileName() != "" {
			decoded.Files = append(decoded.Files, DecodedFile{
				Field:       part.FormName(),
				Name:        part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			})
			continue
		}

		if part.FormName() == FieldAmenities {
			if err := json.Unmarshal(data, &decoded.Amenities); err != nil {
				return nil, fmt.Errorf("invalid amenities: %w", err)
			}
			continue
		}
		decoded.Fields[part.FormName()] = string(data)
	}

	return decoded, nil
}
