package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/SUMITRAUTHAN09/rosca/internal/models"
)

type Format string

const (
	FormatYAML    Format = "yaml"
	FormatParquet Format = "parquet"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

// Snapshot is a point-in-time copy of a room list
type Snapshot struct {
	ExportedAt time.Time     `yaml:"exported_at"`
	Source     string        `yaml:"source"`
	Owner      string        `yaml:"owner,omitempty"`
	Count      int           `yaml:"count"`
	Rooms      []models.Room `yaml:"rooms"`
}

func NewSnapshot(source, owner string, rooms []models.Room) Snapshot {
	return Snapshot{
		ExportedAt: time.Now().UTC().Truncate(time.Second),
		Source:     source,
		Owner:      owner,
		Count:      len(rooms),
		Rooms:      rooms,
	}
}

// RoomRecord is the flat row written to Parquet
type RoomRecord struct {
	ID                string   `parquet:"id"`
	Owner             string   `parquet:"owner"`
	Title             string   `parquet:"room_title"`
	Location          string   `parquet:"location"`
	Price             float64  `parquet:"price"`
	Type              string   `parquet:"type"`
	Amenities         []string `parquet:"amenities,list"`
	Beds              int64    `parquet:"beds"`
	Bathrooms         int64    `parquet:"bathrooms"`
	Description       string   `parquet:"description"`
	OwnerRequirements string   `parquet:"owner_requirements"`
	ContactNumber     string   `parquet:"contact_number"`
	OwnerName         string   `parquet:"owner_name"`
	Images            []string `parquet:"images,list"`
	CreatedAtMillis   int64    `parquet:"created_at_ms"`
	UpdatedAtMillis   int64    `parquet:"updated_at_ms"`
}

func toRecord(r models.Room) RoomRecord {
	return RoomRecord{
		ID:                r.ID,
		Owner:             r.Owner,
		Title:             r.Title,
		Location:          r.Location,
		Price:             r.Price,
		Type:              r.Type,
		Amenities:         r.Amenities,
		Beds:              int64(r.Beds),
		Bathrooms:         int64(r.Bathrooms),
		Description:       r.Description,
		OwnerRequirements: r.OwnerRequirements,
		ContactNumber:     r.ContactNumber,
		OwnerName:         r.OwnerName,
		Images:            r.Images,
		CreatedAtMillis:   millis(r.CreatedAt),
		UpdatedAtMillis:   millis(r.UpdatedAt),
	}
}

func (rec RoomRecord) Room() models.Room {
	return models.Room{
		ID:                rec.ID,
		Owner:             rec.Owner,
		Title:             rec.Title,
		Location:          rec.Location,
		Price:             rec.Price,
		Type:              rec.Type,
		Amenities:         rec.Amenities,
		Beds:              int(rec.Beds),
		Bathrooms:         int(rec.Bathrooms),
		Description:       rec.Description,
		OwnerRequirements: rec.OwnerRequirements,
		ContactNumber:     rec.ContactNumber,
		OwnerName:         rec.OwnerName,
		Images:            rec.Images,
		CreatedAt:         fromMillis(rec.CreatedAtMillis),
		UpdatedAt:         fromMillis(rec.UpdatedAtMillis),
	}
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func WriteYAML(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&snap); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}

func WriteParquet(w io.Writer, rooms []models.Room) error {
	records := make([]RoomRecord, 0, len(rooms))
	for _, r := range rooms {
		records = append(records, toRecord(r))
	}

	writer := parquet.NewGenericWriter[RoomRecord](w)
	if _, err := writer.Write(records); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot in the format implied by path
func WriteFile(path string, snap Snapshot) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatParquet:
		err = WriteParquet(file, snap.Rooms)
	default:
		err = WriteYAML(file, snap)
	}
	if err != nil {
		return err
	}

	slog.Info("Rooms exported", "path", path, "format", format, "rooms", len(snap.Rooms))
	return file.Close()
}

// ReadFile loads the rooms from an export of either format
func ReadFile(path string) ([]models.Room, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		return ReadParquet(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read export file: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return snap.Rooms, nil
}

// ReadParquet reads rooms back from a Parquet export in batches
func ReadParquet(path string) ([]models.Room, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Parquet export opened", "path", path, "num_rows", pf.NumRows())

	reader := parquet.NewGenericReader[RoomRecord](pf)
	defer reader.Close()

	rooms := make([]models.Room, 0, pf.NumRows())
	batch := make([]RoomRecord, 64)
	for {
		n, err := reader.Read(batch)
		for _, rec := range batch[:n] {
			rooms = append(rooms, rec.Room())
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	return rooms, nil
}
