package listing

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/SUMITRAUTHAN09/rosca/internal/media"
)

// Form field names, shared by the multipart payload, validation errors and
// the JSON update body.
const (
	FieldTitle             = "roomTitle"
	FieldLocation          = "location"
	FieldPrice             = "price"
	FieldType              = "type"
	FieldBeds              = "beds"
	FieldBathrooms         = "bathrooms"
	FieldDescription       = "description"
	FieldOwnerRequirements = "ownerRequirements"
	FieldContactNumber     = "contactNumber"
	FieldOwnerName         = "ownerName"
	FieldAmenities         = "amenities"
	FieldImages            = "images"
)

var RoomTypes = []string{
	"single room",
	"double room",
	"shared room",
	"flat",
	"apartments",
}

var AmenityOptions = []string{
	"wifi",
	"parking",
	"AC",
	"geysers",
	"tv",
	"fridge",
	"kitchen",
	"laundry",
}

// RoomDraft is the working state of the add-room form
type RoomDraft struct {
	Title             string
	Location          string
	Price             float64
	Type              string
	Beds              int
	Bathrooms         int
	Description       string
	OwnerRequirements string
	ContactNumber     string
	OwnerName         string

	amenities []string
	Media     *media.Selection
}

func NewDraft() *RoomDraft {
	return &RoomDraft{
		Beds:      1,
		Bathrooms: 1,
		Media:     media.NewSelection(),
	}
}

// Amenities returns the selected tags in the order they were picked
func (d *RoomDraft) Amenities() []string {
	return slices.Clone(d.amenities)
}

// AddAmenity adds a tag once; it reports whether the set changed
func (d *RoomDraft) AddAmenity(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(d.amenities, tag) {
		return false
	}
	d.amenities = append(d.amenities, tag)
	return true
}

func (d *RoomDraft) RemoveAmenity(tag string) bool {
	i := slices.Index(d.amenities, tag)
	if i < 0 {
		return false
	}
	d.amenities = slices.Delete(d.amenities, i, i+1)
	return true
}

// SetAmenities replaces the set, dropping duplicates
func (d *RoomDraft) SetAmenities(tags []string) {
	d.amenities = nil
	for _, tag := range tags {
		d.AddAmenity(tag)
	}
}

// ToggleAmenity mirrors a checkbox: checked adds, unchecked removes
func (d *RoomDraft) ToggleAmenity(tag string, checked bool) {
	if checked {
		d.AddAmenity(tag)
		return
	}
	d.RemoveAmenity(tag)
}

// Fields carries raw form input. Nil pointers leave the draft untouched;
// numbers arrive as text and are converted on Apply.
type Fields struct {
	Title             *string  `json:"roomTitle,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Price             *string  `json:"price,omitempty"`
	Type              *string  `json:"type,omitempty"`
	Beds              *string  `json:"beds,omitempty"`
	Bathrooms         *string  `json:"bathrooms,omitempty"`
	Description       *string  `json:"description,omitempty"`
	OwnerRequirements *string  `json:"ownerRequirements,omitempty"`
	ContactNumber     *string  `json:"contactNumber,omitempty"`
	OwnerName         *string  `json:"ownerName,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
}

// Apply copies the given fields into the draft. Numeric fields that do not
// parse are reported and keep their previous value.
func (d *RoomDraft) Apply(f Fields) *ValidationError {
	verr := &ValidationError{}

	setString(&d.Title, f.Title)
	setString(&d.Location, f.Location)
	setString(&d.Type, f.Type)
	setString(&d.Description, f.Description)
	setString(&d.OwnerRequirements, f.OwnerRequirements)
	setString(&d.ContactNumber, f.ContactNumber)
	setString(&d.OwnerName, f.OwnerName)

	if f.Price != nil {
		price, err := ParsePrice(*f.Price)
		if err != "" {
			verr.Add(FieldPrice, err)
		} else {
			d.Price = price
		}
	}
	if f.Beds != nil {
		beds, err := ParseCount(*f.Beds)
		if err != "" {
			verr.Add(FieldBeds, err)
		} else {
			d.Beds = beds
		}
	}
	if f.Bathrooms != nil {
		baths, err := ParseCount(*f.Bathrooms)
		if err != "" {
			verr.Add(FieldBathrooms, err)
		} else {
			d.Bathrooms = baths
		}
	}
	if f.Amenities != nil {
		d.SetAmenities(f.Amenities)
	}

	return verr.OrNil()
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ParsePrice reads a price field. A non-empty message means the input was
// rejected.
func ParsePrice(raw string) (float64, string) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, "Only numbers allowed"
	}
	return price, ""
}

func ParseCount(raw string) (int, string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, "Must be a number"
	}
	return n, ""
}

// Values returns the scalar fields as the text parts sent to the API, with
// free text trimmed.
func (d *RoomDraft) Values() []FieldValue {
	return []FieldValue{
		{FieldTitle, strings.TrimSpace(d.Title)},
		{FieldLocation, strings.TrimSpace(d.Location)},
		{FieldPrice, strconv.FormatFloat(d.Price, 'f', -1, 64)},
		{FieldType, d.Type},
		{FieldBeds, strconv.Itoa(d.Beds)},
		{FieldBathrooms, strconv.Itoa(d.Bathrooms)},
		{FieldDescription, strings.TrimSpace(d.Description)},
		{FieldOwnerRequirements, strings.TrimSpace(d.OwnerRequirements)},
		{FieldContactNumber, d.ContactNumber},
		{FieldOwnerName, strings.TrimSpace(d.OwnerName)},
	}
}

type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}
