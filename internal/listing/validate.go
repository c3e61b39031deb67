package listing

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var (
	titlePattern     = regexp.MustCompile(`^[a-zA-Z0-9\s]+$`)
	locationPattern  = regexp.MustCompile(`^[a-zA-Z0-9\s,]+$`)
	ownerNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	contactPattern   = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidationError maps form fields to the message shown next to them
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records the first message for a field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Field returns the message for one field, or ""
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// OrNil returns nil when nothing was recorded, so callers can return it as
// an error without a typed-nil trap.
func (e *ValidationError) OrNil() *ValidationError {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Validate checks the draft the way the add-room form does before anything
// is sent. It returns nil when the draft can be submitted.
func (d *RoomDraft) Validate() *ValidationError {
	verr := &ValidationError{}

	checkText(verr, FieldTitle, d.Title, titlePattern, "Title is required", "Only letters and numbers allowed")
	checkText(verr, FieldLocation, d.Location, locationPattern, "Location is required", "Letters, numbers and commas only")
	checkPrice(verr, d.Price)
	checkType(verr, d.Type)
	checkAmenities(verr, d.amenities)
	checkContact(verr, d.ContactNumber)
	checkText(verr, FieldOwnerName, d.OwnerName, ownerNamePattern, "Owner Name is required", "Only letters allowed")
	checkCount(verr, FieldBeds, d.Beds, "At least 1 bed required")
	checkCount(verr, FieldBathrooms, d.Bathrooms, "At least 1 bathroom required")

	return verr.OrNil()
}

func checkText(verr *ValidationError, field, value string, pattern *regexp.Regexp, required, invalid string) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		verr.Add(field, required)
	case !pattern.MatchString(value):
		verr.Add(field, invalid)
	}
}

func checkPrice(verr *ValidationError, price float64) {
	switch {
	case math.IsNaN(price) || math.IsInf(price, 0):
		verr.Add(FieldPrice, "Only numbers allowed")
	case price < 0:
		verr.Add(FieldPrice, "Price cannot be negative")
	}
}

func checkType(verr *ValidationError, roomType string) {
	switch {
	case roomType == "":
		verr.Add(FieldType, "Room Type is required")
	case !slices.Contains(RoomTypes, roomType):
		verr.Add(FieldType, "Unknown room type")
	}
}

func checkAmenities(verr *ValidationError, amenities []string) {
	if len(amenities) == 0 {
		verr.Add(FieldAmenities, "Select at least one amenity")
		return
	}
	for _, tag := range amenities {
		if !slices.Contains(AmenityOptions, tag) {
			verr.Add(FieldAmenities, "Unknown amenity: "+tag)
			return
		}
	}
}

func checkContact(verr *ValidationError, contact string) {
	switch {
	case contact == "":
		verr.Add(FieldContactNumber, "Phone number is required")
	case !contactPattern.MatchString(contact):
		verr.Add(FieldContactNumber, "Must be 10 digits")
	}
}

func checkCount(verr *ValidationError, field string, n int, message string) {
	if n < 1 {
		verr.Add(field, message)
	}
}
