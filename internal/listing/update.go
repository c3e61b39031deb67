package listing

import (
	"regexp"
	"strings"
)

// RoomUpdate is the JSON body of an edit. Only non-nil fields are sent and
// validated.
type RoomUpdate struct {
	Title             *string  `json:"roomTitle,omitempty"`
	Location          *string  `json:"location,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	Type              *string  `json:"type,omitempty"`
	Beds              *int     `json:"beds,omitempty"`
	Bathrooms         *int     `json:"bathrooms,omitempty"`
	Description       *string  `json:"description,omitempty"`
	OwnerRequirements *string  `json:"ownerRequirements,omitempty"`
	ContactNumber     *string  `json:"contactNumber,omitempty"`
	OwnerName         *string  `json:"ownerName,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
}

// Empty reports whether the update changes nothing
func (u RoomUpdate) Empty() bool {
	return u.Title == nil && u.Location == nil && u.Price == nil && u.Type == nil &&
		u.Beds == nil && u.Bathrooms == nil && u.Description == nil &&
		u.OwnerRequirements == nil && u.ContactNumber == nil && u.OwnerName == nil &&
		u.Amenities == nil
}

// Validate applies the add-room rules to the fields present in the update
func (u RoomUpdate) Validate() *ValidationError {
	verr := &ValidationError{}

	checkOptional(verr, FieldTitle, u.Title, titlePattern, "Title is required", "Only letters and numbers allowed")
	checkOptional(verr, FieldLocation, u.Location, locationPattern, "Location is required", "Letters, numbers and commas only")
	checkOptional(verr, FieldOwnerName, u.OwnerName, ownerNamePattern, "Owner Name is required", "Only letters allowed")
	if u.Price != nil {
		checkPrice(verr, *u.Price)
	}
	if u.Type != nil {
		checkType(verr, *u.Type)
	}
	if u.Beds != nil {
		checkCount(verr, FieldBeds, *u.Beds, "At least 1 bed required")
	}
	if u.Bathrooms != nil {
		checkCount(verr, FieldBathrooms, *u.Bathrooms, "At least 1 bathroom required")
	}
	if u.ContactNumber != nil {
		checkContact(verr, *u.ContactNumber)
	}
	if u.Amenities != nil {
		checkAmenities(verr, u.Amenities)
	}

	return verr.OrNil()
}

// Normalize trims free-text fields the same way a submission does
func (u RoomUpdate) Normalize() RoomUpdate {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		v := strings.TrimSpace(*s)
		return &v
	}
	u.Title = trim(u.Title)
	u.Location = trim(u.Location)
	u.Description = trim(u.Description)
	u.OwnerRequirements = trim(u.OwnerRequirements)
	u.OwnerName = trim(u.OwnerName)
	return u
}

func checkOptional(verr *ValidationError, field string, value *string, pattern *regexp.Regexp, required, invalid string) {
	if value != nil {
		checkText(verr, field, *value, pattern, required, invalid)
	}
}
