package models

import (
	"encoding/json"
	"time"
)

// Room is the server's representation of a listed room
type Room struct {
	ID                string    `json:"_id" yaml:"id"`
	Owner             string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Title             string    `json:"roomTitle" yaml:"roomTitle"`
	Location          string    `json:"location" yaml:"location"`
	Price             float64   `json:"price" yaml:"price"`
	Type              string    `json:"type" yaml:"type"`
	Amenities         []string  `json:"amenities" yaml:"amenities"`
	Beds              int       `json:"beds" yaml:"beds"`
	Bathrooms         int       `json:"bathrooms" yaml:"bathrooms"`
	Description       string    `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerRequirements string    `json:"ownerRequirements,omitempty" yaml:"ownerRequirements,omitempty"`
	ContactNumber     string    `json:"contactNumber" yaml:"contactNumber"`
	OwnerName         string    `json:"ownerName" yaml:"ownerName"`
	Images            []string  `json:"images" yaml:"images"` // server-relative or absolute URLs
	CreatedAt         time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id", and an owner given either as an
// id or as a populated user object.
func (r *Room) UnmarshalJSON(data []byte) error {
	type plain Room
	var aux struct {
		plain
		AltID string          `json:"id"`
		Owner json.RawMessage `json:"owner"`
		User  json.RawMessage `json:"userId"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = Room(aux.plain)
	if r.ID == "" {
		r.ID = aux.AltID
	}
	r.Owner = ownerID(aux.Owner)
	if r.Owner == "" {
		r.Owner = ownerID(aux.User)
	}
	return nil
}

func ownerID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var user User
	if err := json.Unmarshal(raw, &user); err == nil {
		return user.ID
	}
	return ""
}

// PrimaryImage returns the first media URL, which listings show as the cover
func (r Room) PrimaryImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

// User represents the signed-in account
type User struct {
	ID             string `json:"_id" yaml:"id"`
	FirstName      string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Name           string `json:"name,omitempty" yaml:"name,omitempty"`
	Email          string `json:"email" yaml:"email"`
	UserType       string `json:"userType,omitempty" yaml:"userType,omitempty"` // "host" or "user"
	Role           string `json:"role,omitempty" yaml:"role,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty" yaml:"profilePicture,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id"
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// DisplayName falls back from the full name to first/last name to the email
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.FirstName != "" || u.LastName != "":
		if u.LastName == "" {
			return u.FirstName
		}
		if u.FirstName == "" {
			return u.LastName
		}
		return u.FirstName + " " + u.LastName
	case u.Email != "":
		return u.Email
	}
	return "Guest User"
}
