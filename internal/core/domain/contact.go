package domain

import (
	"strings"
	"unicode"
)

// Contact is a locally persisted address book entry.
// Identity is the ID, which the store assigns on creation.
type Contact struct {
	// ID is the opaque identifier assigned by the contact store.
	ID string

	// Name is the display name. Lists are ordered ascending by name.
	Name string

	// Email is the contact's email address.
	Email string

	// Phone is the phone number as entered or imported.
	Phone string

	// PictureURL points at the contact's avatar image.
	PictureURL string
}

// DialDigits returns the phone number reduced to digits, keeping a
// leading plus sign. Used when building tel: and WhatsApp links.
func (c *Contact) DialDigits() string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(c.Phone) {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the fields required for a stored contact.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidInput
	}
	return nil
}

// RemoteUser is a transient record produced by the remote contact source.
// It is only consumed by the import mapping and never persisted.
type RemoteUser struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	LargePictureURL string
}

// ToContact maps a remote record to a new, unsaved contact.
// The name is "first last" and the picture is the large image variant.
func (u RemoteUser) ToContact() Contact {
	return Contact{
		Name:       u.FirstName + " " + u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		PictureURL: u.LargePictureURL,
	}
}
