package driving

import (
	"context"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

// ContactActionService starts conversations with a contact.
// This is used by TUI and CLI adapters.
type ContactActionService interface {
	// Call opens the system dialer for the contact's phone number.
	Call(ctx context.Context, contact domain.Contact) error

	// Message opens a WhatsApp chat with the contact.
	Message(ctx context.Context, contact domain.Contact) error

	// CallURL returns the tel: link for the contact.
	CallURL(contact domain.Contact) (string, error)

	// MessageURL returns the WhatsApp link for the contact.
	MessageURL(contact domain.Contact) (string, error)
}
