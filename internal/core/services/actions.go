package services

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/agenda/internal/core/domain"
	"github.com/custodia-labs/agenda/internal/core/ports/driven"
	"github.com/custodia-labs/agenda/internal/core/ports/driving"
	"github.com/custodia-labs/agenda/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// whatsAppSendURL is the click-to-chat endpoint.
const whatsAppSendURL = "https://api.whatsapp.com/send"

// Ensure ContactActionService implements the interface.
var _ driving.ContactActionService = (*ContactActionService)(nil)

// Ensure SystemOpener implements the interface.
var _ driven.URLOpener = SystemOpener{}

// ContactActionService starts calls and chats with contacts.
type ContactActionService struct {
	opener driven.URLOpener
}

// NewContactActionService creates a new contact action service.
// A nil opener uses the operating system's URL handler.
func NewContactActionService(opener driven.URLOpener) *ContactActionService {
	if opener == nil {
		opener = SystemOpener{}
	}
	return &ContactActionService{opener: opener}
}

// Call opens the system dialer for the contact.
func (s *ContactActionService) Call(ctx context.Context, contact domain.Contact) error {
	link, err := s.CallURL(contact)
	if err != nil {
		return err
	}
	logger.Debug("opening dialer for %s", contact.ID)
	return s.opener.Open(ctx, link)
}

// Message opens a WhatsApp chat with the contact.
func (s *ContactActionService) Message(ctx context.Context, contact domain.Contact) error {
	link, err := s.MessageURL(contact)
	if err != nil {
		return err
	}
	logger.Debug("opening whatsapp for %s", contact.ID)
	return s.opener.Open(ctx, link)
}

// CallURL returns the tel: link for the contact.
func (s *ContactActionService) CallURL(contact domain.Contact) (string, error) {
	digits := contact.DialDigits()
	if digits == "" || digits == "+" {
		return "", fmt.Errorf("%w: contact %q has no phone number", domain.ErrInvalidInput, contact.Name)
	}
	return "tel:" + digits, nil
}

// MessageURL returns the WhatsApp click-to-chat link for the contact.
func (s *ContactActionService) MessageURL(contact domain.Contact) (string, error) {
	digits := strings.TrimPrefix(contact.DialDigits(), "+")
	if digits == "" {
		return "", fmt.Errorf("%w: contact %q has no phone number", domain.ErrInvalidInput, contact.Name)
	}
	return whatsAppSendURL + "?" + url.Values{"phone": {digits}}.Encode(), nil
}

// SystemOpener opens URLs with the platform's default handler.
type SystemOpener struct{}

// Open starts the handler for link without waiting for it to exit.
func (SystemOpener) Open(_ context.Context, link string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", link)
	case osLinux:
		cmd = exec.Command("xdg-open", link)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
