package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/agenda/internal/core/domain"
)

// maxImportCount bounds a single import_contacts call.
const maxImportCount = 100

// ContactOutput is a contact as returned by the tools.
type ContactOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
	CallURL    string `json:"call_url,omitempty"`
	MessageURL string `json:"message_url,omitempty"`
}

// ListContactsInput is the input schema for the list_contacts tool.
type ListContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"case-insensitive filter on name, email or phone"`
}

// ContactsOutput is the output schema for tools returning several contacts.
type ContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

// GetContactInput is the input schema for the get_contact tool.
type GetContactInput struct {
	ID string `json:"id" jsonschema:"the contact id"`
}

// ImportContactsInput is the input schema for the import_contacts tool.
type ImportContactsInput struct {
	Count int `json:"count,omitempty" jsonschema:"number of random contacts to import (default 10, max 100)"`
}

// UpdateContactInput is the input schema for the update_contact tool.
// Omitted fields keep their current value.
type UpdateContactInput struct {
	ID    string  `json:"id" jsonschema:"the contact id"`
	Name  *string `json:"name,omitempty" jsonschema:"new display name"`
	Phone *string `json:"phone,omitempty" jsonschema:"new phone number"`
	Email *string `json:"email,omitempty" jsonschema:"new email address"`
}

// DeleteContactInput is the input schema for the delete_contact tool.
type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"the contact id"`
}

// DeleteContactOutput is the output schema for the delete_contact tool.
type DeleteContactOutput struct {
	Deleted string `json:"deleted"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_contacts",
		Description: "List contacts in the address book, ordered by name",
	}, s.handleListContacts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_contact",
		Description: "Get a single contact with its call and WhatsApp links",
	}, s.handleGetContact)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "import_contacts",
		Description: "Import random sample contacts from the configured service",
	}, s.handleImportContacts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_contact",
		Description: "Change the name, phone or email of a contact",
	}, s.handleUpdateContact)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a contact from the address book",
	}, s.handleDeleteContact)
}

// handleListContacts handles the list_contacts tool invocation.
func (s *Server) handleListContacts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListContactsInput,
) (*mcp.CallToolResult, ContactsOutput, error) {
	contacts, err := s.ports.Contacts.List(ctx)
	if err != nil {
		return nil, ContactsOutput{}, err
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	output := ContactsOutput{Contacts: []ContactOutput{}}
	for i := range contacts {
		if query != "" && !matches(&contacts[i], query) {
			continue
		}
		output.Contacts = append(output.Contacts, s.toOutput(contacts[i]))
	}
	output.Count = len(output.Contacts)

	return nil, output, nil
}

// handleGetContact handles the get_contact tool invocation.
func (s *Server) handleGetContact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetContactInput,
) (*mcp.CallToolResult, ContactOutput, error) {
	contact, err := s.lookup(ctx, input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	return nil, s.toOutput(*contact), nil
}

// handleImportContacts handles the import_contacts tool invocation.
func (s *Server) handleImportContacts(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ImportContactsInput,
) (*mcp.CallToolResult, ContactsOutput, error) {
	count := input.Count
	if count <= 0 {
		count = domain.DefaultImportCount
	}
	if count > maxImportCount {
		return nil, ContactsOutput{}, fmt.Errorf("%w: count must be at most %d", domain.ErrInvalidInput, maxImportCount)
	}

	imported, err := s.ports.Contacts.Import(ctx, count)
	if err != nil {
		return nil, ContactsOutput{}, fmt.Errorf("import failed: %w", err)
	}

	output := ContactsOutput{
		Contacts: make([]ContactOutput, len(imported)),
		Count:    len(imported),
	}
	for i := range imported {
		output.Contacts[i] = s.toOutput(imported[i])
	}
	return nil, output, nil
}

// handleUpdateContact handles the update_contact tool invocation.
func (s *Server) handleUpdateContact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UpdateContactInput,
) (*mcp.CallToolResult, ContactOutput, error) {
	if input.Name == nil && input.Phone == nil && input.Email == nil {
		return nil, ContactOutput{}, fmt.Errorf("%w: nothing to change", domain.ErrInvalidInput)
	}

	contact, err := s.lookup(ctx, input.ID)
	if err != nil {
		return nil, ContactOutput{}, err
	}
	if input.Name != nil {
		contact.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		contact.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		contact.Email = strings.TrimSpace(*input.Email)
	}
	if err := contact.Validate(); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("%w: name must not be empty", err)
	}

	if err := s.ports.Contacts.Update(ctx, *contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("update failed: %w", err)
	}
	return nil, s.toOutput(*contact), nil
}

// handleDeleteContact handles the delete_contact tool invocation.
func (s *Server) handleDeleteContact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteContactInput,
) (*mcp.CallToolResult, DeleteContactOutput, error) {
	contact, err := s.lookup(ctx, input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, err
	}
	if err := s.ports.Contacts.Delete(ctx, *contact); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("delete failed: %w", err)
	}
	return nil, DeleteContactOutput{Deleted: contact.ID}, nil
}

func (s *Server) lookup(ctx context.Context, id string) (*domain.Contact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	contact, err := s.ports.Contacts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("contact %s not found", id)
		}
		return nil, err
	}
	return contact, nil
}

// toOutput converts a contact, adding action links when available.
func (s *Server) toOutput(c domain.Contact) ContactOutput {
	out := ContactOutput{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		PictureURL: c.PictureURL,
	}
	if s.ports.Actions != nil {
		// Contacts without a phone number simply have no links.
		if link, err := s.ports.Actions.CallURL(c); err == nil {
			out.CallURL = link
		}
		if link, err := s.ports.Actions.MessageURL(c); err == nil {
			out.MessageURL = link
		}
	}
	return out
}

func matches(c *domain.Contact, query string) bool {
	return strings.Contains(strings.ToLower(c.Name), query) ||
		strings.Contains(strings.ToLower(c.Email), query) ||
		strings.Contains(c.Phone, query)
}
