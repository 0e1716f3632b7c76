package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for agenda resources.
	uriScheme = "agenda://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the whole address book.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "contacts",
		Name:        "contacts",
		Description: "All contacts in the address book",
		MIMEType:    "application/json",
	}, s.handleContactsResource)

	// Template for a single contact.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "contacts/{contactId}",
		Name:        "contact",
		Description: "A single contact with its call and WhatsApp links",
		MIMEType:    "application/json",
	}, s.handleContactResource)

	// Static resource for the network state.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Network connectivity and contact count",
		MIMEType:    "application/json",
	}, s.handleStatusResource)
}

// handleContactsResource returns every contact.
func (s *Server) handleContactsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	contacts, err := s.ports.Contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	infos := make([]ContactOutput, len(contacts))
	for i := range contacts {
		infos[i] = s.toOutput(contacts[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleContactResource returns one contact.
func (s *Server) handleContactResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract contactId from URI: agenda://contacts/{contactId}
	id := extractContactID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	contact, err := s.lookup(ctx, id)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, s.toOutput(*contact))
}

// handleStatusResource reports connectivity and the number of contacts.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type statusInfo struct {
		Network   string `json:"network"`
		Connected bool   `json:"connected"`
		Contacts  int    `json:"contacts"`
	}

	info := statusInfo{Network: "unknown"}
	if s.ports.Connectivity != nil {
		if state, err := s.ports.Connectivity.Current(ctx); err == nil {
			info.Network = state.String()
			info.Connected = state.IsConnected()
		}
	}

	contacts, err := s.ports.Contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	info.Contacts = len(contacts)

	return jsonResult(req.Params.URI, info)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractContactID extracts the contact ID from a URI like agenda://contacts/{contactId}.
func extractContactID(uri string) string {
	const prefix = uriScheme + "contacts/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
