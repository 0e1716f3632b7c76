// Package mcp provides an MCP (Model Context Protocol) server adapter for agenda.
// It lets AI assistants read, import and edit contacts in the local address book.
package mcp

import "errors"

// ErrMissingContactRepository is returned when the contact repository is not provided.
var ErrMissingContactRepository = errors.New("mcp: contact repository is required")
