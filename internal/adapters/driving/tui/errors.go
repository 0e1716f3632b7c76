package tui

import "errors"

// ErrMissingViewModel is returned when the contacts view model is not provided.
var ErrMissingViewModel = errors.New("tui: contacts view model is required")

// ErrMissingActionService is returned when the contact action service is not provided.
var ErrMissingActionService = errors.New("tui: contact action service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
