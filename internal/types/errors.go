package types

import "errors"

// ErrMissingCredential is returned by every orchestrator entry point when no
// API key is configured. It is surfaced before any network attempt.
var ErrMissingCredential = errors.New("no API key configured")
