package embedding

import "errors"

var (
	// ErrMissingCredential is returned by the remote provider when no API key is configured.
	ErrMissingCredential = errors.New("embedding provider credential is missing")

	// ErrProviderUnavailable wraps transport and API failures. It is never retried here.
	ErrProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrProviderInitFailed is returned when the local model cannot be loaded.
	// The next call attempts the load again.
	ErrProviderInitFailed = errors.New("embedding provider initialization failed")
)
