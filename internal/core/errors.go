package core

import "errors"

var (
	// ErrUnsupportedLanguage is returned when a request names a language tag
	// outside the supported set. The request is rejected before any call to
	// the model provider.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidRequest is returned for structurally invalid input: empty
	// source code, or an empty raw model response where one was required.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderUnavailable is returned when the model provider could not be
	// reached or did not produce a usable response after retries.
	ErrProviderUnavailable = errors.New("model provider unavailable")
)
