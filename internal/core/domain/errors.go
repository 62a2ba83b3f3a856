package domain

import "errors"

var (
	// ErrAuthentication covers every handshake token failure: bad
	// signature, expired, unparsable claims. Callers must not leak
	// which one it was.
	ErrAuthentication = errors.New("authentication error")

	// ErrValidation marks a malformed send request. Nothing is
	// persisted and no connection state is touched.
	ErrValidation = errors.New("validation error")

	// ErrStorage marks a durable-store failure. The send aborts
	// before any relay, so a failed persist can never produce a
	// delivered notification.
	ErrStorage = errors.New("storage error")
)
