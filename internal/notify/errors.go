package notify

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when the delivery provider credential is
// missing from the process configuration. Every notification kind fails with
// this error regardless of payload validity.
var ErrNotConfigured = errors.New("mail delivery is not configured")

// ErrNoRecipients is returned when recipient resolution produces an empty
// set. It signals missing administrator configuration on the server side,
// not a malformed request.
var ErrNoRecipients = errors.New("no recipients resolved")

// ValidationError is returned when a request is missing a required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required field %q", e.Field)
}

// DeliveryError wraps a rejection from the delivery provider. Detail carries
// the provider's raw diagnostic text; it is opaque and not stable across
// provider versions.
type DeliveryError struct {
	Detail string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery provider rejected the message: %s", e.Detail)
}
