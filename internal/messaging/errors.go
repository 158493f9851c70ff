package messaging

import "errors"

var (
	// ErrCredentialsMissing is returned when the provider account is not configured.
	ErrCredentialsMissing = errors.New("messaging: twilio credentials missing")
	// ErrRecipientRequired is returned when no destination number was given.
	ErrRecipientRequired = errors.New("messaging: to required")
	// ErrContentSIDRequired is returned when no message template is configured.
	ErrContentSIDRequired = errors.New("messaging: content sid required")
	// ErrRelayRejected is returned when the relay answered with success=false.
	ErrRelayRejected = errors.New("messaging: relay rejected message")
)
