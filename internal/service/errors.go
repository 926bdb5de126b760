package service

import "errors"

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyInFamily   = errors.New("user is already in a family")
	ErrInvalidJoinCode   = errors.New("invalid join code")
	ErrJoinCodeExhausted = errors.New("could not generate a unique join code")
	ErrJoinCodeTaken     = errors.New("join code was claimed concurrently")
	ErrUserNotFound      = errors.New("user not found for session")
	ErrNoFamily          = errors.New("user has no family")
	ErrStorageDisabled   = errors.New("file storage is not configured")
)

// UserMessage returns the text shown to the caller for a failed family
// mutation. Unknown errors collapse to fallback so internals never leak.
func UserMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrAlreadyInFamily):
		return "User is already in a family."
	case errors.Is(err, ErrInvalidJoinCode):
		return "Invalid join code. Family not found."
	case errors.Is(err, ErrJoinCodeExhausted), errors.Is(err, ErrJoinCodeTaken):
		return "Could not generate a unique join code. Please try again."
	case errors.Is(err, ErrInvalidInput):
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			return inputErr.Message
		}
		return fallback
	default:
		return fallback
	}
}

// InputError carries a user-facing validation message and matches
// ErrInvalidInput with errors.Is.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Message
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(message string) error {
	return &InputError{Message: message}
}
