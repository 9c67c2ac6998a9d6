package models

import (
	"errors"
	"fmt"
)

var (
	ErrStepGuard = errors.New("step requirements not met")
	ErrBusy      = errors.New("an operation is already in progress")
	ErrClosed    = errors.New("booking session is closed")
	ErrNotReady  = errors.New("payment form is not ready")
	ErrDeclined  = errors.New("action was not confirmed")
)

// ValidationError is a local input problem. No network call was made.
type ValidationError struct {
	Field   string
	Message string
	Err     error // optional, e.g. ErrStepGuard
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// LoadError is a failed catalog, availability or dashboard fetch.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// AuthorizationError is a payment tokenization or verification rejection.
type AuthorizationError struct {
	Message string
	Err     error
}

func (e *AuthorizationError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *AuthorizationError) Unwrap() error { return e.Err }

// SubmissionError is a rejected booking creation.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *SubmissionError) Unwrap() error { return e.Err }

// ReconciliationError is a rejected admin update whose optimistic state was discarded.
type ReconciliationError struct {
	BookingID int
	Message   string
	Err       error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("booking %d: %s: %v", e.BookingID, e.Message, e.Err)
}
func (e *ReconciliationError) Unwrap() error { return e.Err }

// UserMessage extracts the text that should be shown to the user for err.
func UserMessage(err error) string {
	var (
		ve *ValidationError
		le *LoadError
		ae *AuthorizationError
		se *SubmissionError
		re *ReconciliationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &le):
		return le.Message
	case errors.As(err, &ae):
		return ae.Message
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &re):
		return re.Message
	case errors.Is(err, ErrBusy):
		return "Please wait for the current request to finish."
	case errors.Is(err, ErrClosed):
		return "This booking session has ended."
	case errors.Is(err, ErrNotReady):
		return "Payment form is still loading."
	case errors.Is(err, ErrDeclined):
		return "Action was not confirmed."
	}
	return "Something went wrong. Please try again."
}
