package errors

import (
	"errors"
	"fmt"
)

// Common error values for the dashboard client
var (
	// Session errors
	ErrNoSession = errors.New("no active session")

	// Mutability errors. The messages match what the user sees when an edit
	// is rejected client-side.
	ErrCampaignLocked = errors.New("completed campaigns cannot be updated")
	ErrPostPublished  = errors.New("published posts cannot be edited")

	// Form validation errors
	ErrEndBeforeStart = errors.New("end date must be after start date")
	ErrScheduleInPast = errors.New("scheduled time must be in the future")

	// Refresh errors
	ErrSuperseded = errors.New("fetch superseded by a newer request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
