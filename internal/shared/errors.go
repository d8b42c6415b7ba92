package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// OAuth relay errors
	ErrStateMismatch  = fmt.Errorf("unrecognized state")
	ErrExchangeFailed = fmt.Errorf("token exchange failed")

	// AI generation errors
	ErrGenerationFailed   = fmt.Errorf("generation failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
