package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog and storage errors
	ErrInvalidCatalog   = fmt.Errorf("invalid catalog")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrKeyNotFound      = fmt.Errorf("key not found")
	ErrStorage          = fmt.Errorf("storage failure")

	// Access token errors
	ErrNoAccessToken = fmt.Errorf("no access token")

	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
