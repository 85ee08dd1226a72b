// Package upstream holds the error taxonomy shared by all vendor API
// clients.
package upstream

import "errors"

var (
	// ErrMissingCredentials means the integration is not configured;
	// handlers map it to 503 rather than 500 so ops can tell a config
	// gap from a bug.
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrUpstream           = errors.New("upstream_error")
)
