// Package exitcode defines exit codes for the CLI.
package exitcode

import "taskdash/internal/service"

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, not found, busy).
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a backend/API/network error.
	BackendError = 3
)

// FromError maps a classified error to an exit code.
func FromError(err error) int {
	switch service.CodeOf(err) {
	case "":
		return Success
	case service.CodeUnauthorized:
		return AuthError
	case service.CodeBackend:
		return BackendError
	default:
		return UserError
	}
}
