package apperror

import "net/http"

var (
	ErrPermissionDenied = New(
		CodePermissionDenied,
		"Location permission is required to clock in",
		0,
	)

	ErrPositionUnavailable = New(
		CodePositionUnavailable,
		"Could not acquire location",
		0,
	)

	ErrProfileNotLoaded = New(
		CodeProfileNotLoaded,
		"Your profile is still loading. Try again in a moment.",
		0,
	)

	ErrLocationNotConfigured = New(
		CodeLocationNotConfigured,
		"No work location is configured for your account. Contact an administrator to assign one.",
		0,
	)

	ErrInvalidConfig = New(
		CodeInvalidConfig,
		"The provided configuration is invalid",
		0,
	)

	ErrUnauthorized = New(
		CodeUnauthorized,
		"Authentication is required",
		http.StatusUnauthorized,
	)

	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"The provided input is invalid",
		http.StatusBadRequest,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

func RequiredField(field string) *AppError {
	return New(CodeInvalidConfig, field+" is required", 0)
}

func InvalidField(field string) *AppError {
	return New(CodeInvalidConfig, field+" is invalid", 0)
}
