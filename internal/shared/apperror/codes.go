package apperror

const (
	// Attempt-level failures, rendered as status and never propagated
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodePositionUnavailable   = "POSITION_UNAVAILABLE"
	CodeProfileFetchFailed    = "PROFILE_FETCH_FAILED"
	CodeProfileNotLoaded      = "PROFILE_NOT_LOADED"
	CodeLocationNotConfigured = "LOCATION_NOT_CONFIGURED"
	CodeClockRejected         = "CLOCK_REJECTED"
	CodeClockTransportFailed  = "CLOCK_TRANSPORT_FAILED"

	// Startup and request validation
	CodeInvalidConfig = "INVALID_CONFIG"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeRateLimited   = "RATE_LIMITED"

	// Attendance service
	CodeWorkLocationNotAllowed = "WORK_LOCATION_NOT_ALLOWED"

	CodeInternalError = "INTERNAL_ERROR"
)
