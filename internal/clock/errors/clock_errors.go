package clockerrors

import "go-clockin/internal/shared/apperror"

var (
	ErrClockRejected = apperror.New(
		apperror.CodeClockRejected,
		"Clock failed",
		0,
	)

	ErrClockTransportFailed = apperror.New(
		apperror.CodeClockTransportFailed,
		"Clock request could not be delivered",
		0,
	)
)
