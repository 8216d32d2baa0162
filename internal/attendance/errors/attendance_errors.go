package attendanceerrors

import (
	"net/http"

	"go-clockin/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"No employee record exists for this account.",
		http.StatusNotFound,
	)

	ErrNoWorkLocation = apperror.New(
		apperror.CodeLocationNotConfigured,
		"No work location is configured for your account.",
		http.StatusBadRequest,
	)

	ErrWorkLocationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Work location not found.",
		http.StatusNotFound,
	)

	ErrWorkLocationNotAllowed = apperror.New(
		apperror.CodeWorkLocationNotAllowed,
		"This work location is not within your allowed locations.",
		http.StatusBadRequest,
	)
)
