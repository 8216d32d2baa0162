package clock

import (
	"errors"
	"fmt"
	"strconv"

	"go-clockin/internal/apiclient"
	"go-clockin/internal/domain"
	"go-clockin/internal/shared/apperror"
)

const (
	labelValid       = "valid"
	labelOutOfRange  = "outside range"
	statusNoResponse = "Error: "
)

func ValidityLabel(withinGeofence bool) string {
	if withinGeofence {
		return labelValid
	}
	return labelOutOfRange
}

// Status renders the server's values as received.
func Status(res domain.ClockResult) string {
	return fmt.Sprintf("Clocked %s at %s\nDistance: %s m (%s)",
		res.Type,
		res.Timestamp,
		strconv.FormatFloat(res.DistanceM, 'f', -1, 64),
		ValidityLabel(res.WithinGeofence),
	)
}

// Acknowledgement is the transient notice raised after a recorded clock.
func Acknowledgement(res domain.ClockResult) string {
	return fmt.Sprintf("Clock %s recorded", res.Type)
}

// FailureStatus renders an error returned by Invoker.Submit.
func FailureStatus(err error) string {
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Diagnostic == nil {
			return fmt.Sprintf("Clock failed: %d", httpErr.StatusCode)
		}
		return fmt.Sprintf("Clock failed: %d %s", httpErr.StatusCode, *httpErr.Diagnostic)
	}

	var ae *apperror.AppError
	if errors.As(err, &ae) && ae.Err != nil {
		return statusNoResponse + apiclient.Describe(ae.Err)
	}
	return statusNoResponse + apiclient.Describe(err)
}
