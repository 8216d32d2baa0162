package clock_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"go-clockin/internal/apiclient"
	apiMock "go-clockin/internal/apiclient/mock"
	"go-clockin/internal/clock"
	clockerrors "go-clockin/internal/clock/errors"
	"go-clockin/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func ptr[T any](v T) *T { return &v }

func TestBuildRequest(t *testing.T) {
	wl := int64(42)
	req := clock.BuildRequest(domain.GeoPosition{Latitude: 10.75, Longitude: 106.66}, &wl)

	assert.Equal(t, 10.75, req.Latitude)
	assert.Equal(t, 106.66, req.Longitude)
	assert.Nil(t, req.Type)
	if assert.NotNil(t, req.WorkLocationID) {
		assert.Equal(t, int64(42), *req.WorkLocationID)
	}

	// the request does not alias the session's id
	wl = 7
	assert.Equal(t, int64(42), *req.WorkLocationID)

	assert.Nil(t, clock.BuildRequest(domain.GeoPosition{}, nil).WorkLocationID)
}

func TestInvoker_Submit(t *testing.T) {
	ctx := context.Background()
	pos := domain.GeoPosition{Latitude: 1, Longitude: 2}

	t.Run("recorded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		want := domain.ClockResult{Type: "OUT", Timestamp: "2026-10-17T17:30:00Z", DistanceM: 8.5, WithinGeofence: true}
		client.EXPECT().
			Clock(gomock.Any(), domain.ClockRequest{Latitude: 1, Longitude: 2, WorkLocationID: ptr(int64(5))}).
			Return(want, nil)

		got, err := clock.NewInvoker(client).Submit(ctx, pos, ptr(int64(5)))
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		client.EXPECT().Clock(gomock.Any(), gomock.Any()).
			Return(domain.ClockResult{}, &apiclient.HTTPError{StatusCode: http.StatusForbidden, Diagnostic: ptr("forbidden")})

		_, err := clock.NewInvoker(client).Submit(ctx, pos, nil)
		assert.True(t, errors.Is(err, clockerrors.ErrClockRejected))
		assert.False(t, errors.Is(err, clockerrors.ErrClockTransportFailed))

		status := clock.FailureStatus(err)
		assert.Contains(t, status, "403")
		assert.Contains(t, status, "forbidden")
	})

	t.Run("rejected without diagnostic", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		client.EXPECT().Clock(gomock.Any(), gomock.Any()).
			Return(domain.ClockResult{}, &apiclient.HTTPError{StatusCode: http.StatusBadRequest})

		_, err := clock.NewInvoker(client).Submit(ctx, pos, nil)
		assert.Equal(t, "Clock failed: 400", clock.FailureStatus(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		client.EXPECT().Clock(gomock.Any(), gomock.Any()).
			Return(domain.ClockResult{}, &url.Error{Op: "Post", URL: "http://x/clock", Err: errors.New("timeout")})

		_, err := clock.NewInvoker(client).Submit(ctx, pos, nil)
		assert.True(t, errors.Is(err, clockerrors.ErrClockTransportFailed))
		assert.Equal(t, "Error: timeout", clock.FailureStatus(err))
	})
}

func TestStatus(t *testing.T) {
	t.Run("within geofence", func(t *testing.T) {
		res := domain.ClockResult{Type: "IN", Timestamp: "2026-10-17T08:00:05.123456+07:00", DistanceM: 12.34, WithinGeofence: true}
		s := clock.Status(res)
		assert.Contains(t, s, "IN")
		assert.Contains(t, s, "2026-10-17T08:00:05.123456+07:00")
		assert.Contains(t, s, "12.34")
		assert.Contains(t, s, "(valid)")
		assert.Equal(t, "Clock IN recorded", clock.Acknowledgement(res))
	})

	t.Run("outside geofence", func(t *testing.T) {
		s := clock.Status(domain.ClockResult{Type: "OUT", Timestamp: "t", DistanceM: 1520, WithinGeofence: false})
		assert.Contains(t, s, "1520 m")
		assert.Contains(t, s, "(outside range)")
		assert.NotContains(t, s, "(valid)")
	})
}
