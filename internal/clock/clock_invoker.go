package clock

import (
	"context"
	"errors"

	"go-clockin/internal/apiclient"
	clockerrors "go-clockin/internal/clock/errors"
	"go-clockin/internal/domain"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Invoker struct {
	client apiclient.Client
	logger *zap.Logger
}

func NewInvoker(client apiclient.Client, logger ...*zap.Logger) *Invoker {
	l := zap.L().Named("clock.invoker")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("clock.invoker")
	}
	return &Invoker{client: client, logger: l}
}

// BuildRequest never sets Type: the server decides IN or OUT by toggling
// from the user's last recorded event.
func BuildRequest(pos domain.GeoPosition, workLocationID *int64) domain.ClockRequest {
	var wl *int64
	if workLocationID != nil {
		id := *workLocationID
		wl = &id
	}
	return domain.ClockRequest{
		Latitude:       pos.Latitude,
		Longitude:      pos.Longitude,
		Type:           nil,
		WorkLocationID: wl,
	}
}

// Submit sends exactly one clock request. Errors are CLOCK_REJECTED (with the
// HTTP status) or CLOCK_TRANSPORT_FAILED AppErrors.
func (i *Invoker) Submit(ctx context.Context, pos domain.GeoPosition, workLocationID *int64) (domain.ClockResult, error) {
	rid := contextutil.GetRequestID(ctx)
	req := BuildRequest(pos, workLocationID)

	res, err := i.client.Clock(ctx, req)
	if err != nil {
		var httpErr *apiclient.HTTPError
		if errors.As(err, &httpErr) {
			i.logger.Warn("clock rejected",
				zap.String("request_id", rid),
				zap.Int("status", httpErr.StatusCode),
			)
			base := clockerrors.ErrClockRejected
			return domain.ClockResult{}, apperror.Wrap(err, base.Code, base.Message, httpErr.StatusCode)
		}

		i.logger.Error("clock transport failed", zap.String("request_id", rid), zap.Error(err))
		base := clockerrors.ErrClockTransportFailed
		return domain.ClockResult{}, apperror.Wrap(err, base.Code, base.Message, 0)
	}

	i.logger.Info("clock recorded",
		zap.String("request_id", rid),
		zap.String("type", res.Type),
		zap.String("timestamp", res.Timestamp),
		zap.Float64("distance_m", res.DistanceM),
		zap.Bool("within_geofence", res.WithinGeofence),
	)
	return res, nil
}
