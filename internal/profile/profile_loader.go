package profile

import (
	"context"
	"errors"
	"fmt"

	"go-clockin/internal/apiclient"
	"go-clockin/internal/domain"
	profileerrors "go-clockin/internal/profile/errors"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Loader struct {
	client apiclient.Client
	logger *zap.Logger
}

func NewLoader(client apiclient.Client, logger ...*zap.Logger) *Loader {
	l := zap.L().Named("profile.loader")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("profile.loader")
	}
	return &Loader{client: client, logger: l}
}

// Load fetches the profile once. Failures come back as a
// PROFILE_FETCH_FAILED AppError carrying the HTTP status when there was one.
func (l *Loader) Load(ctx context.Context) (domain.UserProfile, error) {
	rid := contextutil.GetRequestID(ctx)
	p, err := l.client.Me(ctx)
	if err != nil {
		l.logger.Warn("profile fetch failed", zap.String("request_id", rid), zap.Error(err))
		return domain.UserProfile{}, mapFetchError(err)
	}

	l.logger.Info("profile loaded",
		zap.String("request_id", rid),
		zap.String("username", p.Username),
		zap.Int("allowed_locations", len(p.AllowedLocations)),
	)
	return p, nil
}

func mapFetchError(err error) error {
	base := profileerrors.ErrProfileFetchFailed
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return apperror.Wrap(err, base.Code, base.Message, httpErr.StatusCode)
	}
	return apperror.Wrap(err, base.Code, base.Message, 0)
}

// Status renders a load failure for the status region.
func Status(err error) string {
	var ae *apperror.AppError
	if errors.As(err, &ae) && ae.HTTPStatus != 0 {
		return fmt.Sprintf("Could not load user profile (%d)", ae.HTTPStatus)
	}
	var inner error = err
	if ae != nil && ae.Err != nil {
		inner = ae.Err
	}
	return "Profile error: " + apiclient.Describe(inner)
}

func Greeting(p domain.UserProfile) string {
	return "Hello, " + p.Username
}
