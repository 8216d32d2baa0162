package location

import (
	"context"

	"go-clockin/internal/domain"
	"go-clockin/internal/permission"
	"go-clockin/internal/shared/contextutil"

	"go.uber.org/zap"
)

//go:generate mockgen -source=location_provider.go -destination=mock/location_provider_mock.go -package=mock
type Source interface {
	// LastKnown returns the platform's best-effort last fix. A nil position
	// with a nil error means no fix is available.
	LastKnown(ctx context.Context) (*domain.GeoPosition, error)
}

type Provider struct {
	checker permission.Checker
	source  Source
	logger  *zap.Logger
}

func NewProvider(checker permission.Checker, source Source, logger ...*zap.Logger) *Provider {
	l := zap.L().Named("location.provider")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("location.provider")
	}
	return &Provider{checker: checker, source: source, logger: l}
}

// LastKnownPosition performs a single read. Without a location capability it
// reads nothing and resolves to (nil, nil).
func (p *Provider) LastKnownPosition(ctx context.Context) (*domain.GeoPosition, error) {
	rid := contextutil.GetRequestID(ctx)
	if !p.checker.Check(ctx).Any() {
		p.logger.Debug("no location capability, skipping read", zap.String("request_id", rid))
		return nil, nil
	}

	pos, err := p.source.LastKnown(ctx)
	if err != nil {
		p.logger.Error("last known position read failed", zap.String("request_id", rid), zap.Error(err))
		return nil, err
	}
	if pos == nil {
		p.logger.Info("no last known position", zap.String("request_id", rid))
	}
	return pos, nil
}
