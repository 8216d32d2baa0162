package permission

import (
	"context"

	"go-clockin/internal/shared/contextutil"

	"go.uber.org/zap"
)

type Outcome int

const (
	// Granted: fine or coarse capability is already held.
	Granted Outcome = iota
	// DeniedWithRequestIssued: nothing was held, the consent request was
	// issued and the user granted at least one capability. The caller must
	// restart its attempt from the top.
	DeniedWithRequestIssued
	// DeniedFinal: the consent request was issued and both capabilities
	// were refused, or the prompt could not be answered.
	DeniedFinal
)

func (o Outcome) String() string {
	switch o {
	case Granted:
		return "granted"
	case DeniedWithRequestIssued:
		return "denied_request_issued"
	case DeniedFinal:
		return "denied_final"
	default:
		return "unknown"
	}
}

// Grants is the platform answer for the two location capabilities.
type Grants struct {
	Fine   bool
	Coarse bool
}

func (g Grants) Any() bool {
	return g.Fine || g.Coarse
}

//go:generate mockgen -source=permission_gate.go -destination=mock/permission_gate_mock.go -package=mock
type Checker interface {
	// Check reports the capabilities held right now. It is never cached.
	Check(ctx context.Context) Grants
}

type Platform interface {
	Checker
	// Request asks the user for both capabilities at once and blocks until
	// they answer.
	Request(ctx context.Context) (Grants, error)
}

type Gate struct {
	platform Platform
	logger   *zap.Logger
}

func NewGate(platform Platform, logger ...*zap.Logger) *Gate {
	l := zap.L().Named("permission.gate")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("permission.gate")
	}
	return &Gate{platform: platform, logger: l}
}

// Held queries the platform without prompting.
func (g *Gate) Held(ctx context.Context) bool {
	return g.platform.Check(ctx).Any()
}

// Ensure issues at most one consent prompt per call.
func (g *Gate) Ensure(ctx context.Context) Outcome {
	rid := contextutil.GetRequestID(ctx)
	if g.Held(ctx) {
		return Granted
	}

	g.logger.Debug("location capability missing, requesting consent", zap.String("request_id", rid))
	grants, err := g.platform.Request(ctx)
	if err != nil {
		g.logger.Warn("consent request failed", zap.String("request_id", rid), zap.Error(err))
		return DeniedFinal
	}
	if !grants.Any() {
		g.logger.Info("location consent refused", zap.String("request_id", rid))
		return DeniedFinal
	}

	g.logger.Info("location consent granted",
		zap.String("request_id", rid),
		zap.Bool("fine", grants.Fine),
		zap.Bool("coarse", grants.Coarse),
	)
	return DeniedWithRequestIssued
}
