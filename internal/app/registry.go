package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"go-clockin/internal/apiclient"
	"go-clockin/internal/clock"
	"go-clockin/internal/config"
	"go-clockin/internal/location"
	"go-clockin/internal/permission"
	"go-clockin/internal/profile"
	"go-clockin/internal/shared/connection"
	"go-clockin/internal/workflow"

	"go.uber.org/zap"
)

// Clockin is the assembled client host.
type Clockin struct {
	Controller *workflow.Controller
	Platform   *permission.TerminalPlatform
	// Recorder is set only for the redis location source.
	Recorder *location.RedisSource

	closers []io.Closer
}

func (a *Clockin) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// BuildClockin wires the clocking workflow. in and out back both the consent
// prompt and the status display.
func BuildClockin(ctx context.Context, cfg *config.ClientConfig, in io.Reader, out io.Writer, logger *zap.Logger) (*Clockin, error) {
	a := &Clockin{}

	client, err := apiclient.New(cfg.APIBaseURL, cfg.APIToken, cfg.HTTPTimeout, apiclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	initial, err := permission.ParseGrants(cfg.LocationPermission)
	if err != nil {
		return nil, err
	}
	a.Platform = permission.NewTerminalPlatform(in, out, initial)

	var source location.Source
	switch cfg.LocationSource {
	case config.LocationSourceRedis:
		rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb)
		a.Recorder = location.NewRedisSource(rdb, cfg.DeviceID)
		source = a.Recorder
	case config.LocationSourceStatic:
		pos, err := cfg.StaticPosition()
		if err != nil {
			return nil, err
		}
		source = location.NewStaticSource(pos)
	default:
		return nil, fmt.Errorf("unknown location source %q", cfg.LocationSource)
	}

	a.Controller = workflow.NewController(
		permission.NewGate(a.Platform, logger),
		location.NewProvider(a.Platform, source, logger),
		clock.NewInvoker(client, logger),
		profile.NewLoader(client, logger),
		workflow.NewTerminalDisplay(out),
		workflow.Options{
			SingleFlight: cfg.SingleFlight,
			Logger:       logger,
		},
	)
	return a, nil
}
