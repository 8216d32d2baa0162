package workflow

import (
	"context"
	"errors"
	"sync"

	"go-clockin/internal/clock"
	"go-clockin/internal/domain"
	"go-clockin/internal/permission"
	"go-clockin/internal/profile"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const clockFlightKey = "clock"

type PermissionGate interface {
	Ensure(ctx context.Context) permission.Outcome
	Held(ctx context.Context) bool
}

type LocationProvider interface {
	LastKnownPosition(ctx context.Context) (*domain.GeoPosition, error)
}

type ClockInvoker interface {
	Submit(ctx context.Context, pos domain.GeoPosition, workLocationID *int64) (domain.ClockResult, error)
}

type ProfileLoader interface {
	Load(ctx context.Context) (domain.UserProfile, error)
}

// Report describes how one attempt ended. Err carries the failure kind for
// callers that want it; it has already been rendered on the Display.
type Report struct {
	Final  State
	Status string
	Result *domain.ClockResult
	Err    error
}

type Options struct {
	// SingleFlight makes a clock action issued while another is in flight
	// join that attempt instead of starting a second one.
	SingleFlight bool
	// Observer, when set, is called on every state transition.
	Observer func(from, to State)
	Logger   *zap.Logger
}

type Controller struct {
	gate     PermissionGate
	locator  LocationProvider
	invoker  ClockInvoker
	loader   ProfileLoader
	display  Display
	sf       *singleflight.Group
	observer func(from, to State)
	logger   *zap.Logger

	mu      sync.Mutex
	session SessionState
	state   State

	initOnce sync.Once
}

func NewController(
	gate PermissionGate,
	locator LocationProvider,
	invoker ClockInvoker,
	loader ProfileLoader,
	display Display,
	opts Options,
) *Controller {
	l := zap.L().Named("workflow.controller")
	if opts.Logger != nil {
		l = opts.Logger.Named("workflow.controller")
	}
	c := &Controller{
		gate:     gate,
		locator:  locator,
		invoker:  invoker,
		loader:   loader,
		display:  display,
		observer: opts.Observer,
		logger:   l,
		session:  NewSessionState(),
		state:    StateIdle,
	}
	if opts.SingleFlight {
		c.sf = &singleflight.Group{}
	}
	return c
}

func (c *Controller) Session() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setSession(s SessionState) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *Controller) transition(ctx context.Context, to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	if !CanTransition(from, to) {
		c.logger.Warn("unexpected state transition",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
	}
	c.logger.Debug("state transition",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)
	if c.observer != nil {
		c.observer(from, to)
	}
}

// Init loads the profile. Only the first call does any work.
func (c *Controller) Init(ctx context.Context) SessionState {
	c.initOnce.Do(func() {
		ctx = withAttemptID(ctx)
		rid := contextutil.GetRequestID(ctx)

		p, err := c.loader.Load(ctx)
		if err != nil {
			c.setSession(c.Session().WithProfileError())
			c.display.SetStatus(profile.Status(err))
			c.logger.Warn("session degraded", zap.String("request_id", rid), zap.Error(err))
			return
		}

		next := c.Session().WithProfile(p)
		c.setSession(next)
		c.display.Greet(profile.Greeting(p))
		if next.Mode == ModeBlocked {
			c.display.SetStatus(apperror.ErrLocationNotConfigured.Message)
			c.logger.Info("clocking blocked, no allowed locations", zap.String("request_id", rid))
		}
	})
	return c.Session()
}

// Clock runs one attempt for a user action. Failures are rendered on the
// Display and returned in the Report, never as a Go error.
func (c *Controller) Clock(ctx context.Context) Report {
	ctx = withAttemptID(ctx)
	if c.sf == nil {
		return c.attempt(ctx, false)
	}

	v, _, shared := c.sf.Do(clockFlightKey, func() (any, error) {
		return c.attempt(ctx, false), nil
	})
	if shared {
		c.logger.Debug("clock action joined in-flight attempt",
			zap.String("request_id", contextutil.GetRequestID(ctx)))
	}
	return v.(Report)
}

func (c *Controller) attempt(ctx context.Context, restarted bool) Report {
	rid := contextutil.GetRequestID(ctx)

	if err := c.Session().ClockReadiness(); err != nil {
		c.transition(ctx, StateFailed)
		var ae *apperror.AppError
		status := err.Error()
		if errors.As(err, &ae) {
			status = ae.Message
		}
		c.display.SetStatus(status)
		return c.fail(ctx, err, status)
	}

	c.transition(ctx, StateCheckingPermission)
	outcome := permission.Granted
	if restarted {
		// a restart never prompts a second time
		if !c.gate.Held(ctx) {
			outcome = permission.DeniedFinal
		}
	} else {
		outcome = c.gate.Ensure(ctx)
	}

	switch outcome {
	case permission.DeniedWithRequestIssued:
		c.transition(ctx, StateIdle)
		c.logger.Debug("consent granted, restarting attempt", zap.String("request_id", rid))
		return c.attempt(ctx, true)
	case permission.DeniedFinal:
		c.transition(ctx, StateFailed)
		c.display.Notify(apperror.ErrPermissionDenied.Message)
		return c.fail(ctx, apperror.ErrPermissionDenied, apperror.ErrPermissionDenied.Message)
	}

	c.transition(ctx, StateAcquiringLocation)
	pos, err := c.locator.LastKnownPosition(ctx)
	if err != nil {
		c.transition(ctx, StateFailed)
		base := apperror.ErrPositionUnavailable
		status := base.Message + ": " + err.Error()
		c.display.SetStatus(status)
		return c.fail(ctx, apperror.Wrap(err, base.Code, base.Message, 0), status)
	}
	if pos == nil {
		c.transition(ctx, StateFailed)
		c.display.SetStatus(apperror.ErrPositionUnavailable.Message)
		return c.fail(ctx, apperror.ErrPositionUnavailable, apperror.ErrPositionUnavailable.Message)
	}

	c.transition(ctx, StateSubmitting)
	wl := c.Session().SelectedWorkLocationIDCopy()
	res, err := c.invoker.Submit(ctx, *pos, wl)
	if err != nil {
		c.transition(ctx, StateFailed)
		status := clock.FailureStatus(err)
		c.display.SetStatus(status)
		return c.fail(ctx, err, status)
	}

	c.transition(ctx, StateReported)
	status := clock.Status(res)
	c.display.SetStatus(status)
	c.display.Notify(clock.Acknowledgement(res))
	c.transition(ctx, StateIdle)
	return Report{Final: StateReported, Status: status, Result: &res}
}

// fail folds a failed attempt back to Idle. The caller has already rendered it.
func (c *Controller) fail(ctx context.Context, err error, status string) Report {
	c.logger.Info("clock attempt failed",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("code", apperror.CodeOf(err)),
		zap.Error(err),
	)
	c.transition(ctx, StateIdle)
	return Report{Final: StateFailed, Status: status, Err: err}
}

func withAttemptID(ctx context.Context) context.Context {
	if contextutil.GetRequestID(ctx) != "" {
		return ctx
	}
	return contextutil.WithRequestID(ctx, uuid.New().String())
}
