package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-clockin/internal/apiclient"
	apiMock "go-clockin/internal/apiclient/mock"
	"go-clockin/internal/clock"
	"go-clockin/internal/domain"
	"go-clockin/internal/permission"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/workflow"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeGate struct {
	log      *callLog
	ensureFn func(ctx context.Context) permission.Outcome
	heldFn   func(ctx context.Context) bool
}

func (f *fakeGate) Ensure(ctx context.Context) permission.Outcome {
	f.log.add("ensure")
	return f.ensureFn(ctx)
}

func (f *fakeGate) Held(ctx context.Context) bool {
	f.log.add("held")
	return f.heldFn(ctx)
}

type fakeLocator struct {
	log *callLog
	fn  func(ctx context.Context) (*domain.GeoPosition, error)
}

func (f *fakeLocator) LastKnownPosition(ctx context.Context) (*domain.GeoPosition, error) {
	f.log.add("locate")
	return f.fn(ctx)
}

type fakeInvoker struct {
	log *callLog
	fn  func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error)
}

func (f *fakeInvoker) Submit(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
	f.log.add("submit")
	return f.fn(ctx, pos, wl)
}

type fakeLoader struct {
	log *callLog
	fn  func(ctx context.Context) (domain.UserProfile, error)
}

func (f *fakeLoader) Load(ctx context.Context) (domain.UserProfile, error) {
	f.log.add("load")
	return f.fn(ctx)
}

type recordingDisplay struct {
	mu        sync.Mutex
	statuses  []string
	notices   []string
	greetings []string
}

func (d *recordingDisplay) SetStatus(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, text)
}

func (d *recordingDisplay) Notify(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, text)
}

func (d *recordingDisplay) Greet(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.greetings = append(d.greetings, text)
}

func (d *recordingDisplay) lastStatus() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.statuses) == 0 {
		return ""
	}
	return d.statuses[len(d.statuses)-1]
}

type harness struct {
	log     *callLog
	gate    *fakeGate
	locator *fakeLocator
	invoker *fakeInvoker
	loader  *fakeLoader
	display *recordingDisplay
	edges   [][2]workflow.State
}

func newHarness() *harness {
	log := &callLog{}
	return &harness{
		log: log,
		gate: &fakeGate{
			log:      log,
			ensureFn: func(ctx context.Context) permission.Outcome { return permission.Granted },
			heldFn:   func(ctx context.Context) bool { return true },
		},
		locator: &fakeLocator{log: log, fn: func(ctx context.Context) (*domain.GeoPosition, error) {
			return &domain.GeoPosition{Latitude: 10.77, Longitude: 106.7}, nil
		}},
		invoker: &fakeInvoker{log: log, fn: func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
			return domain.ClockResult{Type: "IN", Timestamp: "2026-10-17T08:00:00+07:00", DistanceM: 12.5, WithinGeofence: true}, nil
		}},
		loader: &fakeLoader{log: log, fn: func(ctx context.Context) (domain.UserProfile, error) {
			return domain.UserProfile{Username: "alice", AllowedLocations: []domain.WorkLocation{{ID: 11}, {ID: 12}}}, nil
		}},
		display: &recordingDisplay{},
	}
}

func (h *harness) controller(singleFlight bool) *workflow.Controller {
	return workflow.NewController(h.gate, h.locator, h.invoker, h.loader, h.display, workflow.Options{
		SingleFlight: singleFlight,
		Observer: func(from, to workflow.State) {
			h.edges = append(h.edges, [2]workflow.State{from, to})
		},
	})
}

// loaded returns a controller whose profile is in, with the call log cleared.
func (h *harness) loaded(singleFlight bool) *workflow.Controller {
	c := h.controller(singleFlight)
	c.Init(context.Background())
	h.log.mu.Lock()
	h.log.calls = nil
	h.log.mu.Unlock()
	h.edges = nil
	return c
}

func TestController_Init(t *testing.T) {
	ctx := context.Background()

	t.Run("selects first allowed location", func(t *testing.T) {
		h := newHarness()
		c := h.controller(false)

		s := c.Init(ctx)
		assert.Equal(t, workflow.ModeReady, s.Mode)
		if assert.NotNil(t, s.SelectedWorkLocationID) {
			assert.Equal(t, int64(11), *s.SelectedWorkLocationID)
		}
		assert.NoError(t, s.Validate())
		assert.Equal(t, []string{"Hello, alice"}, h.display.greetings)
		assert.Empty(t, h.display.statuses)
	})

	t.Run("runs once", func(t *testing.T) {
		h := newHarness()
		c := h.controller(false)
		c.Init(ctx)
		c.Init(ctx)
		assert.Equal(t, []string{"load"}, h.log.list())
	})

	t.Run("empty allowed locations blocks clocking", func(t *testing.T) {
		h := newHarness()
		h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
			return domain.UserProfile{Username: "bob"}, nil
		}
		c := h.controller(false)

		s := c.Init(ctx)
		assert.Equal(t, workflow.ModeBlocked, s.Mode)
		assert.Nil(t, s.SelectedWorkLocationID)
		assert.Equal(t, apperror.ErrLocationNotConfigured.Message, h.display.lastStatus())
	})

	t.Run("fetch failure degrades session", func(t *testing.T) {
		h := newHarness()
		h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
			return domain.UserProfile{}, apperror.Wrap(&apiclient.HTTPError{StatusCode: 500}, apperror.CodeProfileFetchFailed, "Could not load user profile", 500)
		}
		c := h.controller(false)

		s := c.Init(ctx)
		assert.Equal(t, workflow.ModeDegraded, s.Mode)
		assert.Equal(t, "Could not load user profile (500)", h.display.lastStatus())
		assert.Empty(t, h.display.greetings)
	})
}

func TestController_Clock_Success(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	var gotWL *int64
	var gotPos domain.GeoPosition
	h.invoker.fn = func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
		gotPos, gotWL = pos, wl
		return domain.ClockResult{Type: "IN", Timestamp: "2026-10-17T08:00:00+07:00", DistanceM: 12.5, WithinGeofence: true}, nil
	}
	c := h.controller(true)
	c.Init(ctx)

	r := c.Clock(ctx)
	assert.Equal(t, workflow.StateReported, r.Final)
	assert.NoError(t, r.Err)
	assert.Equal(t, domain.GeoPosition{Latitude: 10.77, Longitude: 106.7}, gotPos)
	if assert.NotNil(t, gotWL) {
		assert.Equal(t, int64(11), *gotWL)
	}
	assert.Contains(t, h.display.lastStatus(), "(valid)")
	assert.Contains(t, h.display.lastStatus(), "12.5")
	assert.Equal(t, []string{"Clock IN recorded"}, h.display.notices)
	assert.Equal(t, workflow.StateIdle, c.State())

	assert.Equal(t, [][2]workflow.State{
		{workflow.StateIdle, workflow.StateCheckingPermission},
		{workflow.StateCheckingPermission, workflow.StateAcquiringLocation},
		{workflow.StateAcquiringLocation, workflow.StateSubmitting},
		{workflow.StateSubmitting, workflow.StateReported},
		{workflow.StateReported, workflow.StateIdle},
	}, h.edges)
}

func TestController_Clock_Blocked(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
		return domain.UserProfile{Username: "bob", AllowedLocations: []domain.WorkLocation{}}, nil
	}
	c := h.controller(false)
	c.Init(ctx)

	r := c.Clock(ctx)
	assert.Equal(t, workflow.StateFailed, r.Final)
	assert.True(t, errors.Is(r.Err, apperror.ErrLocationNotConfigured))
	assert.Equal(t, apperror.ErrLocationNotConfigured.Message, h.display.lastStatus())
	assert.Equal(t, []string{"load"}, h.log.list())
	assert.Equal(t, workflow.StateIdle, c.State())
}

func TestController_Clock_BeforeProfileLoaded(t *testing.T) {
	ctx := context.Background()

	t.Run("no init yet", func(t *testing.T) {
		h := newHarness()
		c := h.controller(false)

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, r.Final)
		assert.True(t, errors.Is(r.Err, apperror.ErrProfileNotLoaded))
		assert.Equal(t, apperror.ErrProfileNotLoaded.Message, h.display.lastStatus())
		assert.Empty(t, h.log.list())
		assert.Equal(t, workflow.StateIdle, c.State())
	})

	t.Run("tap while the profile is still loading", func(t *testing.T) {
		h := newHarness()
		entered := make(chan struct{})
		release := make(chan struct{})
		h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
			close(entered)
			<-release
			return domain.UserProfile{Username: "alice", AllowedLocations: []domain.WorkLocation{{ID: 11}}}, nil
		}
		var gotWL *int64
		h.invoker.fn = func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
			gotWL = wl
			return domain.ClockResult{Type: "IN", Timestamp: "t"}, nil
		}
		c := h.controller(false)

		done := make(chan struct{})
		go func() { defer close(done); c.Init(ctx) }()
		<-entered

		early := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, early.Final)
		assert.True(t, errors.Is(early.Err, apperror.ErrProfileNotLoaded))
		assert.Equal(t, []string{"load"}, h.log.list())

		close(release)
		<-done

		late := c.Clock(ctx)
		assert.Equal(t, workflow.StateReported, late.Final)
		if assert.NotNil(t, gotWL) {
			assert.Equal(t, int64(11), *gotWL)
		}
	})
}

func TestController_Clock_Permission(t *testing.T) {
	ctx := context.Background()

	t.Run("refused - no location read, no network", func(t *testing.T) {
		h := newHarness()
		h.gate.ensureFn = func(ctx context.Context) permission.Outcome { return permission.DeniedFinal }
		c := h.loaded(false)

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, r.Final)
		assert.True(t, errors.Is(r.Err, apperror.ErrPermissionDenied))
		assert.Equal(t, []string{"ensure"}, h.log.list())
		assert.Equal(t, []string{apperror.ErrPermissionDenied.Message}, h.display.notices)
	})

	t.Run("granted on prompt restarts the attempt", func(t *testing.T) {
		h := newHarness()
		h.gate.ensureFn = func(ctx context.Context) permission.Outcome { return permission.DeniedWithRequestIssued }
		c := h.loaded(false)

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateReported, r.Final)
		assert.Equal(t, []string{"ensure", "held", "locate", "submit"}, h.log.list())
		assert.Equal(t, [2]workflow.State{workflow.StateCheckingPermission, workflow.StateIdle}, h.edges[1])
		assert.Equal(t, [2]workflow.State{workflow.StateIdle, workflow.StateCheckingPermission}, h.edges[2])
	})

	t.Run("restart never prompts twice", func(t *testing.T) {
		h := newHarness()
		h.gate.ensureFn = func(ctx context.Context) permission.Outcome { return permission.DeniedWithRequestIssued }
		h.gate.heldFn = func(ctx context.Context) bool { return false }
		c := h.loaded(false)

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, r.Final)
		assert.True(t, errors.Is(r.Err, apperror.ErrPermissionDenied))
		assert.Equal(t, []string{"ensure", "held"}, h.log.list())
	})
}

func TestController_Clock_Position(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown position aborts before network", func(t *testing.T) {
		h := newHarness()
		h.locator.fn = func(ctx context.Context) (*domain.GeoPosition, error) { return nil, nil }
		c := h.loaded(false)

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, r.Final)
		assert.True(t, errors.Is(r.Err, apperror.ErrPositionUnavailable))
		assert.Equal(t, "Could not acquire location", h.display.lastStatus())
		assert.NotContains(t, h.log.list(), "submit")
	})

	t.Run("provider failure is distinguished", func(t *testing.T) {
		h := newHarness()
		h.locator.fn = func(ctx context.Context) (*domain.GeoPosition, error) { return nil, errors.New("gps offline") }
		c := h.loaded(false)

		r := c.Clock(ctx)
		assert.True(t, errors.Is(r.Err, apperror.ErrPositionUnavailable))
		assert.Equal(t, "Could not acquire location: gps offline", h.display.lastStatus())
		assert.NotContains(t, h.log.list(), "submit")
	})
}

func TestController_Clock_DegradedSendsNoWorkLocation(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
		return domain.UserProfile{}, errors.New("dial tcp: connection refused")
	}
	var gotWL *int64
	called := false
	h.invoker.fn = func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
		called, gotWL = true, wl
		return domain.ClockResult{}, &apiclient.HTTPError{StatusCode: http.StatusBadRequest}
	}
	c := h.controller(false)
	c.Init(ctx)

	r := c.Clock(ctx)
	assert.True(t, called)
	assert.Nil(t, gotWL)
	assert.Equal(t, workflow.StateFailed, r.Final)
}

// The controller wired to the real invoker and a mocked service client.
func TestController_Clock_EndToEndRendering(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*harness, *apiMock.MockClient, *workflow.Controller) {
		ctrl := gomock.NewController(t)
		client := apiMock.NewMockClient(ctrl)
		h := newHarness()
		h.locator.fn = func(ctx context.Context) (*domain.GeoPosition, error) {
			return &domain.GeoPosition{Latitude: 21.0285, Longitude: 105.8542}, nil
		}
		h.loader.fn = func(ctx context.Context) (domain.UserProfile, error) {
			return domain.UserProfile{Username: "alice", AllowedLocations: []domain.WorkLocation{{ID: 77}}}, nil
		}
		c := workflow.NewController(h.gate, h.locator, clock.NewInvoker(client), h.loader, h.display, workflow.Options{})
		c.Init(ctx)
		return h, client, c
	}

	wl := int64(77)
	wantReq := domain.ClockRequest{Latitude: 21.0285, Longitude: 105.8542, Type: nil, WorkLocationID: &wl}

	t.Run("request shape and valid label", func(t *testing.T) {
		h, client, c := setup(t)
		client.EXPECT().Clock(gomock.Any(), wantReq).
			Return(domain.ClockResult{Type: "IN", Timestamp: "2026-10-17 08:00:00", DistanceM: 33.21, WithinGeofence: true}, nil)

		c.Clock(ctx)
		s := h.display.lastStatus()
		assert.Contains(t, s, "IN")
		assert.Contains(t, s, "2026-10-17 08:00:00")
		assert.Contains(t, s, "33.21")
		assert.Contains(t, s, "valid")
	})

	t.Run("outside range label", func(t *testing.T) {
		h, client, c := setup(t)
		client.EXPECT().Clock(gomock.Any(), wantReq).
			Return(domain.ClockResult{Type: "OUT", Timestamp: "t", DistanceM: 2000, WithinGeofence: false}, nil)

		c.Clock(ctx)
		assert.Contains(t, h.display.lastStatus(), "outside range")
	})

	t.Run("403 forbidden", func(t *testing.T) {
		h, client, c := setup(t)
		diag := "forbidden"
		client.EXPECT().Clock(gomock.Any(), wantReq).
			Return(domain.ClockResult{}, &apiclient.HTTPError{StatusCode: http.StatusForbidden, Diagnostic: &diag})

		r := c.Clock(ctx)
		assert.Equal(t, workflow.StateFailed, r.Final)
		assert.Contains(t, h.display.lastStatus(), "403")
		assert.Contains(t, h.display.lastStatus(), "forbidden")
		assert.Empty(t, h.display.notices)
	})

	t.Run("transport timeout", func(t *testing.T) {
		h, client, c := setup(t)
		client.EXPECT().Clock(gomock.Any(), wantReq).
			Return(domain.ClockResult{}, &url.Error{Op: "Post", URL: "http://svc/clock", Err: errors.New("timeout")})

		c.Clock(ctx)
		assert.Contains(t, h.display.lastStatus(), "timeout")
	})
}

func TestController_Clock_SingleFlight(t *testing.T) {
	ctx := context.Background()

	t.Run("second tap joins in-flight attempt", func(t *testing.T) {
		h := newHarness()
		entered := make(chan struct{})
		release := make(chan struct{})
		var once sync.Once
		h.locator.fn = func(ctx context.Context) (*domain.GeoPosition, error) {
			once.Do(func() { close(entered) })
			<-release
			return &domain.GeoPosition{Latitude: 1, Longitude: 1}, nil
		}
		var submits int32
		h.invoker.fn = func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
			atomic.AddInt32(&submits, 1)
			return domain.ClockResult{Type: "IN", Timestamp: "t"}, nil
		}
		c := workflow.NewController(h.gate, h.locator, h.invoker, h.loader, h.display, workflow.Options{SingleFlight: true})
		c.Init(ctx)

		var wg sync.WaitGroup
		reports := make([]workflow.Report, 2)
		wg.Add(1)
		go func() { defer wg.Done(); reports[0] = c.Clock(ctx) }()
		<-entered
		wg.Add(1)
		go func() { defer wg.Done(); reports[1] = c.Clock(ctx) }()
		time.Sleep(100 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&submits))
		assert.Equal(t, reports[0].Status, reports[1].Status)
	})

	t.Run("without guard every tap submits", func(t *testing.T) {
		h := newHarness()
		var submits int32
		h.invoker.fn = func(ctx context.Context, pos domain.GeoPosition, wl *int64) (domain.ClockResult, error) {
			atomic.AddInt32(&submits, 1)
			return domain.ClockResult{Type: "IN", Timestamp: "t"}, nil
		}
		c := workflow.NewController(h.gate, h.locator, h.invoker, h.loader, h.display, workflow.Options{})
		c.Init(ctx)

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() { defer wg.Done(); c.Clock(ctx) }()
		}
		wg.Wait()
		assert.Equal(t, int32(2), atomic.LoadInt32(&submits))
	})
}
