package attendance

import (
	"context"
	"time"

	"go-clockin/internal/apiclient"
	attendanceerrors "go-clockin/internal/attendance/errors"
	"go-clockin/internal/domain"
	"go-clockin/internal/shared/apperror"
	"go-clockin/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	Me(ctx context.Context, username string) (apiclient.MeResponse, error)
	Clock(ctx context.Context, username string, req apiclient.ClockRequest) (ClockResponse, error)
}

type service struct {
	repo    Repository
	metrics *Metrics
	now     func() time.Time
	logger  *zap.Logger
}

type ServiceOption func(*service)

// WithNow replaces the wall clock used for timestamps and the day boundary.
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) { s.now = now }
}

func WithServiceLogger(l *zap.Logger) ServiceOption {
	return func(s *service) { s.logger = l }
}

func NewService(repo Repository, metrics *Metrics, opts ...ServiceOption) Service {
	s := &service{
		repo:    repo,
		metrics: metrics,
		now:     time.Now,
		logger:  zap.L().Named("attendance.service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Me(ctx context.Context, username string) (apiclient.MeResponse, error) {
	emp, err := s.repo.FindEmployee(ctx, username)
	if err != nil {
		return apiclient.MeResponse{}, err
	}

	resp := apiclient.MeResponse{
		Username:         emp.Username,
		AllowedLocations: make([]apiclient.WorkLocationResponse, 0, len(emp.AllowedLocationIDs)),
	}
	for _, id := range emp.AllowedLocationIDs {
		loc, err := s.repo.FindLocation(ctx, id)
		if err != nil {
			return apiclient.MeResponse{}, err
		}
		resp.AllowedLocations = append(resp.AllowedLocations, *loc)
	}
	return resp, nil
}

func (s *service) Clock(ctx context.Context, username string, req apiclient.ClockRequest) (ClockResponse, error) {
	resp, err := s.clock(ctx, username, req)
	if err != nil {
		s.metrics.observeRejected(apperror.CodeOf(err))
		return ClockResponse{}, err
	}
	return resp, nil
}

func (s *service) clock(ctx context.Context, username string, req apiclient.ClockRequest) (ClockResponse, error) {
	emp, err := s.repo.FindEmployee(ctx, username)
	if err != nil {
		return ClockResponse{}, err
	}

	var locID int64
	if req.WorkLocationID == nil {
		if len(emp.AllowedLocationIDs) == 0 {
			return ClockResponse{}, attendanceerrors.ErrNoWorkLocation
		}
		locID = emp.AllowedLocationIDs[0]
	} else {
		locID = *req.WorkLocationID
	}

	loc, err := s.repo.FindLocation(ctx, locID)
	if err != nil {
		return ClockResponse{}, err
	}
	if !allows(emp, loc.ID) {
		return ClockResponse{}, attendanceerrors.ErrWorkLocationNotAllowed
	}

	lat, lon := *req.Latitude, *req.Longitude
	raw := haversineM(lat, lon, loc.Latitude, loc.Longitude)
	distance := round2(raw)
	now := s.now()

	clockType, err := s.resolveType(ctx, username, req.Type, now)
	if err != nil {
		return ClockResponse{}, err
	}

	event := Event{
		ID:             uuid.New(),
		Username:       username,
		Type:           clockType,
		Timestamp:      now,
		WorkLocationID: loc.ID,
		Latitude:       lat,
		Longitude:      lon,
		DistanceM:      distance,
		WithinGeofence: raw <= loc.RadiusM,
	}
	if err := s.repo.Create(ctx, &event); err != nil {
		return ClockResponse{}, err
	}
	s.metrics.observeEvent(event)

	s.logger.Info("clock recorded", append(contextutil.LogFields(ctx),
		zap.String("type", string(event.Type)),
		zap.Int64("work_location_id", loc.ID),
		zap.Float64("distance_m", distance),
		zap.Bool("within_geofence", event.WithinGeofence),
	)...)

	return ClockResponse{
		Ok: true,
		ClockResponse: apiclient.ClockResponse{
			Type:           string(event.Type),
			Timestamp:      event.Timestamp.Format(timestampLayout),
			DistanceM:      event.DistanceM,
			WithinGeofence: event.WithinGeofence,
		},
		WorkLocation: *loc,
	}, nil
}

// resolveType honours an explicit IN/OUT and otherwise toggles: OUT when
// today's last IN is newer than today's last OUT, IN otherwise.
func (s *service) resolveType(ctx context.Context, username string, requested *string, now time.Time) (domain.ClockType, error) {
	if requested != nil {
		switch t := domain.ClockType(*requested); t {
		case domain.ClockIn, domain.ClockOut:
			return t, nil
		}
	}

	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	lastIn, err := s.repo.FindLastByType(ctx, username, domain.ClockIn, startOfDay)
	if err != nil {
		return "", err
	}
	lastOut, err := s.repo.FindLastByType(ctx, username, domain.ClockOut, startOfDay)
	if err != nil {
		return "", err
	}

	if lastIn != nil && (lastOut == nil || lastIn.Timestamp.After(lastOut.Timestamp)) {
		return domain.ClockOut, nil
	}
	return domain.ClockIn, nil
}

func allows(emp *Employee, id int64) bool {
	for _, allowed := range emp.AllowedLocationIDs {
		if allowed == id {
			return true
		}
	}
	return false
}
