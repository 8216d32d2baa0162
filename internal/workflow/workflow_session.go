package workflow

import (
	"fmt"

	"go-clockin/internal/domain"
	"go-clockin/internal/shared/apperror"
)

type Mode int

const (
	// ModePending: the profile has not been loaded yet.
	ModePending Mode = iota
	ModeReady
	// ModeBlocked: the profile has no allowed locations, clocking is refused.
	ModeBlocked
	// ModeDegraded: the profile fetch failed; attempts go out without a
	// work location and the server is expected to reject them.
	ModeDegraded
)

func (m Mode) String() string {
	switch m {
	case ModePending:
		return "pending"
	case ModeReady:
		return "ready"
	case ModeBlocked:
		return "blocked"
	case ModeDegraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// SessionState is a value: every change returns a new one.
type SessionState struct {
	SelectedWorkLocationID *int64
	AllowedLocations       []domain.WorkLocation
	Mode                   Mode
}

func NewSessionState() SessionState {
	return SessionState{Mode: ModePending}
}

// WithProfile selects the first allowed location, or blocks clocking when
// there is none.
func (s SessionState) WithProfile(p domain.UserProfile) SessionState {
	allowed := make([]domain.WorkLocation, len(p.AllowedLocations))
	copy(allowed, p.AllowedLocations)

	next := SessionState{AllowedLocations: allowed}
	if len(allowed) == 0 {
		next.Mode = ModeBlocked
		return next
	}
	id := allowed[0].ID
	next.SelectedWorkLocationID = &id
	next.Mode = ModeReady
	return next
}

func (s SessionState) WithProfileError() SessionState {
	return SessionState{Mode: ModeDegraded}
}

// ClockReadiness returns nil when an attempt may start. A pending session
// refuses attempts: no request goes out before the profile has settled.
func (s SessionState) ClockReadiness() error {
	switch s.Mode {
	case ModePending:
		return apperror.ErrProfileNotLoaded
	case ModeBlocked:
		return apperror.ErrLocationNotConfigured
	}
	if err := s.Validate(); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, apperror.ErrInternal.Message, 0)
	}
	return nil
}

// SelectedWorkLocationIDCopy returns a copy so callers cannot mutate the session.
func (s SessionState) SelectedWorkLocationIDCopy() *int64 {
	if s.SelectedWorkLocationID == nil {
		return nil
	}
	id := *s.SelectedWorkLocationID
	return &id
}

func (s SessionState) Validate() error {
	if len(s.AllowedLocations) == 0 {
		if s.Mode == ModeReady {
			return fmt.Errorf("workflow: ready session without allowed locations")
		}
		return nil
	}
	if s.SelectedWorkLocationID == nil {
		return fmt.Errorf("workflow: no work location selected")
	}
	for _, l := range s.AllowedLocations {
		if l.ID == *s.SelectedWorkLocationID {
			return nil
		}
	}
	return fmt.Errorf("workflow: selected work location %d is not allowed", *s.SelectedWorkLocationID)
}
