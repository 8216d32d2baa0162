package attendance

import (
	"context"
	"sync"
	"time"

	"go-clockin/internal/apiclient"
	attendanceerrors "go-clockin/internal/attendance/errors"
	"go-clockin/internal/domain"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	FindEmployee(ctx context.Context, username string) (*Employee, error)
	FindLocation(ctx context.Context, id int64) (*apiclient.WorkLocationResponse, error)
	Create(ctx context.Context, e *Event) error
	FindLastByType(ctx context.Context, username string, t domain.ClockType, since time.Time) (*Event, error)
}

type memoryRepository struct {
	mu        sync.RWMutex
	employees map[string]Employee
	locations map[int64]apiclient.WorkLocationResponse
	events    []Event
}

func NewMemoryRepository(fx Fixtures) Repository {
	r := &memoryRepository{
		employees: make(map[string]Employee, len(fx.Employees)),
		locations: make(map[int64]apiclient.WorkLocationResponse, len(fx.Locations)),
	}
	for _, e := range fx.Employees {
		r.employees[e.Username] = e
	}
	for _, l := range fx.Locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *memoryRepository) FindEmployee(ctx context.Context, username string) (*Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[username]
	if !ok {
		return nil, attendanceerrors.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *memoryRepository) FindLocation(ctx context.Context, id int64) (*apiclient.WorkLocationResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.locations[id]
	if !ok {
		return nil, attendanceerrors.ErrWorkLocationNotFound
	}
	return &l, nil
}

func (r *memoryRepository) Create(ctx context.Context, e *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, *e)
	return nil
}

// FindLastByType returns nil with no error when nothing matches.
func (r *memoryRepository) FindLastByType(ctx context.Context, username string, t domain.ClockType, since time.Time) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *Event
	for i := range r.events {
		e := r.events[i]
		if e.Username != username || e.Type != t || e.Timestamp.Before(since) {
			continue
		}
		if last == nil || e.Timestamp.After(last.Timestamp) {
			last = &e
		}
	}
	return last, nil
}
