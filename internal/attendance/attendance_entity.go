package attendance

import (
	"time"

	"go-clockin/internal/apiclient"
	"go-clockin/internal/domain"

	"github.com/google/uuid"
)

// Event is one recorded clock punch.
type Event struct {
	ID             uuid.UUID
	Username       string
	Type           domain.ClockType
	Timestamp      time.Time
	WorkLocationID int64
	Latitude       float64
	Longitude      float64
	DistanceM      float64
	WithinGeofence bool
}

type Employee struct {
	Username           string  `yaml:"username" validate:"required"`
	AllowedLocationIDs []int64 `yaml:"allowed_location_ids"`
}

// Fixtures is the on-disk seed for the in-memory store.
type Fixtures struct {
	Locations []apiclient.WorkLocationResponse `yaml:"locations" validate:"dive"`
	Employees []Employee                       `yaml:"employees" validate:"dive"`
}
