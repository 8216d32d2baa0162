package domain

type ClockType string

const (
	ClockIn  ClockType = "IN"
	ClockOut ClockType = "OUT"
)

type WorkLocation struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
	RadiusM   float64
}

type UserProfile struct {
	Username         string
	AllowedLocations []WorkLocation
}

type GeoPosition struct {
	Latitude  float64
	Longitude float64
}

// ClockRequest is built once per successful location read. A nil Type lets
// the server toggle from the user's last recorded event.
type ClockRequest struct {
	Latitude       float64
	Longitude      float64
	Type           *ClockType
	WorkLocationID *int64
}

type ClockResult struct {
	Type           string
	Timestamp      string
	DistanceM      float64
	WithinGeofence bool
}
