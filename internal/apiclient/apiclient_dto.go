package apiclient

type WorkLocationResponse struct {
	ID        int64   `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	RadiusM   float64 `json:"radius_m" yaml:"radius_m"`
}

type MeResponse struct {
	Username         string                 `json:"username" validate:"required"`
	AllowedLocations []WorkLocationResponse `json:"allowed_locations"`
}

// ClockRequest is the POST /clock body. Type and WorkLocationID are sent as
// explicit nulls when unset.
type ClockRequest struct {
	Latitude       *float64 `json:"latitude" binding:"required"`
	Longitude      *float64 `json:"longitude" binding:"required"`
	Type           *string  `json:"type"`
	WorkLocationID *int64   `json:"work_location_id"`
}

type ClockResponse struct {
	Type           string  `json:"type" validate:"required"`
	Timestamp      string  `json:"timestamp" validate:"required"`
	DistanceM      float64 `json:"distance_m"`
	WithinGeofence bool    `json:"within_geofence"`
}
