package attendance

import "go-clockin/internal/apiclient"

// ClockResponse mirrors the body the service returns on a recorded punch.
// Clients only read the embedded fields.
type ClockResponse struct {
	Ok bool `json:"ok"`
	apiclient.ClockResponse
	WorkLocation apiclient.WorkLocationResponse `json:"work_location"`
}

const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"
