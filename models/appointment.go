package models

// AppointmentRequest creates a calendar event. Times are ISO-8601 with offset,
// e.g. "2025-03-10T14:00:00-07:00".
type AppointmentRequest struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// Appointment is a calendar event as returned to the caller.
type Appointment struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	HTMLLink    string `json:"htmlLink,omitempty"`
}
