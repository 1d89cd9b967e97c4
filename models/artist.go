package models

// Artist is one row of the staff roster sheet.
type Artist struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	Location  string `json:"location"`
	Schedule  string `json:"schedule"`
	Notes     string `json:"notes"`
}
