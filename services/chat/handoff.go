package chat

import (
	"encoding/json"
	"fmt"

	"aitana/models"
)

// FormatSummary renders the fixed multi-line relay template from a
// serialized memory record. The appointment date is the only field with a
// placeholder; the rest render as empty strings when unknown.
func FormatSummary(memory string) (string, error) {
	m, err := DecodeMemory(memory)
	if err != nil {
		return "", err
	}

	date := m.Date
	if date == "" {
		date = "(not specified)"
	}
	return fmt.Sprintf(`Booking Summary:
Name: %s
Email: %s
Phone: %s
Location: %s
Artist: %s
Price Range: %s
Description: %s
Appointment Date: %s`,
		m.Name, m.Email, m.Phone, m.Location, m.Artist, m.PriceRange, m.Description, date), nil
}

// DecodeMemory parses a serialized memory record. Unknown fields are
// ignored; missing ones default to empty/false.
func DecodeMemory(memory string) (models.Memory, error) {
	var m models.Memory
	if err := json.Unmarshal([]byte(memory), &m); err != nil {
		return models.Memory{}, fmt.Errorf("decode memory record: %w", err)
	}
	return m, nil
}
