package roster

import (
	"context"
	"fmt"

	"aitana/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// artistsRange covers the roster tab: name, specialty, location, schedule,
// notes. The first row is a header.
const artistsRange = "Artists!A1:E"

// RosterService exposes the staff roster kept in the shop's spreadsheet.
type RosterService interface {
	GetArtists(ctx context.Context) ([]models.Artist, error)
}

// SheetsRosterService reads the roster from Google Sheets.
type SheetsRosterService struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsRosterService builds a read-only Sheets client from raw
// service-account credentials JSON.
func NewSheetsRosterService(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsRosterService, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("roster: create sheets client: %w", err)
	}
	return &SheetsRosterService{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsRosterService) GetArtists(ctx context.Context) ([]models.Artist, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, artistsRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", artistsRange, err)
	}
	if len(resp.Values) <= 1 {
		return []models.Artist{}, nil
	}

	// Skip the header row.
	artists := make([]models.Artist, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		artists = append(artists, models.Artist{
			Name:      cell(row, 0),
			Specialty: cell(row, 1),
			Location:  cell(row, 2),
			Schedule:  cell(row, 3),
			Notes:     cell(row, 4),
		})
	}
	return artists, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) {
		return ""
	}
	s, _ := row[i].(string)
	return s
}
