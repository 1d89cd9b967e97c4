package calendar

import (
	"context"
	"fmt"
	"time"

	"aitana/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarService wraps appointment create/list against the shop calendar.
type CalendarService interface {
	CreateEvent(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error)
	ListUpcoming(ctx context.Context) ([]models.Appointment, error)
}

// GoogleCalendarService is the production implementation.
type GoogleCalendarService struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendarService builds a calendar client from raw
// service-account credentials JSON.
func NewGoogleCalendarService(ctx context.Context, credentialsJSON []byte, calendarID string) (*GoogleCalendarService, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: create client: %w", err)
	}
	return &GoogleCalendarService{svc: svc, calendarID: calendarID}, nil
}

func (s *GoogleCalendarService) CreateEvent(ctx context.Context, req models.AppointmentRequest) (*models.Appointment, error) {
	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       &gcal.EventDateTime{DateTime: req.StartTime},
		End:         &gcal.EventDateTime{DateTime: req.EndTime},
	}
	created, err := s.svc.Events.Insert(s.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}
	return toAppointment(created), nil
}

// ListUpcoming returns the next ten future events ordered by start time.
func (s *GoogleCalendarService) ListUpcoming(ctx context.Context) ([]models.Appointment, error) {
	resp, err := s.svc.Events.List(s.calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(10).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}

	appointments := make([]models.Appointment, 0, len(resp.Items))
	for _, item := range resp.Items {
		appointments = append(appointments, *toAppointment(item))
	}
	return appointments, nil
}

func toAppointment(e *gcal.Event) *models.Appointment {
	appt := &models.Appointment{
		ID:          e.Id,
		Summary:     e.Summary,
		Description: e.Description,
		HTMLLink:    e.HtmlLink,
	}
	if e.Start != nil {
		appt.StartTime = e.Start.DateTime
	}
	if e.End != nil {
		appt.EndTime = e.End.DateTime
	}
	return appt
}
