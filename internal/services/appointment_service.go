package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/calendar"
	"clinic_crm_backend/internal/messaging"
	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"
)

var (
	ErrAppointmentNotFound   = errors.New("appointment not found")
	ErrAppointmentValidation = errors.New("appointment data validation error")
	ErrReminderNotEligible   = errors.New("appointment is not within the reminder window or was already reminded")
)

type SaveAppointmentRequest struct {
	ClientID       string                   `json:"client_id" binding:"required"`
	ProfessionalID string                   `json:"professional_id"`
	Procedure      string                   `json:"procedure"`
	Date           string                   `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string                   `json:"time" binding:"required"` // HH:MM
	Status         models.AppointmentStatus `json:"status"`
	ReminderSent   bool                     `json:"reminder_sent"`
}

type AppointmentFilter struct {
	Date     string
	ClientID string
}

// Reminder is what the operator opens to send a confirmation request.
type Reminder struct {
	Appointment       models.Appointment `json:"appointment"`
	ClientName        string             `json:"client_name"`
	Message           string             `json:"message"`
	Link              string             `json:"link"`
	ProfessionalAlert string             `json:"professional_alert,omitempty"`
}

type AppointmentService interface {
	ListAppointments(filter AppointmentFilter) []models.Appointment
	GetAppointment(appointmentID string) (*models.Appointment, error)
	SaveAppointment(ctx context.Context, appointmentID string, req SaveAppointmentRequest) (*models.Appointment, error)
	DeleteAppointment(ctx context.Context, appointmentID string) error
	Reschedule(ctx context.Context, appointmentID, slot string) (*models.Appointment, error)
	SendReminder(ctx context.Context, appointmentID string) (*Reminder, error)
	PendingReminders() []models.Appointment

	DayView(date string) ([]calendar.Slot, error)
	WeekView(date string) ([]calendar.Day, error)
	MonthView(date string) ([]calendar.Cell, error)
	Navigate(date string, mode calendar.Mode, direction int) (string, error)
}

type appointmentService struct {
	state    *appstate.State
	composer *messaging.Composer
	loc      *time.Location
	now      Clock
}

func NewAppointmentService(state *appstate.State, composer *messaging.Composer, loc *time.Location, now Clock) AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &appointmentService{state: state, composer: composer, loc: loc, now: now}
}

func (s *appointmentService) ListAppointments(filter AppointmentFilter) []models.Appointment {
	apps := s.state.Appointments.Filter(func(a models.Appointment) bool {
		if filter.Date != "" && a.Date != filter.Date {
			return false
		}
		return filter.ClientID == "" || a.ClientID == filter.ClientID
	})
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].Date != apps[j].Date {
			return apps[i].Date < apps[j].Date
		}
		return apps[i].Time < apps[j].Time
	})
	return apps
}

func (s *appointmentService) GetAppointment(appointmentID string) (*models.Appointment, error) {
	app, ok := s.state.Appointments.Get(appointmentID)
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &app, nil
}

func validTimeLabel(label string) bool {
	_, err := time.Parse(calendar.TimeLayout, label)
	return err == nil && len(label) == len(calendar.TimeLayout)
}

func (s *appointmentService) SaveAppointment(ctx context.Context, appointmentID string, req SaveAppointmentRequest) (*models.Appointment, error) {
	if strings.TrimSpace(req.ClientID) == "" {
		return nil, fmt.Errorf("%w: client is required", ErrAppointmentValidation)
	}
	if !validDate(req.Date) {
		return nil, ErrDateFormat
	}
	if !validTimeLabel(req.Time) {
		return nil, fmt.Errorf("%w: time must be HH:MM", ErrAppointmentValidation)
	}
	if req.Status == "" {
		req.Status = models.AppointmentStatusScheduled
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrAppointmentValidation, req.Status)
	}

	saved, err := s.state.Appointments.Save(ctx, models.Appointment{
		ID:             appointmentID,
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		Procedure:      strings.TrimSpace(req.Procedure),
		Date:           req.Date,
		Time:           req.Time,
		Status:         req.Status,
		ReminderSent:   req.ReminderSent,
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *appointmentService) DeleteAppointment(ctx context.Context, appointmentID string) error {
	if _, ok := s.state.Appointments.Get(appointmentID); !ok {
		return ErrAppointmentNotFound
	}
	if err := s.state.Appointments.Delete(ctx, appointmentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAppointmentNotFound
		}
		return err
	}
	return nil
}

// Reschedule is the drop of an appointment onto a day-view slot.
func (s *appointmentService) Reschedule(ctx context.Context, appointmentID, slot string) (*models.Appointment, error) {
	updated, err := s.state.Appointments.Update(ctx, appointmentID, func(a *models.Appointment) error {
		moved, err := calendar.Reschedule(*a, slot)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrAppointmentValidation, err)
		}
		*a = moved
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// SendReminder builds the confirmation message and compose link and flags the
// appointment as reminded. Delivery itself happens on the operator's device.
func (s *appointmentService) SendReminder(ctx context.Context, appointmentID string) (*Reminder, error) {
	now := s.now()
	app, ok := s.state.Appointments.Get(appointmentID)
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if !calendar.IsReminderEligible(app, now, s.loc) {
		return nil, ErrReminderNotEligible
	}
	client, ok := s.state.Clients.Get(app.ClientID)
	if !ok {
		return nil, fmt.Errorf("%w: appointment client %s", ErrClientNotFound, app.ClientID)
	}

	message := s.composer.ReminderMessage(client.Name, app.Procedure, app.Date, app.Time)
	reminder := &Reminder{
		ClientName: client.Name,
		Message:    message,
		Link:       s.composer.WhatsAppLink(client.Phone, message),
	}
	if pro, ok := s.state.Staff.Get(app.ProfessionalID); ok {
		reminder.ProfessionalAlert = s.composer.ProfessionalAlertMessage(pro.Name, client.Name, app.Procedure, app.Time)
	}

	// Re-checked under the collection's write lock; a concurrent send may have won.
	updated, err := s.state.Appointments.Update(ctx, appointmentID, func(a *models.Appointment) error {
		if !calendar.IsReminderEligible(*a, now, s.loc) {
			return ErrReminderNotEligible
		}
		a.ReminderSent = true
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	reminder.Appointment = updated
	return reminder, nil
}

// PendingReminders lists appointments that can be reminded right now.
func (s *appointmentService) PendingReminders() []models.Appointment {
	now := s.now()
	return s.state.Appointments.Filter(func(a models.Appointment) bool {
		return calendar.IsReminderEligible(a, now, s.loc)
	})
}

func (s *appointmentService) DayView(date string) ([]calendar.Slot, error) {
	if !validDate(date) {
		return nil, ErrDateFormat
	}
	return calendar.DayView(s.state.Appointments.All(), date), nil
}

func (s *appointmentService) WeekView(date string) ([]calendar.Day, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, ErrDateFormat
	}
	return calendar.WeekView(s.state.Appointments.All(), d), nil
}

func (s *appointmentService) MonthView(date string) ([]calendar.Cell, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, ErrDateFormat
	}
	return calendar.MonthView(s.state.Appointments.All(), d.Year(), d.Month()), nil
}

// Navigate returns the date one day, week or month away from date.
func (s *appointmentService) Navigate(date string, mode calendar.Mode, direction int) (string, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return "", ErrDateFormat
	}
	next, err := calendar.Navigate(d, mode, direction)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAppointmentValidation, err)
	}
	return next.Format(calendar.DateLayout), nil
}
