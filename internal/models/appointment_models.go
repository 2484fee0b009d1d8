package models

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCanceled  AppointmentStatus = "CANCELED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCanceled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment links a client and a professional at a date and time-of-day.
// Date and Time are kept as the labels the calendar grid matches on.
type Appointment struct {
	ID             string            `json:"id"`
	ClientID       string            `json:"client_id" binding:"required"`
	ProfessionalID string            `json:"professional_id"`
	Procedure      string            `json:"procedure"`
	Date           string            `json:"date" binding:"required"` // YYYY-MM-DD
	Time           string            `json:"time" binding:"required"` // HH:MM
	Status         AppointmentStatus `json:"status"`
	ReminderSent   bool              `json:"reminder_sent"`
}
