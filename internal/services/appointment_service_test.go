package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic_crm_backend/internal/calendar"
	"clinic_crm_backend/internal/messaging"
	"clinic_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// now is 2024-06-04 10:00 in the clinic zone.
var appointmentNow = time.Date(2024, 6, 4, 10, 0, 0, 0, testLoc)

func newTestAppointmentService(backend *fakeBackend) AppointmentService {
	return NewAppointmentService(backend.loadedState(), messaging.NewComposer("55", "Clínica Teste"), testLoc, fixedClock(appointmentNow))
}

func TestSaveAppointment(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestAppointmentService(backend)

	app, err := svc.SaveAppointment(context.Background(), "", SaveAppointmentRequest{ClientID: "c1", Date: "2024-06-05", Time: "09:30", Procedure: "Botox"})
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)
	assert.Equal(t, models.AppointmentStatusScheduled, app.Status)

	_, err = svc.SaveAppointment(context.Background(), "", SaveAppointmentRequest{ClientID: "c1", Date: "2024-06-05", Time: "9h"})
	assert.ErrorIs(t, err, ErrAppointmentValidation)

	_, err = svc.SaveAppointment(context.Background(), "", SaveAppointmentRequest{ClientID: "c1", Date: "05/06/2024", Time: "09:00"})
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestListAppointments_SortedByDateAndTime(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments.rows = []models.Appointment{
		{ID: "b", Date: "2024-06-05", Time: "14:00"},
		{ID: "a", Date: "2024-06-05", Time: "09:00"},
		{ID: "c", Date: "2024-06-04", Time: "18:00", ClientID: "c9"},
	}
	svc := newTestAppointmentService(backend)

	apps := svc.ListAppointments(AppointmentFilter{})
	require.Len(t, apps, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{apps[0].ID, apps[1].ID, apps[2].ID})
	assert.Len(t, svc.ListAppointments(AppointmentFilter{Date: "2024-06-05"}), 2)
	assert.Len(t, svc.ListAppointments(AppointmentFilter{ClientID: "c9"}), 1)
}

func TestReschedule(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments.rows = []models.Appointment{{ID: "a1", ClientID: "c1", Date: "2024-06-05", Time: "09:00"}}
	svc := newTestAppointmentService(backend)

	moved, err := svc.Reschedule(context.Background(), "a1", "15:30")
	require.NoError(t, err)
	assert.Equal(t, "15:30", moved.Time)
	assert.Equal(t, "2024-06-05", moved.Date)
	require.Len(t, backend.appointments.upserts, 1)

	_, err = svc.Reschedule(context.Background(), "a1", "22:00")
	assert.ErrorIs(t, err, ErrAppointmentValidation)

	_, err = svc.Reschedule(context.Background(), "missing", "10:00")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSendReminder(t *testing.T) {
	backend := newFakeBackend()
	backend.clients.rows = []models.Client{{ID: "c1", Name: "Ana", Phone: "(11) 98888-7777"}}
	backend.staff.rows = []models.User{{ID: "p1", Name: "Dra. Jéssica"}}
	backend.appointments.rows = []models.Appointment{
		// 23h ahead: eligible.
		{ID: "soon", ClientID: "c1", ProfessionalID: "p1", Procedure: "Botox", Date: "2024-06-05", Time: "09:00"},
		// 30h ahead: outside the window.
		{ID: "later", ClientID: "c1", Procedure: "Botox", Date: "2024-06-05", Time: "16:00"},
	}
	svc := newTestAppointmentService(backend)

	pending := svc.PendingReminders()
	require.Len(t, pending, 1)
	assert.Equal(t, "soon", pending[0].ID)

	reminder, err := svc.SendReminder(context.Background(), "soon")
	require.NoError(t, err)
	assert.True(t, reminder.Appointment.ReminderSent)
	assert.Equal(t, "Ana", reminder.ClientName)
	assert.Contains(t, reminder.Message, "05 de junho")
	assert.True(t, strings.HasPrefix(reminder.Link, "https://wa.me/5511988887777?text="))
	assert.Contains(t, reminder.ProfessionalAlert, "Dra. Jéssica")

	_, err = svc.SendReminder(context.Background(), "soon")
	assert.ErrorIs(t, err, ErrReminderNotEligible)
	_, err = svc.SendReminder(context.Background(), "later")
	assert.ErrorIs(t, err, ErrReminderNotEligible)
	assert.Empty(t, svc.PendingReminders())
}

func TestSendReminder_ConcurrentSendsRemindOnce(t *testing.T) {
	backend := newFakeBackend()
	backend.clients.rows = []models.Client{{ID: "c1", Name: "Ana", Phone: "(11) 98888-7777"}}
	backend.appointments.rows = []models.Appointment{
		{ID: "soon", ClientID: "c1", Procedure: "Botox", Date: "2024-06-05", Time: "09:00"},
	}
	backend.appointments.upsertDelay = 50 * time.Millisecond
	svc := newTestAppointmentService(backend)

	const senders = 5
	errs := make([]error, senders)
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SendReminder(context.Background(), "soon")
		}(i)
	}
	wg.Wait()

	sent := 0
	for _, err := range errs {
		if err == nil {
			sent++
			continue
		}
		assert.ErrorIs(t, err, ErrReminderNotEligible)
	}
	assert.Equal(t, 1, sent)
	assert.Len(t, backend.appointments.upserts, 1)
}

func TestCalendarViews(t *testing.T) {
	backend := newFakeBackend()
	backend.appointments.rows = []models.Appointment{
		{ID: "a1", Date: "2024-06-05", Time: "09:00"},
		{ID: "a2", Date: "2024-06-05", Time: "09:00"},
	}
	svc := newTestAppointmentService(backend)

	slots, err := svc.DayView("2024-06-05")
	require.NoError(t, err)
	require.Len(t, slots, 28)
	assert.Equal(t, "09:00", slots[2].Time)
	assert.Len(t, slots[2].Appointments, 2)

	week, err := svc.WeekView("2024-06-05")
	require.NoError(t, err)
	assert.Len(t, week, 7)

	month, err := svc.MonthView("2024-06-05")
	require.NoError(t, err)
	assert.Len(t, month, 42)

	_, err = svc.DayView("june")
	assert.ErrorIs(t, err, ErrDateFormat)
}

func TestNavigate(t *testing.T) {
	svc := newTestAppointmentService(newFakeBackend())

	next, err := svc.Navigate("2024-01-31", calendar.ModeMonth, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", next)

	prev, err := svc.Navigate("2024-06-05", calendar.ModeWeek, -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-29", prev)

	_, err = svc.Navigate("2024-06-05", "year", 1)
	assert.ErrorIs(t, err, ErrAppointmentValidation)
}
