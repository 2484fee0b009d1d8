package calendar

import (
	"testing"
	"time"

	"clinic_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySlots(t *testing.T) {
	slots := DaySlots()
	require.Len(t, slots, 28)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "08:30", slots[1])
	assert.Equal(t, "21:30", slots[len(slots)-1])
	assert.True(t, IsSlot("13:30"))
	assert.False(t, IsSlot("13:15"))
	assert.False(t, IsSlot("22:00"))
}

func TestDayView_GroupsByExactLabels(t *testing.T) {
	apps := []models.Appointment{
		{ID: "a1", Date: "2024-06-10", Time: "09:00"},
		{ID: "a2", Date: "2024-06-10", Time: "09:00"},
		{ID: "a3", Date: "2024-06-10", Time: "9:00"},
		{ID: "a4", Date: "2024-06-11", Time: "09:00"},
	}
	view := DayView(apps, "2024-06-10")
	require.Len(t, view, 28)
	assert.Equal(t, "09:00", view[2].Time)
	require.Len(t, view[2].Appointments, 2, "appointments may share a slot")
	assert.Equal(t, "a1", view[2].Appointments[0].ID)
	assert.Equal(t, "a2", view[2].Appointments[1].ID)

	total := 0
	for _, s := range view {
		total += len(s.Appointments)
	}
	assert.Equal(t, 2, total)
}

func TestWeekDays_StartOnSunday(t *testing.T) {
	wed := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	days := WeekDays(wed)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-06-09", days[0].Format(DateLayout))
	assert.Equal(t, time.Sunday, days[0].Weekday())
	assert.Equal(t, "2024-06-15", days[6].Format(DateLayout))

	sunday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-09", WeekDays(sunday)[0].Format(DateLayout))
}

func TestWeekView_SortsByTime(t *testing.T) {
	apps := []models.Appointment{
		{ID: "late", Date: "2024-06-12", Time: "17:00"},
		{ID: "early", Date: "2024-06-12", Time: "08:30"},
		{ID: "other-week", Date: "2024-06-19", Time: "10:00"},
	}
	view := WeekView(apps, time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	require.Len(t, view, 7)
	wed := view[3]
	assert.Equal(t, "2024-06-12", wed.Date)
	require.Len(t, wed.Appointments, 2)
	assert.Equal(t, "early", wed.Appointments[0].ID)
	assert.Equal(t, "late", wed.Appointments[1].ID)
}

func TestMonthGrid_Always42Cells(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		month time.Month
		days  int
	}{
		{"february leap year", 2024, time.February, 29},
		{"february non-leap year", 2023, time.February, 28},
		{"february starting on sunday", 2015, time.February, 28},
		{"31-day month starting on saturday", 2023, time.July, 31},
		{"december", 2024, time.December, 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cells := MonthGrid(tc.year, tc.month)
			require.Len(t, cells, 42)
			assert.Equal(t, time.Sunday, mustParse(t, cells[0].Date).Weekday())

			inMonth := 0
			for _, c := range cells {
				if c.CurrentMonth {
					inMonth++
				}
			}
			assert.Equal(t, tc.days, inMonth)
		})
	}
}

func TestMonthGrid_Padding(t *testing.T) {
	// June 2024 starts on a Saturday.
	cells := MonthGrid(2024, time.June)
	assert.Equal(t, "2024-05-26", cells[0].Date)
	assert.False(t, cells[0].CurrentMonth)
	assert.Equal(t, "2024-06-01", cells[6].Date)
	assert.True(t, cells[6].CurrentMonth)
	assert.Equal(t, "2024-07-06", cells[41].Date)
	assert.False(t, cells[41].CurrentMonth)
}

func TestMonthView_CountsAndDayClick(t *testing.T) {
	apps := []models.Appointment{
		{Date: "2024-06-10", Time: "09:00"},
		{Date: "2024-06-10", Time: "10:00"},
	}
	cells := MonthView(apps, 2024, time.June)
	var busy, free Cell
	for _, c := range cells {
		switch c.Date {
		case "2024-06-10":
			busy = c
		case "2024-06-11":
			free = c
		}
	}
	assert.Equal(t, 2, busy.AppointmentCount)
	assert.Equal(t, ModeDay, DayClick(busy))
	assert.Equal(t, ModeMonth, DayClick(free))
}

func TestNavigate(t *testing.T) {
	base := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	next, err := Navigate(base, ModeDay, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", next.Format(DateLayout))

	prev, err := Navigate(base, ModeWeek, -1)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-24", prev.Format(DateLayout))

	month, err := Navigate(time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), ModeMonth, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", month.Format(DateLayout))

	_, err = Navigate(base, Mode("year"), 1)
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestReschedule(t *testing.T) {
	app := models.Appointment{ID: "a1", Date: "2024-06-10", Time: "09:00"}

	moved, err := Reschedule(app, "15:30")
	require.NoError(t, err)
	assert.Equal(t, "15:30", moved.Time)
	assert.Equal(t, "2024-06-10", moved.Date)
	assert.Equal(t, "a1", moved.ID)

	_, err = Reschedule(app, "15:45")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestIsReminderEligible(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, loc)

	at := func(d time.Duration, sent bool) models.Appointment {
		start := now.Add(d)
		return models.Appointment{
			Date:         start.Format(DateLayout),
			Time:         start.Format(TimeLayout),
			ReminderSent: sent,
		}
	}

	assert.True(t, IsReminderEligible(at(24*time.Hour, false), now, loc), "exactly 24h ahead")
	assert.False(t, IsReminderEligible(at(24*time.Hour+time.Minute, false), now, loc), "24h01m ahead")
	assert.False(t, IsReminderEligible(at(-time.Minute, false), now, loc), "already started")
	assert.False(t, IsReminderEligible(at(0, false), now, loc), "starting now")
	assert.True(t, IsReminderEligible(at(23*time.Hour, false), now, loc), "23h ahead")
	assert.False(t, IsReminderEligible(at(23*time.Hour, true), now, loc), "already reminded")
	assert.False(t, IsReminderEligible(models.Appointment{Date: "bad", Time: "09:00"}, now, loc))
}

func mustParse(t *testing.T, label string) time.Time {
	t.Helper()
	d, err := ParseDate(label)
	require.NoError(t, err)
	return d
}
