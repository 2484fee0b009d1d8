// Package calendar builds the day, week and month views of the appointment grid.
// Appointments are matched to cells by their date and time labels, never by
// parsed instants, so the grid shows exactly what was stored.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"clinic_crm_backend/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	firstHour  = 8
	lastHour   = 21
	gridCells  = 42
	daysInWeek = 7
)

// Mode is the calendar zoom level.
type Mode string

const (
	ModeDay   Mode = "day"
	ModeWeek  Mode = "week"
	ModeMonth Mode = "month"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDay || m == ModeWeek || m == ModeMonth
}

var (
	ErrInvalidSlot = errors.New("time is not a calendar slot")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")
	ErrInvalidMode = errors.New("mode must be day, week or month")
)

var daySlots = func() []string {
	slots := make([]string, 0, (lastHour-firstHour+1)*2)
	for h := firstHour; h <= lastHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}()

// DaySlots returns the half-hour labels 08:00 through 21:30.
func DaySlots() []string {
	return append([]string(nil), daySlots...)
}

// IsSlot reports whether label is one of DaySlots.
func IsSlot(label string) bool {
	for _, s := range daySlots {
		if s == label {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD label as a calendar day in UTC.
func ParseDate(label string) (time.Time, error) {
	d, err := time.Parse(DateLayout, label)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, label)
	}
	return d, nil
}

// Slot is one row of the day view.
type Slot struct {
	Time         string               `json:"time"`
	Appointments []models.Appointment `json:"appointments"`
}

// DayView places the day's appointments into their slots. Several appointments may
// share a slot; appointments whose time is not a slot label are not shown.
func DayView(apps []models.Appointment, date string) []Slot {
	view := make([]Slot, len(daySlots))
	index := make(map[string]int, len(daySlots))
	for i, label := range daySlots {
		view[i] = Slot{Time: label, Appointments: []models.Appointment{}}
		index[label] = i
	}
	for _, a := range apps {
		if a.Date != date {
			continue
		}
		if i, ok := index[a.Time]; ok {
			view[i].Appointments = append(view[i].Appointments, a)
		}
	}
	return view
}

// WeekDays returns the seven days of the Sunday-started week containing date.
func WeekDays(date time.Time) []time.Time {
	start := date.AddDate(0, 0, -int(date.Weekday()))
	days := make([]time.Time, daysInWeek)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Day is one column of the week view.
type Day struct {
	Date         string               `json:"date"`
	Weekday      time.Weekday         `json:"weekday"`
	Appointments []models.Appointment `json:"appointments"`
}

// WeekView lists each day's appointments ordered by time label.
func WeekView(apps []models.Appointment, date time.Time) []Day {
	days := WeekDays(date)
	view := make([]Day, len(days))
	for i, d := range days {
		label := d.Format(DateLayout)
		entries := []models.Appointment{}
		for _, a := range apps {
			if a.Date == label {
				entries = append(entries, a)
			}
		}
		sort.SliceStable(entries, func(x, y int) bool { return entries[x].Time < entries[y].Time })
		view[i] = Day{Date: label, Weekday: d.Weekday(), Appointments: entries}
	}
	return view
}

// Cell is one day of the month grid.
type Cell struct {
	Date             string `json:"date"`
	Day              int    `json:"day"`
	CurrentMonth     bool   `json:"current_month"`
	AppointmentCount int    `json:"appointment_count"`
}

// MonthGrid returns six Sunday-started weeks covering the month, padded with the
// trailing days of the previous month and the leading days of the next.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	cells := make([]Cell, gridCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{
			Date:         d.Format(DateLayout),
			Day:          d.Day(),
			CurrentMonth: d.Month() == first.Month() && d.Year() == first.Year(),
		}
	}
	return cells
}

// MonthView is MonthGrid with per-day appointment counts.
func MonthView(apps []models.Appointment, year int, month time.Month) []Cell {
	counts := make(map[string]int)
	for _, a := range apps {
		counts[a.Date]++
	}
	cells := MonthGrid(year, month)
	for i := range cells {
		cells[i].AppointmentCount = counts[cells[i].Date]
	}
	return cells
}

// DayClick returns the view a click on a month cell opens: the day view for days
// with appointments, otherwise the month view stays.
func DayClick(cell Cell) Mode {
	if cell.AppointmentCount > 0 {
		return ModeDay
	}
	return ModeMonth
}

// Navigate moves the selected date one step in the given direction
// (positive forward, negative back).
func Navigate(date time.Time, mode Mode, direction int) (time.Time, error) {
	step := 1
	if direction < 0 {
		step = -1
	}
	switch mode {
	case ModeDay:
		return date.AddDate(0, 0, step), nil
	case ModeWeek:
		return date.AddDate(0, 0, 7*step), nil
	case ModeMonth:
		return date.AddDate(0, step, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
}

// Reschedule applies a drop onto a day-view slot: only the time label changes.
func Reschedule(app models.Appointment, slot string) (models.Appointment, error) {
	if !IsSlot(slot) {
		return app, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	app.Time = slot
	return app, nil
}

// StartTime resolves the appointment's labels to an instant in loc.
func StartTime(app models.Appointment, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, app.Date+" "+app.Time, loc)
}

// ReminderWindow is how far ahead a reminder may be sent.
const ReminderWindow = 24 * time.Hour

// IsReminderEligible reports whether the appointment starts within (now, now+24h]
// and no reminder was sent yet.
func IsReminderEligible(app models.Appointment, now time.Time, loc *time.Location) bool {
	if app.ReminderSent {
		return false
	}
	start, err := StartTime(app, loc)
	if err != nil {
		return false
	}
	diff := start.Sub(now)
	return diff > 0 && diff <= ReminderWindow
}
