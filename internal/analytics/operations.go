package analytics

import (
	"math"
	"strings"

	"clinic_crm_backend/internal/models"
)

const (
	StatusDone      = "Concluídos"
	StatusCanceled  = "Cancelados"
	StatusScheduled = "Agendados"
)

// isDone counts confirmed appointments as effected, the way the clinic reports them.
func isDone(a models.Appointment) bool {
	return a.Status == models.AppointmentStatusCompleted || a.Status == models.AppointmentStatusConfirmed
}

// Occupancy summarises how much of the schedule capacity is booked.
type Occupancy struct {
	Filled    int     `json:"filled"`
	Capacity  int     `json:"capacity"`
	Rate      float64 `json:"rate"`
	Canceled  int     `json:"canceled"`
	Completed int     `json:"completed"`
	NoShow    int     `json:"no_show"`
}

// OccupancyMetrics computes the occupancy card. The no-show figure is an estimate:
// the configured share of cancellations, rounded down.
func OccupancyMetrics(apps []models.Appointment, capacity int, noShowRatio float64) Occupancy {
	o := Occupancy{Filled: len(apps), Capacity: capacity}
	if capacity > 0 {
		o.Rate = round1(float64(o.Filled) / float64(capacity) * 100)
	}
	for _, a := range apps {
		switch {
		case isDone(a):
			o.Completed++
		case a.Status == models.AppointmentStatusCanceled:
			o.Canceled++
		}
	}
	o.NoShow = int(math.Floor(float64(o.Canceled) * noShowRatio))
	return o
}

// ProfessionalStats is one staff member's appointment tally.
type ProfessionalStats struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Canceled  int    `json:"canceled"`
}

// Productivity tallies appointments per staff member, in staff order.
// Names are shortened to the first word.
func Productivity(apps []models.Appointment, staff []models.User) []ProfessionalStats {
	out := make([]ProfessionalStats, 0, len(staff))
	for _, u := range staff {
		stat := ProfessionalStats{ID: u.ID, Name: firstName(u.Name)}
		for _, a := range apps {
			if a.ProfessionalID != u.ID {
				continue
			}
			stat.Total++
			if isDone(a) {
				stat.Completed++
			} else if a.Status == models.AppointmentStatusCanceled {
				stat.Canceled++
			}
		}
		out = append(out, stat)
	}
	return out
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// StatusBreakdown counts appointments as done, canceled or still scheduled.
func StatusBreakdown(apps []models.Appointment) []Bucket {
	out := []Bucket{{Name: StatusDone}, {Name: StatusCanceled}, {Name: StatusScheduled}}
	for _, a := range apps {
		switch {
		case isDone(a):
			out[0].Value++
		case a.Status == models.AppointmentStatusCanceled:
			out[1].Value++
		case a.Status == models.AppointmentStatusScheduled:
			out[2].Value++
		}
	}
	return out
}
