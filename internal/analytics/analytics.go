// Package analytics derives the dashboard, marketing and operational aggregates
// from the loaded collections. Every function is pure and recomputed per request.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"clinic_crm_backend/internal/models"
)

// Bucket is a labelled count, the shape every chart series is built from.
type Bucket struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

const (
	CohortUnder25 = "Sub 25"
	Cohort25To35  = "25-35"
	Cohort36To45  = "36-45"
	Cohort46To60  = "46-60"
	CohortOver60  = "60+"
)

// AgeCohorts counts clients per age band. Age is the difference of calendar years
// only; a birth date that does not parse lands in the last band.
func AgeCohorts(clients []models.Client, now time.Time) []Bucket {
	out := []Bucket{{Name: CohortUnder25}, {Name: Cohort25To35}, {Name: Cohort36To45}, {Name: Cohort46To60}, {Name: CohortOver60}}
	for _, c := range clients {
		out[cohortIndex(c.BirthDate, now)].Value++
	}
	return out
}

// AgeCohort names the band a single birth date falls in.
func AgeCohort(birthDate string, now time.Time) string {
	return []string{CohortUnder25, Cohort25To35, Cohort36To45, Cohort46To60, CohortOver60}[cohortIndex(birthDate, now)]
}

func cohortIndex(birthDate string, now time.Time) int {
	birth, err := time.Parse("2006-01-02", strings.TrimSpace(birthDate))
	if err != nil {
		return 4
	}
	age := now.Year() - birth.Year()
	switch {
	case age < 25:
		return 0
	case age <= 35:
		return 1
	case age <= 45:
		return 2
	case age <= 60:
		return 3
	}
	return 4
}

const (
	TierNew       = "Novos"
	TierRecurring = "Recorrentes"
	TierLoyal     = "Fidelizados"
	TierVIP       = "VIPs"
)

// SpendTier names the lifetime-value tier of a total spent.
func SpendTier(totalSpent float64) string {
	switch {
	case totalSpent < 1000:
		return TierNew
	case totalSpent < 3000:
		return TierRecurring
	case totalSpent < 5000:
		return TierLoyal
	}
	return TierVIP
}

// SpendTiers counts clients per lifetime-value tier.
func SpendTiers(clients []models.Client) []Bucket {
	out := []Bucket{{Name: TierNew}, {Name: TierRecurring}, {Name: TierLoyal}, {Name: TierVIP}}
	index := map[string]int{TierNew: 0, TierRecurring: 1, TierLoyal: 2, TierVIP: 3}
	for _, c := range clients {
		out[index[SpendTier(c.TotalSpent)]].Value++
	}
	return out
}

// ProcedureRankingLimit is how many procedures the ranking keeps.
const ProcedureRankingLimit = 6

// ProcedureRanking counts appointments per procedure label and keeps the most
// frequent ones. Equal counts keep the order the labels were first seen in.
func ProcedureRanking(apps []models.Appointment) []Bucket {
	var out []Bucket
	index := map[string]int{}
	for _, a := range apps {
		i, ok := index[a.Procedure]
		if !ok {
			i = len(out)
			index[a.Procedure] = i
			out = append(out, Bucket{Name: a.Procedure})
		}
		out[i].Value++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	if len(out) > ProcedureRankingLimit {
		out = out[:ProcedureRankingLimit]
	}
	if out == nil {
		out = []Bucket{}
	}
	return out
}

// SourceStat is the conversion of one acquisition channel.
type SourceStat struct {
	Source    models.LeadSource `json:"source"`
	Total     int               `json:"total"`
	Converted int               `json:"converted"`
	Rate      float64           `json:"rate"`
}

// SourceConversion reports, per channel with at least one client, the share of
// ACTIVE clients as a percentage rounded to one decimal.
func SourceConversion(clients []models.Client) []SourceStat {
	out := []SourceStat{}
	for _, source := range models.LeadSources {
		stat := SourceStat{Source: source}
		for _, c := range clients {
			if c.Source != source {
				continue
			}
			stat.Total++
			if c.Status == models.ClientStatusActive {
				stat.Converted++
			}
		}
		if stat.Total == 0 {
			continue
		}
		stat.Rate = round1(float64(stat.Converted) / float64(stat.Total) * 100)
		out = append(out, stat)
	}
	return out
}

// ConversionRate is the overall share of ACTIVE clients, in percent.
func ConversionRate(clients []models.Client) float64 {
	if len(clients) == 0 {
		return 0
	}
	active := 0
	for _, c := range clients {
		if c.Status == models.ClientStatusActive {
			active++
		}
	}
	return round1(float64(active) / float64(len(clients)) * 100)
}

// AverageLTV is the mean total spent per client, zero for an empty list.
func AverageLTV(clients []models.Client) float64 {
	if len(clients) == 0 {
		return 0
	}
	var sum float64
	for _, c := range clients {
		sum += c.TotalSpent
	}
	return sum / float64(len(clients))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
