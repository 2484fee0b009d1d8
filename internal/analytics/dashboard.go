package analytics

import "clinic_crm_backend/internal/models"

// Dashboard holds the headline cards computed from real data.
type Dashboard struct {
	Leads          int     `json:"leads"`
	ConversionRate float64 `json:"conversion_rate"`
	GrossRevenue   float64 `json:"gross_revenue"`
	Appointments   int     `json:"appointments"`
}

func DashboardCards(clients []models.Client, apps []models.Appointment, txs []models.Transaction) Dashboard {
	return Dashboard{
		Leads:          len(clients),
		ConversionRate: ConversionRate(clients),
		GrossRevenue:   FinanceSummary(txs, nil, nil).Income,
		Appointments:   len(apps),
	}
}
