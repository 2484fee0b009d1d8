package analytics

import (
	"testing"
	"time"

	"clinic_crm_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june2024 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAgeCohort_Examples(t *testing.T) {
	assert.Equal(t, Cohort25To35, AgeCohort("1990-05-15", june2024))
	assert.Equal(t, CohortUnder25, AgeCohort("2000-12-31", june2024))
	assert.Equal(t, Cohort25To35, AgeCohort("1989-01-01", june2024), "35 is still 25-35")
	assert.Equal(t, Cohort36To45, AgeCohort("1988-01-01", june2024))
	assert.Equal(t, Cohort46To60, AgeCohort("1964-07-01", june2024), "birthday not yet reached still counts the year")
	assert.Equal(t, CohortOver60, AgeCohort("1963-01-01", june2024))
	assert.Equal(t, CohortOver60, AgeCohort("", june2024))
	assert.Equal(t, CohortOver60, AgeCohort("15/05/1990", june2024))
}

func TestAgeCohorts_SumToTotal(t *testing.T) {
	clients := []models.Client{
		{BirthDate: "1990-05-15"}, {BirthDate: "2003-02-02"}, {BirthDate: "1980-10-10"},
		{BirthDate: "1970-03-03"}, {BirthDate: "1950-01-01"}, {BirthDate: "garbage"}, {},
	}
	buckets := AgeCohorts(clients, june2024)
	require.Len(t, buckets, 5)
	total := 0
	for _, b := range buckets {
		total += b.Value
	}
	assert.Equal(t, len(clients), total)
	assert.Equal(t, []Bucket{
		{Name: "Sub 25", Value: 1},
		{Name: "25-35", Value: 1},
		{Name: "36-45", Value: 1},
		{Name: "46-60", Value: 1},
		{Name: "60+", Value: 3},
	}, buckets)
}

func TestSpendTiers(t *testing.T) {
	assert.Equal(t, TierLoyal, SpendTier(3200))
	assert.Equal(t, TierNew, SpendTier(999.99))
	assert.Equal(t, TierRecurring, SpendTier(1000))
	assert.Equal(t, TierLoyal, SpendTier(3000))
	assert.Equal(t, TierVIP, SpendTier(5000))

	clients := []models.Client{{TotalSpent: 0}, {TotalSpent: 1500}, {TotalSpent: 3200}, {TotalSpent: 4999}, {TotalSpent: 12000}}
	buckets := SpendTiers(clients)
	total := 0
	for _, b := range buckets {
		total += b.Value
	}
	assert.Equal(t, len(clients), total)
	assert.Equal(t, []Bucket{{"Novos", 1}, {"Recorrentes", 1}, {"Fidelizados", 2}, {"VIPs", 1}}, buckets)
}

func TestProcedureRanking(t *testing.T) {
	labels := []string{
		"Botox", "Laser", "Preenchimento", "Laser", "Peeling", "Botox", "Laser",
		"Limpeza", "Microagulhamento", "Bioestimulador", "Fios", "Peeling",
	}
	apps := make([]models.Appointment, len(labels))
	for i, l := range labels {
		apps[i] = models.Appointment{Procedure: l}
	}
	ranking := ProcedureRanking(apps)
	require.Len(t, ranking, 6)
	assert.Equal(t, Bucket{"Laser", 3}, ranking[0])
	// Botox and Peeling tie at 2; Botox was seen first.
	assert.Equal(t, Bucket{"Botox", 2}, ranking[1])
	assert.Equal(t, Bucket{"Peeling", 2}, ranking[2])
	// Singletons keep first-seen order.
	assert.Equal(t, "Preenchimento", ranking[3].Name)
	assert.Equal(t, "Limpeza", ranking[4].Name)
	assert.Equal(t, "Microagulhamento", ranking[5].Name)
	for i := 1; i < len(ranking); i++ {
		assert.GreaterOrEqual(t, ranking[i-1].Value, ranking[i].Value)
	}

	assert.Empty(t, ProcedureRanking(nil))
}

func TestSourceConversion(t *testing.T) {
	clients := []models.Client{
		{Source: models.LeadSourceInstagram, Status: models.ClientStatusActive},
		{Source: models.LeadSourceInstagram, Status: models.ClientStatusLead},
		{Source: models.LeadSourceInstagram, Status: models.ClientStatusLead},
		{Source: models.LeadSourceReferral, Status: models.ClientStatusActive},
	}
	stats := SourceConversion(clients)
	require.Len(t, stats, 2, "channels without clients are omitted")
	assert.Equal(t, SourceStat{Source: models.LeadSourceInstagram, Total: 3, Converted: 1, Rate: 33.3}, stats[0])
	assert.Equal(t, SourceStat{Source: models.LeadSourceReferral, Total: 1, Converted: 1, Rate: 100}, stats[1])

	assert.Equal(t, 50.0, ConversionRate(clients))
	assert.Equal(t, 0.0, ConversionRate(nil))
}

func TestAverageLTV(t *testing.T) {
	assert.Equal(t, 0.0, AverageLTV(nil))
	assert.InDelta(t, 2000.0, AverageLTV([]models.Client{{TotalSpent: 1000}, {TotalSpent: 3000}}), 1e-9)
}

func TestOccupancyMetrics(t *testing.T) {
	apps := []models.Appointment{
		{Status: models.AppointmentStatusCompleted},
		{Status: models.AppointmentStatusConfirmed},
		{Status: models.AppointmentStatusScheduled},
		{Status: models.AppointmentStatusCanceled},
		{Status: models.AppointmentStatusCanceled},
		{Status: models.AppointmentStatusCanceled},
		{Status: models.AppointmentStatusCanceled},
		{Status: models.AppointmentStatusCanceled},
	}
	o := OccupancyMetrics(apps, 420, 0.2)
	assert.Equal(t, 8, o.Filled)
	assert.Equal(t, 1.9, o.Rate)
	assert.Equal(t, 2, o.Completed)
	assert.Equal(t, 5, o.Canceled)
	assert.Equal(t, 1, o.NoShow)

	assert.Equal(t, 0.0, OccupancyMetrics(apps, 0, 0.2).Rate)
}

func TestProductivityAndStatusBreakdown(t *testing.T) {
	staff := []models.User{{ID: "u1", Name: "Jéssica Motta"}, {ID: "u2", Name: "Carla"}}
	apps := []models.Appointment{
		{ProfessionalID: "u1", Status: models.AppointmentStatusCompleted},
		{ProfessionalID: "u1", Status: models.AppointmentStatusCanceled},
		{ProfessionalID: "u1", Status: models.AppointmentStatusScheduled},
		{ProfessionalID: "u3", Status: models.AppointmentStatusScheduled},
	}
	stats := Productivity(apps, staff)
	require.Len(t, stats, 2)
	assert.Equal(t, ProfessionalStats{ID: "u1", Name: "Jéssica", Total: 3, Completed: 1, Canceled: 1}, stats[0])
	assert.Equal(t, ProfessionalStats{ID: "u2", Name: "Carla"}, stats[1])

	assert.Equal(t, []Bucket{{"Concluídos", 1}, {"Cancelados", 1}, {"Agendados", 2}}, StatusBreakdown(apps))
}

func TestFinanceSummaryAndTabs(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Type: models.TransactionIncome, Value: 1200},
		{ID: "2", Type: models.TransactionExpense, Value: 300},
		{ID: "3", Type: models.TransactionIncome, Value: 800},
	}
	f := FinanceSummary(txs, nil, nil)
	assert.Equal(t, 2000.0, f.Income)
	assert.Equal(t, 300.0, f.Expenses)
	assert.Nil(t, f.NetMargin)
	assert.Nil(t, f.AverageTicket)

	margin := 62050.0
	assert.Equal(t, &margin, FinanceSummary(txs, &margin, nil).NetMargin)

	assert.Len(t, LedgerTab(txs, TabFlow), 3)
	payable := LedgerTab(txs, TabPayable)
	require.Len(t, payable, 1)
	assert.Equal(t, "2", payable[0].ID)
	assert.Len(t, LedgerTab(txs, TabReceivable), 2)
}

func TestFunnelBoard(t *testing.T) {
	deals := []models.Deal{
		{ID: "d1", StageID: "new", Value: 1000},
		{ID: "d2", StageID: "new", Value: 500},
		{ID: "d3", StageID: "closed", Value: 2500},
		{ID: "d4", StageID: "unknown", Value: 99},
	}
	board := FunnelBoard(deals)
	require.Len(t, board, 5)
	assert.Equal(t, "new", board[0].Stage.ID)
	assert.Equal(t, 2, board[0].Count)
	assert.Equal(t, 1500.0, board[0].Total)
	assert.Equal(t, 0, board[1].Count)
	assert.NotNil(t, board[1].Deals)
	assert.Equal(t, "closed", board[4].Stage.ID)
	assert.Equal(t, 2500.0, board[4].Total)
	assert.Equal(t, 4099.0, PipelineValue(deals))
}

func TestDashboardCards(t *testing.T) {
	clients := []models.Client{{Status: models.ClientStatusActive}, {Status: models.ClientStatusLead}}
	apps := []models.Appointment{{}, {}, {}}
	txs := []models.Transaction{{Type: models.TransactionIncome, Value: 450}, {Type: models.TransactionExpense, Value: 50}}

	d := DashboardCards(clients, apps, txs)
	assert.Equal(t, Dashboard{Leads: 2, ConversionRate: 50, GrossRevenue: 450, Appointments: 3}, d)
}

func TestContexts(t *testing.T) {
	clients := []models.Client{{TotalSpent: 1000}, {TotalSpent: 2000}}
	apps := []models.Appointment{{Procedure: "Botox"}, {Procedure: "Laser"}, {Procedure: "Botox"}}
	assert.Equal(t, "Análise de Pacientes: 2 totais. Top procedimentos: Botox, Laser. LTV Médio: R$ 1500.00",
		PatientContext(clients, apps))

	funnel := FunnelContext([]models.Deal{{Value: 100}, {Value: 200}})
	assert.Contains(t, funnel, "Funil com 2 oportunidades.")

	ops := OperationsContext(apps, Occupancy{Rate: 0.7, Completed: 1, Canceled: 0},
		[]ProfessionalStats{{Name: "Jéssica", Total: 3}})
	assert.Contains(t, ops, "Total de agendamentos: 3.")
	assert.Contains(t, ops, "Taxa de ocupação: 0.7%.")
	assert.Contains(t, ops, "Profissionais mais produtivos: Jéssica (3).")
}
