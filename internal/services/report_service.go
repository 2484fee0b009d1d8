package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic_crm_backend/internal/analytics"
	"clinic_crm_backend/internal/appstate"
	"clinic_crm_backend/internal/config"
	"clinic_crm_backend/internal/fixtures"
	"clinic_crm_backend/internal/insights"
)

var ErrUnknownInsightKind = errors.New("unknown insight kind")

const (
	revenueSeriesDays   = 30
	operationsTrendDays = 30
)

// --- Report DTOs ---

type DashboardReport struct {
	Cards        analytics.Dashboard                        `json:"cards"`
	MonthlySales *fixtures.Section[[]fixtures.MonthlyPoint] `json:"monthly_sales,omitempty"`
	SpecialtyMix *fixtures.Section[[]fixtures.NamedValue]   `json:"specialty_mix,omitempty"`
	Activity     *fixtures.Section[[]fixtures.Activity]     `json:"activity,omitempty"`
}

type PatientReport struct {
	TotalClients  int                                        `json:"total_clients"`
	AverageLTV    float64                                    `json:"average_ltv"`
	AgeCohorts    []analytics.Bucket                         `json:"age_cohorts"`
	SpendTiers    []analytics.Bucket                         `json:"spend_tiers"`
	TopProcedures []analytics.Bucket                         `json:"top_procedures"`
	RevenueSeries *fixtures.Section[[]fixtures.RevenuePoint] `json:"revenue_series,omitempty"`
}

type MarketingReport struct {
	ConversionRate float64                                `json:"conversion_rate"`
	Sources        []analytics.SourceStat                 `json:"sources"`
	Campaigns      *fixtures.Section[[]fixtures.Campaign] `json:"campaigns,omitempty"`
}

type OperationsReport struct {
	Occupancy    analytics.Occupancy                      `json:"occupancy"`
	Productivity []analytics.ProfessionalStats            `json:"productivity"`
	Status       []analytics.Bucket                       `json:"status"`
	Trend        *fixtures.Section[[]fixtures.TrendPoint] `json:"trend,omitempty"`
}

type ReportService interface {
	Dashboard() DashboardReport
	Patients() PatientReport
	Marketing() MarketingReport
	Operations() OperationsReport
	Insights(ctx context.Context, kind insights.Kind) (insights.Result, error)
	SuggestReply(ctx context.Context, message string) (insights.Result, error)
	ExportPatients() ([]byte, error)
	ExportOperations() ([]byte, error)
}

type reportService struct {
	state    *appstate.State
	fixtures *fixtures.Provider
	insights *insights.Service
	business config.BusinessConfig
	loc      *time.Location
	now      Clock
}

func NewReportService(state *appstate.State, provider *fixtures.Provider, insightService *insights.Service, business config.BusinessConfig, loc *time.Location, now Clock) ReportService {
	if now == nil {
		now = time.Now
	}
	return &reportService{state: state, fixtures: provider, insights: insightService, business: business, loc: loc, now: now}
}

func (s *reportService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *reportService) Dashboard() DashboardReport {
	return DashboardReport{
		Cards:        analytics.DashboardCards(s.state.Clients.All(), s.state.Appointments.All(), s.state.Transactions.All()),
		MonthlySales: s.fixtures.MonthlySales(),
		SpecialtyMix: s.fixtures.SpecialtyMix(),
		Activity:     s.fixtures.ActivityFeed(),
	}
}

func (s *reportService) Patients() PatientReport {
	clients := s.state.Clients.All()
	return PatientReport{
		TotalClients:  len(clients),
		AverageLTV:    analytics.AverageLTV(clients),
		AgeCohorts:    analytics.AgeCohorts(clients, s.today()),
		SpendTiers:    analytics.SpendTiers(clients),
		TopProcedures: analytics.ProcedureRanking(s.state.Appointments.All()),
		RevenueSeries: s.fixtures.RevenueSeries(s.today(), revenueSeriesDays),
	}
}

func (s *reportService) Marketing() MarketingReport {
	clients := s.state.Clients.All()
	return MarketingReport{
		ConversionRate: analytics.ConversionRate(clients),
		Sources:        analytics.SourceConversion(clients),
		Campaigns:      s.fixtures.Campaigns(),
	}
}

func (s *reportService) Operations() OperationsReport {
	apps := s.state.Appointments.All()
	return OperationsReport{
		Occupancy:    analytics.OccupancyMetrics(apps, s.business.OccupancyCapacitySlots, s.business.NoShowRatio),
		Productivity: analytics.Productivity(apps, s.state.Staff.All()),
		Status:       analytics.StatusBreakdown(apps),
		Trend:        s.fixtures.OperationsTrend(s.today(), operationsTrendDays),
	}
}

// Insights summarises the current data for the given screen and asks the generator.
func (s *reportService) Insights(ctx context.Context, kind insights.Kind) (insights.Result, error) {
	var summary string
	switch kind {
	case insights.KindPatients:
		summary = analytics.PatientContext(s.state.Clients.All(), s.state.Appointments.All())
	case insights.KindFunnel:
		summary = analytics.FunnelContext(s.state.Deals.All())
	case insights.KindOperations:
		report := s.Operations()
		summary = analytics.OperationsContext(s.state.Appointments.All(), report.Occupancy, report.Productivity)
	default:
		return insights.Result{}, fmt.Errorf("%w: %q", ErrUnknownInsightKind, kind)
	}
	return s.insights.SmartInsights(ctx, kind, summary)
}

func (s *reportService) SuggestReply(ctx context.Context, message string) (insights.Result, error) {
	return s.insights.SuggestReply(ctx, message)
}

func (s *reportService) ExportPatients() ([]byte, error) {
	report := s.Patients()
	marketing := s.Marketing()

	sources := make([][]any, 0, len(marketing.Sources))
	for _, src := range marketing.Sources {
		sources = append(sources, []any{string(src.Source), src.Total, src.Converted, src.Rate})
	}
	return buildWorkbook([]sheet{
		{name: "Resumo", headers: []string{"Indicador", "Valor"}, rows: [][]any{
			{"Total de pacientes", report.TotalClients},
			{"LTV médio", report.AverageLTV},
			{"Taxa de conversão", marketing.ConversionRate},
		}},
		bucketSheet("Faixa Etária", "Faixa", report.AgeCohorts),
		bucketSheet("Perfil de Gasto", "Perfil", report.SpendTiers),
		bucketSheet("Procedimentos", "Procedimento", report.TopProcedures),
		{name: "Origem", headers: []string{"Canal", "Total", "Convertidos", "Conversão (%)"}, rows: sources},
	})
}

func (s *reportService) ExportOperations() ([]byte, error) {
	report := s.Operations()
	occ := report.Occupancy

	productivity := make([][]any, 0, len(report.Productivity))
	for _, p := range report.Productivity {
		productivity = append(productivity, []any{p.Name, p.Total, p.Completed, p.Canceled})
	}
	return buildWorkbook([]sheet{
		{name: "Ocupação", headers: []string{"Indicador", "Valor"}, rows: [][]any{
			{"Agendamentos", occ.Filled},
			{"Capacidade", occ.Capacity},
			{"Taxa de ocupação (%)", occ.Rate},
			{"Concluídos", occ.Completed},
			{"Cancelados", occ.Canceled},
			{"No-show estimado", occ.NoShow},
		}},
		{name: "Produtividade", headers: []string{"Profissional", "Total", "Concluídos", "Cancelados"}, rows: productivity},
		bucketSheet("Status", "Status", report.Status),
	})
}

func bucketSheet(name, label string, buckets []analytics.Bucket) sheet {
	rows := make([][]any, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []any{b.Name, b.Value})
	}
	return sheet{name: name, headers: []string{label, "Quantidade"}, rows: rows}
}
