package analytics

import (
	"fmt"
	"strings"

	"clinic_crm_backend/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The summaries below are the data passed to the insight generator. They are
// written in Portuguese because the generator is asked to answer in Portuguese.

var brazilian = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount with Brazilian grouping, e.g. 12.500,5.
func FormatBRL(v float64) string {
	s := brazilian.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ",")
}

// PatientContext summarises the patient base.
func PatientContext(clients []models.Client, apps []models.Appointment) string {
	names := make([]string, 0, ProcedureRankingLimit)
	for _, b := range ProcedureRanking(apps) {
		names = append(names, b.Name)
	}
	return fmt.Sprintf("Análise de Pacientes: %d totais. Top procedimentos: %s. LTV Médio: R$ %.2f",
		len(clients), strings.Join(names, ", "), AverageLTV(clients))
}

// FunnelContext summarises the sales pipeline.
func FunnelContext(deals []models.Deal) string {
	return fmt.Sprintf("Funil com %d oportunidades. Valor total: R$ %s.", len(deals), FormatBRL(PipelineValue(deals)))
}

// OperationsContext summarises the operational report.
func OperationsContext(apps []models.Appointment, occupancy Occupancy, productivity []ProfessionalStats) string {
	pros := make([]string, 0, len(productivity))
	for _, p := range productivity {
		pros = append(pros, fmt.Sprintf("%s (%d)", p.Name, p.Total))
	}
	var b strings.Builder
	b.WriteString("Relatório Operacional da Clínica:\n")
	fmt.Fprintf(&b, "Total de agendamentos: %d.\n", len(apps))
	fmt.Fprintf(&b, "Taxa de ocupação: %.1f%%.\n", occupancy.Rate)
	fmt.Fprintf(&b, "Agendamentos concluídos: %d.\n", occupancy.Completed)
	fmt.Fprintf(&b, "Agendamentos cancelados: %d.\n", occupancy.Canceled)
	fmt.Fprintf(&b, "Profissionais mais produtivos: %s.", strings.Join(pros, ", "))
	return b.String()
}
