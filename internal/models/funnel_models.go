package models

// FunnelStage is one column of the sales pipeline.
type FunnelStage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// FunnelStages is the fixed, ordered pipeline.
var FunnelStages = []FunnelStage{
	{ID: "new", Title: "Novo Lead", Color: "#3b82f6"},
	{ID: "contact", Title: "Em Contato", Color: "#eab308"},
	{ID: "consult", Title: "Avaliação Marcada", Color: "#f97316"},
	{ID: "proposal", Title: "Proposta Enviada", Color: "#a855f7"},
	{ID: "closed", Title: "Fechado", Color: "#22c55e"},
}

// DefaultFunnelStageID is where new deals land.
const DefaultFunnelStageID = "new"

// IsFunnelStage reports whether id names one of FunnelStages.
func IsFunnelStage(id string) bool {
	for _, s := range FunnelStages {
		if s.ID == id {
			return true
		}
	}
	return false
}

// DealLabel is the priority tag shown on a pipeline card.
type DealLabel string

const (
	DealLabelNew    DealLabel = "Novo"
	DealLabelHot    DealLabel = "Quente"
	DealLabelUrgent DealLabel = "Urgente"
	DealLabelLoyal  DealLabel = "Fidelizado"
)

// Valid reports whether l is a known label.
func (l DealLabel) Valid() bool {
	switch l {
	case DealLabelNew, DealLabelHot, DealLabelUrgent, DealLabelLoyal:
		return true
	}
	return false
}

// Deal is a sales-pipeline card.
type Deal struct {
	ID                string    `json:"id"`
	Title             string    `json:"title" binding:"required"`
	ClientID          string    `json:"client_id"`
	Value             float64   `json:"value"`
	StageID           string    `json:"stage_id"`
	ExpectedCloseDate string    `json:"expected_close_date"` // YYYY-MM-DD
	Label             DealLabel `json:"label"`
}
