package analytics

import "clinic_crm_backend/internal/models"

// StageColumn is one column of the pipeline board.
type StageColumn struct {
	Stage models.FunnelStage `json:"stage"`
	Deals []models.Deal      `json:"deals"`
	Count int                `json:"count"`
	Total float64            `json:"total"`
}

// FunnelBoard groups deals under the fixed stages in pipeline order. Deals with an
// unknown stage are not placed on the board.
func FunnelBoard(deals []models.Deal) []StageColumn {
	board := make([]StageColumn, len(models.FunnelStages))
	for i, stage := range models.FunnelStages {
		col := StageColumn{Stage: stage, Deals: []models.Deal{}}
		for _, d := range deals {
			if d.StageID == stage.ID {
				col.Deals = append(col.Deals, d)
				col.Total += d.Value
			}
		}
		col.Count = len(col.Deals)
		board[i] = col
	}
	return board
}

// PipelineValue sums every deal's value.
func PipelineValue(deals []models.Deal) float64 {
	var total float64
	for _, d := range deals {
		total += d.Value
	}
	return total
}
