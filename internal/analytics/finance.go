package analytics

import "clinic_crm_backend/internal/models"

// Finance is the ledger header. NetMargin and AverageTicket are not derivable
// from the ledger and stay nil unless configured.
type Finance struct {
	Income        float64  `json:"income"`
	Expenses      float64  `json:"expenses"`
	NetMargin     *float64 `json:"net_margin"`
	AverageTicket *float64 `json:"average_ticket"`
}

func FinanceSummary(txs []models.Transaction, netMargin, averageTicket *float64) Finance {
	f := Finance{NetMargin: netMargin, AverageTicket: averageTicket}
	for _, t := range txs {
		switch t.Type {
		case models.TransactionIncome:
			f.Income += t.Value
		case models.TransactionExpense:
			f.Expenses += t.Value
		}
	}
	return f
}

// Ledger tabs.
const (
	TabFlow       = "flow"
	TabPayable    = "payable"
	TabReceivable = "receivable"
)

// IsLedgerTab reports whether tab names a ledger tab.
func IsLedgerTab(tab string) bool {
	return tab == TabFlow || tab == TabPayable || tab == TabReceivable
}

// LedgerTab filters the ledger: payable lists expenses, receivable lists income,
// flow lists everything.
func LedgerTab(txs []models.Transaction, tab string) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range txs {
		switch tab {
		case TabPayable:
			if t.Type != models.TransactionExpense {
				continue
			}
		case TabReceivable:
			if t.Type != models.TransactionIncome {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}
