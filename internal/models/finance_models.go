package models

// TransactionType separates income from expense rows.
type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

// TransactionStatus tracks whether a ledger row was settled.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "PENDING"
	TransactionPaid    TransactionStatus = "PAID"
)

// PaymentMethod is how an income row was received.
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "PIX"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentCash       PaymentMethod = "CASH"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCreditCard, PaymentDebitCard, PaymentCash:
		return true
	}
	return false
}

// Transaction is an income or expense ledger row.
type Transaction struct {
	ID            string            `json:"id"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	Value         float64           `json:"value"`
	Date          string            `json:"date"` // YYYY-MM-DD
	Status        TransactionStatus `json:"status"`
	PaymentMethod *PaymentMethod    `json:"payment_method,omitempty"`
	ClientID      *string           `json:"client_id,omitempty"`
}

// ProcedurePackage is a sellable bundle of sessions.
type ProcedurePackage struct {
	ID           string  `json:"id"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Sessions     int     `json:"sessions"`
	Installments int     `json:"installments"`
}
