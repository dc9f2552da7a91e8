package points

import "time"

// AddTransactionRequest is the body of POST /points/transaction
type AddTransactionRequest struct {
	Payer     string    `json:"payer" validate:"required"`
	Points    int       `json:"points"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

// ToTransaction converts the request into a ledger transaction
func (r AddTransactionRequest) ToTransaction() Transaction {
	return Transaction{
		Payer:     r.Payer,
		Points:    r.Points,
		Timestamp: r.Timestamp,
	}
}

// SpendRequest is the body of POST /points/spend
type SpendRequest struct {
	Points int `json:"points"`
}
