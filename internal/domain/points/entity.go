package points

import "time"

// Transaction is an immutable point-earning (or correcting) event as submitted by a caller.
// Points may be negative.
type Transaction struct {
	Payer     string
	Points    int
	Timestamp time.Time
}

// record is the ledger-owned copy of a Transaction. payer and timestamp never change;
// remaining is only lowered by Spend, or moved toward zero when a correction is netted.
type record struct {
	payer     string
	timestamp time.Time
	points    int
	remaining int
}

func newRecord(tx Transaction) record {
	return record{
		payer:     tx.Payer,
		timestamp: tx.Timestamp,
		points:    tx.Points,
		remaining: tx.Points,
	}
}

// PayerDelta is the signed change in one payer's points caused by a single spend.
type PayerDelta struct {
	Payer  string `json:"payer"`
	Points int    `json:"points"`
}

// Balances maps a payer to the sum of its remaining points.
type Balances map[string]int

// Entry is a read-only snapshot of one ledger record.
type Entry struct {
	Payer     string    `json:"payer"`
	Points    int       `json:"points"`
	Remaining int       `json:"remaining"`
	Timestamp time.Time `json:"timestamp"`
}
