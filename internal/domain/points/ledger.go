package points

import (
	"slices"
	"sync"
)

// Ledger is an in-memory store of point transactions.
// Every operation holds mu for its whole duration, so spends never interleave
// with each other or with balance reads.
type Ledger struct {
	mu      sync.Mutex
	records []record // insertion order
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{records: make([]record, 0)}
}

// RecordTransaction appends a copy of tx to the ledger. It accepts any payer and any point delta.
func (l *Ledger) RecordTransaction(tx Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, newRecord(tx))
}

// Spend deducts amount points, oldest transactions first across all payers,
// and returns the per-payer deltas sorted by points descending.
//
// The ledger is left untouched when an error is returned.
func (l *Ledger) Spend(amount int) ([]PayerDelta, error) {
	if amount < 1 {
		return nil, ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.total().less(wideOf(amount)) {
		return nil, ErrInsufficientPoints
	}

	owed := amount
	spent := make(map[string]int)
	touched := make([]string, 0)

	for _, i := range l.oldestFirst() {
		if owed == 0 {
			break
		}

		rec := &l.records[i]
		deduction := 0
		switch {
		case rec.remaining > 0:
			deduction = min(rec.remaining, owed)
		case rec.remaining < 0:
			// A correction gives back what was already taken from its payer in this walk.
			// back never exceeds amount, so -back cannot overflow where -remaining could.
			back := spent[rec.payer]
			if rec.remaining > -back {
				back = -rec.remaining
			}
			deduction = -back
		}
		if deduction == 0 {
			continue
		}

		rec.remaining -= deduction
		owed -= deduction

		if _, ok := spent[rec.payer]; !ok {
			touched = append(touched, rec.payer)
		}
		spent[rec.payer] += deduction
	}

	deltas := make([]PayerDelta, 0, len(touched))
	for _, payer := range touched {
		if spent[payer] == 0 {
			continue
		}
		deltas = append(deltas, PayerDelta{Payer: payer, Points: -spent[payer]})
	}

	slices.SortStableFunc(deltas, func(a, b PayerDelta) int {
		return b.Points - a.Points
	})

	return deltas, nil
}

// Balances returns the remaining points per payer, including zero and negative balances.
// A payer whose sum leaves the int range is clamped to math.MinInt or math.MaxInt.
func (l *Ledger) Balances() Balances {
	l.mu.Lock()
	defer l.mu.Unlock()

	sums := make(map[string]*wideSum)
	for _, rec := range l.records {
		sum, ok := sums[rec.payer]
		if !ok {
			sum = &wideSum{}
			sums[rec.payer] = sum
		}
		sum.add(rec.remaining)
	}

	balances := make(Balances, len(sums))
	for payer, sum := range sums {
		balances[payer] = sum.int()
	}
	return balances
}

// Total returns the points currently available to spend, clamped to the int range.
func (l *Ledger) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.total().int()
}

// Entries returns a copy of every record in the order it was recorded.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]Entry, 0, len(l.records))
	for _, rec := range l.records {
		entries = append(entries, Entry{
			Payer:     rec.payer,
			Points:    rec.points,
			Remaining: rec.remaining,
			Timestamp: rec.timestamp,
		})
	}
	return entries
}

// total must be called with mu held.
func (l *Ledger) total() wideSum {
	var sum wideSum
	for _, rec := range l.records {
		sum.add(rec.remaining)
	}
	return sum
}

// oldestFirst returns record indexes ordered by timestamp, ties kept in insertion order.
// Must be called with mu held.
func (l *Ledger) oldestFirst() []int {
	order := make([]int, len(l.records))
	for i := range order {
		order[i] = i
	}

	slices.SortStableFunc(order, func(a, b int) int {
		return l.records[a].timestamp.Compare(l.records[b].timestamp)
	})
	return order
}
