package points

import (
	"context"
	"errors"

	"github.com/mwork/points-api/internal/pkg/logger"
	"github.com/mwork/points-api/internal/pkg/metrics"
)

// Service exposes the ledger to the transport layer, adding logging and metrics.
type Service struct {
	ledger  *Ledger
	metrics *metrics.Metrics
}

// NewService creates a new points service over an existing ledger
func NewService(ledger *Ledger, m *metrics.Metrics) *Service {
	return &Service{
		ledger:  ledger,
		metrics: m,
	}
}

// AddTransaction records a point transaction for a payer.
func (s *Service) AddTransaction(ctx context.Context, tx Transaction) {
	s.ledger.RecordTransaction(tx)

	s.metrics.TransactionsRecorded.Inc()
	if tx.Points >= 0 {
		s.metrics.PointsEarned.Add(float64(tx.Points))
	} else {
		s.metrics.PointsCorrected.Add(float64(-tx.Points))
	}

	logger.FromContext(ctx).Info().
		Str("payer", tx.Payer).
		Int("points", tx.Points).
		Time("timestamp", tx.Timestamp).
		Msg("points transaction recorded")
}

// Spend deducts points oldest-first and returns how much each payer lost.
func (s *Service) Spend(ctx context.Context, amount int) ([]PayerDelta, error) {
	log := logger.FromContext(ctx)

	deltas, err := s.ledger.Spend(amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			s.metrics.Spends.WithLabelValues(metrics.SpendResultInvalid).Inc()
		case errors.Is(err, ErrInsufficientPoints):
			s.metrics.Spends.WithLabelValues(metrics.SpendResultInsufficient).Inc()
		}
		log.Warn().Err(err).Int("amount", amount).Msg("points spend rejected")
		return nil, err
	}

	s.metrics.Spends.WithLabelValues(metrics.SpendResultOK).Inc()
	s.metrics.PointsSpent.Add(float64(amount))

	log.Info().
		Int("amount", amount).
		Int("payers", len(deltas)).
		Msg("points spent")

	return deltas, nil
}

// GetBalances returns the current balance of every payer seen so far.
func (s *Service) GetBalances(ctx context.Context) Balances {
	balances := s.ledger.Balances()
	logger.FromContext(ctx).Debug().Int("payers", len(balances)).Msg("points balances read")
	return balances
}

// ListTransactions returns a snapshot of the ledger in the order transactions were recorded.
func (s *Service) ListTransactions(ctx context.Context) []Entry {
	entries := s.ledger.Entries()
	logger.FromContext(ctx).Debug().Int("transactions", len(entries)).Msg("points transactions listed")
	return entries
}
