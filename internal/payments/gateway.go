package payments

import (
	"context"
	"sync/atomic"
	"time"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/config"

	"github.com/google/uuid"
)

// Gateway is the boundary to the external transfer rail. The ledger only
// records a refund or withdrawal after Transfer returns nil; a non-nil error
// must leave the caller free to retry with the same reference.
type Gateway interface {
	Transfer(ctx context.Context, to uuid.UUID, amountAtomic int64, reference string) error
}

// Simulator is the in-process stand-in for the real rail. It can inject a
// deterministic failure every Nth call to exercise the reconciliation path.
type Simulator struct {
	latency      time.Duration
	failEveryNth int
	calls        atomic.Int64
}

func NewSimulator(cfg config.PaymentsConfig) *Simulator {
	return &Simulator{
		latency:      cfg.TransferLatency,
		failEveryNth: cfg.FailEveryNth,
	}
}

func (s *Simulator) Transfer(ctx context.Context, to uuid.UUID, amountAtomic int64, reference string) error {
	if amountAtomic <= 0 {
		return apperrors.Validation("transfer amount must be positive")
	}

	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	n := s.calls.Add(1)
	if s.failEveryNth > 0 && n%int64(s.failEveryNth) == 0 {
		return apperrors.Internal(nil, "transfer rejected by rail (injected failure)")
	}

	return nil
}
