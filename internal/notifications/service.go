package notifications

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"ticketcore/pkg/logger"
)

// Notifier is the interface the domain services publish through. A nil
// *Service is a valid Notifier that drops everything, so callers never need
// to guard for an absent Kafka setup.
type Notifier interface {
	Notify(ctx context.Context, t Type, entityID uint64, details map[string]string)
}

// Service wraps a Producer with fire-and-forget semantics: publishing is
// best-effort and never fails the ledger mutation that triggered it. Lost
// messages are acceptable because consumers reconcile from authoritative
// state; duplicated messages are acceptable by contract.
type Service struct {
	producer Producer
	log      *logger.Logger
}

func NewService(producer Producer, log *logger.Logger) *Service {
	return &Service{
		producer: producer,
		log:      log,
	}
}

func (s *Service) Notify(ctx context.Context, t Type, entityID uint64, details map[string]string) {
	if s == nil || s.producer == nil {
		return
	}

	n := &Notification{
		Type:      t,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Details:   details,
	}

	if err := s.producer.Publish(ctx, n); err != nil && s.log != nil {
		s.log.WarnContext(ctx, "notification publish failed",
			slog.String("type", string(t)),
			slog.String("entity_id", strconv.FormatUint(entityID, 10)),
			slog.Any("error", err),
		)
	}
}

// Close shuts down the underlying producer.
func (s *Service) Close() error {
	if s == nil || s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
