package revenue

import (
	"context"
	"errors"
	"fmt"

	"ticketcore/internal/payments"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	GetLedger(ctx context.Context, eventID uint64, caller uuid.UUID) (*LedgerResponse, error)
	Withdraw(ctx context.Context, eventID uint64, caller uuid.UUID) (*WithdrawResponse, error)
}

type service struct {
	repo    Repository
	gateway payments.Gateway
	log     *logger.Logger
}

func NewService(repo Repository, gateway payments.Gateway, log *logger.Logger) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		log:     log,
	}
}

func (s *service) requireOwner(ctx context.Context, eventID uint64, caller uuid.UUID) (uuid.UUID, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, apperrors.NotFound("event %d not found", eventID)
		}
		return uuid.Nil, apperrors.Internal(err, "failed to get event")
	}
	if event.Owner != caller {
		return uuid.Nil, apperrors.Authorization("only the event owner can access revenue")
	}
	return event.Owner, nil
}

func (s *service) GetLedger(ctx context.Context, eventID uint64, caller uuid.UUID) (*LedgerResponse, error) {
	if _, err := s.requireOwner(ctx, eventID, caller); err != nil {
		return nil, err
	}

	ledger, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no revenue ledger for event %d", eventID)
		}
		return nil, apperrors.Internal(err, "failed to get revenue ledger")
	}

	reserve, err := s.repo.RefundReserve(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to compute refund reserve")
	}

	withdrawable := ledger.Withdrawable() - reserve
	if withdrawable < 0 {
		withdrawable = 0
	}

	return &LedgerResponse{
		EventID:        eventID,
		GrossReceived:  ledger.GrossReceived,
		TotalRefunded:  ledger.TotalRefunded,
		TotalWithdrawn: ledger.TotalWithdrawn,
		RefundReserve:  reserve,
		Withdrawable:   withdrawable,
	}, nil
}

func (s *service) Withdraw(ctx context.Context, eventID uint64, caller uuid.UUID) (*WithdrawResponse, error) {
	owner, err := s.requireOwner(ctx, eventID, caller)
	if err != nil {
		return nil, err
	}

	amount, err := s.repo.Withdraw(ctx, eventID, func(amountAtomic int64) error {
		return s.gateway.Transfer(ctx, owner, amountAtomic, fmt.Sprintf("withdraw:%d", eventID))
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to withdraw")
	}

	if s.log != nil {
		s.log.LogWithdrawal(ctx, eventID, amount)
	}

	return &WithdrawResponse{EventID: eventID, AmountAtomic: amount}, nil
}
