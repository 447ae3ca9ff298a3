package refunds

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ticketcore/internal/events"
	"ticketcore/internal/notifications"
	"ticketcore/internal/payments"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/tickets"
	"ticketcore/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetNotifier(notifier notifications.Notifier)

	RequestRefund(ctx context.Context, eventID, tokenID uint64, caller uuid.UUID) (*RefundRequestResponse, error)
	ApproveRefund(ctx context.Context, requestID uint64, caller uuid.UUID) (*RefundRequestResponse, error)
	RejectRefund(ctx context.Context, requestID uint64, caller uuid.UUID, req RejectRefundRequest) (*RefundRequestResponse, error)
	ClaimRefund(ctx context.Context, eventID, tokenID uint64, caller uuid.UUID) (*ClaimRefundResponse, error)
	ListEventRefundRequests(ctx context.Context, eventID uint64, caller uuid.UUID) (*RefundRequestListResponse, error)

	// ProcessAutoRefunds drains every NONE-status ticket of a cancelled
	// AUTO_REFUND event. Safe to re-run; already-refunded tickets are
	// skipped. Satisfies the event service's RefundProcessor interface.
	ProcessAutoRefunds(ctx context.Context, eventID uint64) (processed, failed int, err error)

	Reconcile(ctx context.Context, eventID uint64, caller uuid.UUID) (*BatchResult, error)
}

type service struct {
	repo     Repository
	gateway  payments.Gateway
	log      *logger.Logger
	notifier notifications.Notifier
}

func NewService(repo Repository, gateway payments.Gateway, log *logger.Logger) Service {
	return &service{
		repo:    repo,
		gateway: gateway,
		log:     log,
	}
}

func (s *service) SetNotifier(notifier notifications.Notifier) {
	s.notifier = notifier
}

func (s *service) getEvent(ctx context.Context, eventID uint64) (*events.Event, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event %d not found", eventID)
		}
		return nil, apperrors.Internal(err, "failed to get event")
	}
	return event, nil
}

func (s *service) getTicket(ctx context.Context, eventID, tokenID uint64) (*tickets.Ticket, error) {
	ticket, err := s.repo.GetTicket(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ticket %d not found", tokenID)
		}
		return nil, apperrors.Internal(err, "failed to get ticket")
	}
	if ticket.EventID != eventID {
		return nil, apperrors.NotFound("ticket %d does not belong to event %d", tokenID, eventID)
	}
	return ticket, nil
}

func (s *service) RequestRefund(ctx context.Context, eventID, tokenID uint64, caller uuid.UUID) (*RefundRequestResponse, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != events.EventStatusCancelled {
		return nil, apperrors.InvalidState("refunds require a cancelled event, status is %s", event.Status)
	}
	if event.RefundMode != events.RefundModeBuyerClaim {
		return nil, apperrors.InvalidState("event settles refunds automatically")
	}

	ticket, err := s.getTicket(ctx, eventID, tokenID)
	if err != nil {
		return nil, err
	}
	if ticket.Owner != caller {
		return nil, apperrors.Authorization("only the ticket owner can request a refund")
	}
	if !ticket.RefundStatus.CanRequest() {
		return nil, apperrors.InvalidState("ticket refund is already %s", ticket.RefundStatus)
	}

	request, err := s.repo.CreateRequest(ctx, eventID, tokenID, caller, ticket.PriceAtomicPaid)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to create refund request")
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeRefundRequested, request.ID, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
			"token_id": strconv.FormatUint(tokenID, 10),
		})
	}

	response := request.ToResponse()
	return &response, nil
}

func (s *service) ApproveRefund(ctx context.Context, requestID uint64, caller uuid.UUID) (*RefundRequestResponse, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEventOwner(ctx, request.EventID, caller); err != nil {
		return nil, err
	}

	approved, err := s.repo.ApproveRequest(ctx, requestID)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to approve refund request")
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeRefundApproved, approved.ID, map[string]string{
			"event_id": strconv.FormatUint(approved.EventID, 10),
			"token_id": strconv.FormatUint(approved.TicketTokenID, 10),
		})
	}

	response := approved.ToResponse()
	return &response, nil
}

func (s *service) RejectRefund(ctx context.Context, requestID uint64, caller uuid.UUID, req RejectRefundRequest) (*RefundRequestResponse, error) {
	if req.Reason == "" {
		return nil, apperrors.Validation("rejection reason is required")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEventOwner(ctx, request.EventID, caller); err != nil {
		return nil, err
	}

	rejected, err := s.repo.RejectRequest(ctx, requestID, req.Reason)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to reject refund request")
	}

	response := rejected.ToResponse()
	return &response, nil
}

func (s *service) ClaimRefund(ctx context.Context, eventID, tokenID uint64, caller uuid.UUID) (*ClaimRefundResponse, error) {
	ticket, err := s.getTicket(ctx, eventID, tokenID)
	if err != nil {
		return nil, err
	}
	if ticket.Owner != caller {
		return nil, apperrors.Authorization("only the ticket owner can claim a refund")
	}
	if ticket.RefundStatus != tickets.RefundStatusApproved {
		return nil, apperrors.InvalidState("ticket refund is %s, not APPROVED", ticket.RefundStatus)
	}

	claimed, err := s.repo.ClaimTicket(ctx, tokenID, func(owner uuid.UUID, amountAtomic int64) error {
		return s.gateway.Transfer(ctx, owner, amountAtomic, fmt.Sprintf("refund:claim:%d", tokenID))
	})
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to claim refund")
	}

	if s.log != nil {
		s.log.LogRefundProcessed(ctx, tokenID, eventID, claimed.PriceAtomicPaid)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeRefundClaimed, tokenID, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
		})
	}

	return &ClaimRefundResponse{
		TicketTokenID: tokenID,
		AmountAtomic:  claimed.PriceAtomicPaid,
		Status:        string(claimed.RefundStatus),
	}, nil
}

func (s *service) ListEventRefundRequests(ctx context.Context, eventID uint64, caller uuid.UUID) (*RefundRequestListResponse, error) {
	if err := s.requireEventOwner(ctx, eventID, caller); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list refund requests")
	}

	responses := make([]RefundRequestResponse, len(requests))
	for i := range requests {
		responses[i] = requests[i].ToResponse()
	}

	return &RefundRequestListResponse{Requests: responses, Count: len(responses)}, nil
}

func (s *service) ProcessAutoRefunds(ctx context.Context, eventID uint64) (int, int, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	if event.Status != events.EventStatusCancelled || event.RefundMode != events.RefundModeAuto {
		return 0, 0, apperrors.InvalidState("event %d is not in auto-refund settlement", eventID)
	}

	refundable, err := s.repo.RefundableTickets(ctx, eventID)
	if err != nil {
		return 0, 0, apperrors.Internal(err, "failed to list refundable tickets")
	}

	// Each ticket settles in its own transaction so one failed transfer
	// never blocks the rest of the batch.
	var processed, failed int
	for i := range refundable {
		tokenID := refundable[i].TokenID

		ok, err := s.repo.AutoRefundTicket(ctx, tokenID, func(owner uuid.UUID, amountAtomic int64) error {
			return s.gateway.Transfer(ctx, owner, amountAtomic, fmt.Sprintf("refund:auto:%d", tokenID))
		})
		if err != nil {
			failed++
			fmt.Printf("Warning: auto refund of ticket %d failed: %v\n", tokenID, err)
			continue
		}
		if ok {
			processed++
			if s.log != nil {
				s.log.LogRefundProcessed(ctx, tokenID, eventID, refundable[i].PriceAtomicPaid)
			}
		}
	}

	return processed, failed, nil
}

func (s *service) Reconcile(ctx context.Context, eventID uint64, caller uuid.UUID) (*BatchResult, error) {
	if err := s.requireEventOwner(ctx, eventID, caller); err != nil {
		return nil, err
	}

	processed, failed, err := s.ProcessAutoRefunds(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &BatchResult{EventID: eventID, Processed: processed, Failed: failed}, nil
}

func (s *service) loadRequest(ctx context.Context, requestID uint64) (*RefundRequest, error) {
	request, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("refund request %d not found", requestID)
		}
		return nil, apperrors.Internal(err, "failed to get refund request")
	}
	return request, nil
}

func (s *service) requireEventOwner(ctx context.Context, eventID uint64, caller uuid.UUID) error {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Owner != caller {
		return apperrors.Authorization("only the event owner can manage refunds")
	}
	return nil
}
