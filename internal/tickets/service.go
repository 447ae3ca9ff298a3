package tickets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"ticketcore/internal/notifications"
	"ticketcore/internal/seats"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/constants"
	"ticketcore/pkg/cache"
	"ticketcore/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotifier(notifier notifications.Notifier)

	Mint(ctx context.Context, eventID uint64, buyer uuid.UUID, req MintTicketRequest) (*TicketResponse, error)
	GetTicket(ctx context.Context, tokenID uint64) (*TicketResponse, error)
	GetUserTickets(ctx context.Context, owner uuid.UUID) (*UserTicketsResponse, error)
	GetEventTickets(ctx context.Context, eventID uint64, caller uuid.UUID) (*EventTicketsResponse, error)
}

type service struct {
	repo         Repository
	gate         *seats.AtomicSeatGate
	log          *logger.Logger
	cacheService cache.Service
	notifier     notifications.Notifier
}

func NewService(repo Repository, gate *seats.AtomicSeatGate, log *logger.Logger) Service {
	return &service{
		repo: repo,
		gate: gate,
		log:  log,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetNotifier(notifier notifications.Notifier) {
	s.notifier = notifier
}

func (s *service) Mint(ctx context.Context, eventID uint64, buyer uuid.UUID, req MintTicketRequest) (*TicketResponse, error) {
	token := buyer.String()

	// Redis gate first: losers of a seat race are turned away without
	// opening a transaction. The database constraint stays authoritative.
	granted, err := s.gate.Claim(ctx, eventID, req.Seat, token)
	if err != nil {
		return nil, apperrors.Internal(err, "seat claim gate failed")
	}
	if !granted {
		return nil, apperrors.SeatConflict("seat %s is already taken", req.Seat)
	}

	ticket, err := s.repo.MintTicket(ctx, eventID, buyer, req.Seat, req.PaymentAtomic)
	if err != nil {
		// Release the fast-path claim so the seat stays retryable after
		// a non-conflict failure (wrong payment, sold out, cancelled).
		if !apperrors.IsKind(err, apperrors.KindSeatConflict) {
			if relErr := s.gate.Release(ctx, eventID, req.Seat, token); relErr != nil {
				fmt.Printf("Warning: failed to release seat claim: %v\n", relErr)
			}
		}
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to mint ticket")
	}

	s.invalidateSeatCaches(ctx, eventID)

	if s.log != nil {
		s.log.LogTicketMinted(ctx, ticket.TokenID, eventID, ticket.Seat, token)
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeTicketMinted, ticket.TokenID, map[string]string{
			"event_id": strconv.FormatUint(eventID, 10),
			"seat":     ticket.Seat,
			"owner":    token,
		})
	}

	response := ticket.ToResponse()
	return &response, nil
}

func (s *service) GetTicket(ctx context.Context, tokenID uint64) (*TicketResponse, error) {
	ticket, err := s.repo.GetByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("ticket %d not found", tokenID)
		}
		return nil, apperrors.Internal(err, "failed to get ticket")
	}

	response := ticket.ToResponse()
	return &response, nil
}

func (s *service) GetUserTickets(ctx context.Context, owner uuid.UUID) (*UserTicketsResponse, error) {
	userTickets, err := s.repo.GetUserTickets(ctx, owner)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list tickets")
	}

	responses := make([]TicketResponse, len(userTickets))
	for i := range userTickets {
		responses[i] = userTickets[i].ToResponse()
	}

	return &UserTicketsResponse{Tickets: responses, Count: len(responses)}, nil
}

// GetEventTickets lists every ticket sold for an event, for its owner.
func (s *service) GetEventTickets(ctx context.Context, eventID uint64, caller uuid.UUID) (*EventTicketsResponse, error) {
	event, err := s.repo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event %d not found", eventID)
		}
		return nil, apperrors.Internal(err, "failed to get event")
	}
	if event.Owner != caller {
		return nil, apperrors.Authorization("only the event owner can list its tickets")
	}

	eventTickets, err := s.repo.GetEventTickets(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list event tickets")
	}

	responses := make([]TicketResponse, len(eventTickets))
	for i := range eventTickets {
		responses[i] = eventTickets[i].ToResponse()
	}

	return &EventTicketsResponse{EventID: eventID, Tickets: responses, Count: len(responses)}, nil
}

// invalidateSeatCaches drops the event detail and seat map projections
// after a successful mint so readers see the new remaining count.
func (s *service) invalidateSeatCaches(ctx context.Context, eventID uint64) {
	if s.cacheService == nil {
		return
	}
	keys := []string{
		constants.BuildEventDetailKey(eventID),
		constants.BuildSeatMapKey(eventID),
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			fmt.Printf("Warning: failed to invalidate %s: %v\n", key, err)
		}
	}
	if err := s.cacheService.DeletePattern(ctx, constants.CACHE_KEY_EVENT_LIST+"*"); err != nil {
		fmt.Printf("Warning: failed to invalidate event list cache: %v\n", err)
	}
}
