package seats

import (
	"context"
	"fmt"

	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/constants"
	"ticketcore/pkg/cache"

	"time"
)

// EventLookup provides the capacity of an event without importing the
// events package directly.
type EventLookup interface {
	EventCapacity(ctx context.Context, eventID uint64) (int, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	// SeatMap returns every generated seat id of the event with its taken flag
	SeatMap(ctx context.Context, eventID uint64) (*SeatMapResponse, error)
	// IsSeatTaken answers a single seat lookup; invalid seats are rejected outright
	IsSeatTaken(ctx context.Context, eventID uint64, seat string) (*SeatStatusResponse, error)
}

type service struct {
	repo         Repository
	eventLookup  EventLookup
	cacheService cache.Service
	seatMapTTL   time.Duration
}

func NewService(repo Repository, eventLookup EventLookup, seatMapTTL time.Duration) Service {
	return &service{
		repo:        repo,
		eventLookup: eventLookup,
		seatMapTTL:  seatMapTTL,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SeatMap(ctx context.Context, eventID uint64) (*SeatMapResponse, error) {
	cacheKey := constants.BuildSeatMapKey(eventID)

	if s.cacheService != nil {
		var cached SeatMapResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	maxTickets, err := s.eventLookup.EventCapacity(ctx, eventID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.TakenSeats(ctx, eventID)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to load taken seats")
	}
	takenSet := make(map[string]struct{}, len(taken))
	for _, seat := range taken {
		takenSet[seat] = struct{}{}
	}

	seatMap := make(map[string]bool, maxTickets)
	for _, seat := range Generate(maxTickets) {
		_, isTaken := takenSet[seat]
		seatMap[seat] = isTaken
	}

	result := &SeatMapResponse{
		EventID:    eventID,
		Columns:    Columns(maxTickets),
		Rows:       Rows(maxTickets),
		MaxTickets: maxTickets,
		Seats:      seatMap,
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, result, s.seatMapTTL); err != nil {
			fmt.Printf("Warning: failed to cache seat map: %v\n", err)
		}
	}

	return result, nil
}

func (s *service) IsSeatTaken(ctx context.Context, eventID uint64, seat string) (*SeatStatusResponse, error) {
	maxTickets, err := s.eventLookup.EventCapacity(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !Valid(maxTickets, seat) {
		return nil, apperrors.InvalidSeat("seat %s does not exist for this event", seat)
	}

	taken, err := s.repo.IsSeatTaken(ctx, eventID, seat)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to check seat")
	}

	return &SeatStatusResponse{
		EventID: eventID,
		Seat:    seat,
		Taken:   taken,
	}, nil
}
