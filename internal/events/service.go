package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketcore/internal/notifications"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/shared/constants"
	"ticketcore/pkg/cache"
	"ticketcore/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefundProcessor settles buyer refunds after an AUTO_REFUND cancellation.
// Declared here rather than importing the refunds package to avoid a
// dependency cycle; the refunds service satisfies it directly.
type RefundProcessor interface {
	ProcessAutoRefunds(ctx context.Context, eventID uint64) (processed, failed int, err error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetRefundProcessor(processor RefundProcessor)
	SetNotifier(notifier notifications.Notifier)

	CreateEvent(ctx context.Context, owner uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uint64) (*EventResponse, error)
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	CancelEvent(ctx context.Context, id uint64, caller uuid.UUID, req CancelEventRequest) (*CancelEventResponse, error)
	UpdateEventStatus(ctx context.Context, id uint64, caller uuid.UUID, req UpdateStatusRequest) (*EventResponse, error)

	// EventCapacity satisfies the seat package's lookup interface
	EventCapacity(ctx context.Context, eventID uint64) (int, error)
}

type service struct {
	repo            Repository
	log             *logger.Logger
	cacheService    cache.Service
	refundProcessor RefundProcessor
	notifier        notifications.Notifier
	detailTTL       time.Duration
	listTTL         time.Duration
}

func NewService(repo Repository, log *logger.Logger, detailTTL, listTTL time.Duration) Service {
	return &service{
		repo:      repo,
		log:       log,
		detailTTL: detailTTL,
		listTTL:   listTTL,
	}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetRefundProcessor(processor RefundProcessor) {
	s.refundProcessor = processor
}

func (s *service) SetNotifier(notifier notifications.Notifier) {
	s.notifier = notifier
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		fmt.Printf("Warning: failed to cache %s: %v\n", key, err)
	}
}

func (s *service) invalidateEventCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENT_ALL); err != nil {
		fmt.Printf("Warning: failed to invalidate event cache: %v\n", err)
	}
}

// eventMoment parses the stored date and optional time of day. The second
// return value is true when a time component exists, which decides the
// granularity of the past-date check.
func eventMoment(date, timeOfDay string) (time.Time, bool, error) {
	if timeOfDay != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, time.Local)
		if err != nil {
			return time.Time{}, false, err
		}
		return t, true, nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, false, nil
}

// validateNotPast rejects events scheduled before now. With a time component
// the comparison is at minute granularity; date-only events are compared at
// day granularity, so an event later today is still accepted.
func validateNotPast(date, timeOfDay string) error {
	moment, hasTime, err := eventMoment(date, timeOfDay)
	if err != nil {
		return apperrors.Validation("invalid event date or time: %v", err)
	}

	now := time.Now()
	if hasTime {
		if moment.Truncate(time.Minute).Before(now.Truncate(time.Minute)) {
			return apperrors.Validation("event date must not be in the past")
		}
		return nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if moment.Before(today) {
		return apperrors.Validation("event date must not be in the past")
	}
	return nil
}

func (s *service) CreateEvent(ctx context.Context, owner uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if req.MaxTickets < 1 || req.MaxTickets > 1000 {
		return nil, apperrors.Validation("max_tickets must be between 1 and 1000")
	}
	if req.PriceAtomic < 0 {
		return nil, apperrors.Validation("price_atomic must not be negative")
	}
	if err := validateNotPast(req.Date, req.Time); err != nil {
		return nil, err
	}

	event := &Event{
		Owner:            owner,
		Name:             req.Name,
		Date:             req.Date,
		Time:             req.Time,
		Location:         req.Location,
		City:             req.City,
		Genre:            req.Genre,
		ImageURL:         req.ImageURL,
		Description:      req.Description,
		MaxTickets:       req.MaxTickets,
		TicketsRemaining: req.MaxTickets,
		PriceAtomic:      req.PriceAtomic,
		Status:           EventStatusActive,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.Internal(err, "failed to create event")
	}

	s.invalidateEventCache(ctx)

	if s.log != nil {
		s.log.LogEventCreated(ctx, event.ID, owner.String())
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeEventCreated, event.ID, map[string]string{
			"name":  event.Name,
			"owner": owner.String(),
		})
	}

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(ctx context.Context, id uint64) (*EventResponse, error) {
	cacheKey := constants.BuildEventDetailKey(id)

	var cached EventResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("event %d not found", id)
		}
		return nil, apperrors.Internal(err, "failed to get event")
	}

	response := event.ToResponse()
	s.setCache(ctx, cacheKey, response, s.detailTTL)

	return &response, nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Limit <= 0 {
		query.Limit = 20
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	cacheKey := constants.BuildEventListKey(query.Offset, query.Limit)

	var cached PaginatedEvents
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	events, totalCount, err := s.repo.List(ctx, query.Offset, query.Limit)
	if err != nil {
		return nil, apperrors.Internal(err, "failed to list events")
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = events[i].ToResponse()
	}

	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Offset:     query.Offset,
		Limit:      query.Limit,
	}

	s.setCache(ctx, cacheKey, result, s.listTTL)

	return result, nil
}

func (s *service) CancelEvent(ctx context.Context, id uint64, caller uuid.UUID, req CancelEventRequest) (*CancelEventResponse, error) {
	mode := RefundMode(req.RefundMode)
	if !mode.IsValid() {
		return nil, apperrors.Validation("invalid refund mode: %s", req.RefundMode)
	}

	event, err := s.repo.MarkCancelled(ctx, id, caller, mode)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to cancel event")
	}

	s.invalidateEventCache(ctx)

	if s.log != nil {
		s.log.LogEventCancelled(ctx, id, string(mode))
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeEventCancelled, id, map[string]string{
			"refund_mode": string(mode),
		})
	}

	result := &CancelEventResponse{Event: event.ToResponse()}

	// The CANCELLED status is durable before any refund runs, so a refund
	// outage never resurrects the event. Failed refunds stay claimable
	// through reconciliation.
	if mode == RefundModeAuto && s.refundProcessor != nil {
		processed, failed, err := s.refundProcessor.ProcessAutoRefunds(ctx, id)
		if err != nil {
			fmt.Printf("Warning: auto refund run for event %d: %v\n", id, err)
		}
		result.RefundsProcessed = processed
		result.RefundsFailed = failed
	}

	return result, nil
}

func (s *service) UpdateEventStatus(ctx context.Context, id uint64, caller uuid.UUID, req UpdateStatusRequest) (*EventResponse, error) {
	next := EventStatus(req.Status)
	if !next.IsValid() {
		return nil, apperrors.Validation("invalid event status: %s", req.Status)
	}

	event, err := s.repo.UpdateStatus(ctx, id, caller, next)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindInternal {
			return nil, err
		}
		return nil, apperrors.Internal(err, "failed to update event status")
	}

	s.invalidateEventCache(ctx)

	if s.notifier != nil {
		s.notifier.Notify(ctx, notifications.TypeEventUpdated, id, map[string]string{
			"status": string(next),
		})
	}

	response := event.ToResponse()
	return &response, nil
}

func (s *service) EventCapacity(ctx context.Context, eventID uint64) (int, error) {
	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return event.MaxTickets, nil
}
