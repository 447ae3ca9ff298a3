package events

import (
	"context"
	"testing"
	"time"

	"ticketcore/internal/shared/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	createFn        func(ctx context.Context, event *Event) error
	getByIDFn       func(ctx context.Context, id uint64) (*Event, error)
	listFn          func(ctx context.Context, offset, limit int) ([]Event, int64, error)
	markCancelledFn func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error)
	updateStatusFn  func(ctx context.Context, id uint64, caller uuid.UUID, next EventStatus) (*Event, error)
}

func (m *mockRepository) Create(ctx context.Context, event *Event) error {
	return m.createFn(ctx, event)
}

func (m *mockRepository) GetByID(ctx context.Context, id uint64) (*Event, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockRepository) List(ctx context.Context, offset, limit int) ([]Event, int64, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockRepository) MarkCancelled(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
	return m.markCancelledFn(ctx, id, caller, mode)
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id uint64, caller uuid.UUID, next EventStatus) (*Event, error) {
	return m.updateStatusFn(ctx, id, caller, next)
}

type mockRefundProcessor struct {
	called    bool
	eventID   uint64
	processed int
	failed    int
	err       error
}

func (m *mockRefundProcessor) ProcessAutoRefunds(ctx context.Context, eventID uint64) (int, int, error) {
	m.called = true
	m.eventID = eventID
	return m.processed, m.failed, m.err
}

func newTestService(repo Repository) Service {
	return NewService(repo, nil, time.Minute, time.Minute)
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateEvent(t *testing.T) {
	owner := uuid.New()

	validReq := func() CreateEventRequest {
		return CreateEventRequest{
			Name:        "Warehouse Rave",
			Date:        futureDate(30),
			Location:    "Pier 14",
			MaxTickets:  250,
			PriceAtomic: 5000,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &mockRepository{
			createFn: func(ctx context.Context, event *Event) error {
				event.ID = 1
				return nil
			},
		}
		svc := newTestService(repo)

		resp, err := svc.CreateEvent(context.Background(), owner, validReq())
		require.NoError(t, err)
		assert.Equal(t, uint64(1), resp.ID)
		assert.Equal(t, owner.String(), resp.Owner)
		assert.Equal(t, EventStatusActive, resp.Status)
		assert.Equal(t, 250, resp.TicketsRemaining, "remaining starts at capacity")
	})

	t.Run("max tickets out of range", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		for _, maxTickets := range []int{0, -1, 1001} {
			req := validReq()
			req.MaxTickets = maxTickets
			_, err := svc.CreateEvent(context.Background(), owner, req)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		}
	})

	t.Run("negative price", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		req := validReq()
		req.PriceAtomic = -1
		_, err := svc.CreateEvent(context.Background(), owner, req)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("past date rejected", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		req := validReq()
		req.Date = futureDate(-1)
		_, err := svc.CreateEvent(context.Background(), owner, req)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("date-only today accepted", func(t *testing.T) {
		repo := &mockRepository{
			createFn: func(ctx context.Context, event *Event) error {
				event.ID = 2
				return nil
			},
		}
		svc := newTestService(repo)

		req := validReq()
		req.Date = futureDate(0)
		_, err := svc.CreateEvent(context.Background(), owner, req)
		assert.NoError(t, err)
	})

	t.Run("past minute rejected when time present", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		past := time.Now().Add(-2 * time.Minute)
		req := validReq()
		req.Date = past.Format("2006-01-02")
		req.Time = past.Format("15:04")
		_, err := svc.CreateEvent(context.Background(), owner, req)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("current minute accepted when time present", func(t *testing.T) {
		repo := &mockRepository{
			createFn: func(ctx context.Context, event *Event) error {
				event.ID = 3
				return nil
			},
		}
		svc := newTestService(repo)

		now := time.Now()
		req := validReq()
		req.Date = now.Format("2006-01-02")
		req.Time = now.Format("15:04")
		_, err := svc.CreateEvent(context.Background(), owner, req)
		assert.NoError(t, err)
	})
}

func TestGetEventByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id uint64) (*Event, error) {
				return &Event{ID: id, Name: "Loft Session", Status: EventStatusActive}, nil
			},
		}
		svc := newTestService(repo)

		resp, err := svc.GetEventByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockRepository{
			getByIDFn: func(ctx context.Context, id uint64) (*Event, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newTestService(repo)

		_, err := svc.GetEventByID(context.Background(), 99)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestGetAllEvents(t *testing.T) {
	repo := &mockRepository{
		listFn: func(ctx context.Context, offset, limit int) ([]Event, int64, error) {
			assert.Equal(t, 0, offset)
			assert.Equal(t, 20, limit, "limit defaults when unset")
			return []Event{{ID: 1}, {ID: 2}}, 2, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.GetAllEvents(context.Background(), EventListQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Events, 2)
	assert.Equal(t, int64(2), resp.TotalCount)
}

func TestCancelEvent(t *testing.T) {
	owner := uuid.New()

	cancelledEvent := func(id uint64, mode RefundMode) *Event {
		return &Event{ID: id, Owner: owner, Status: EventStatusCancelled, RefundMode: mode}
	}

	t.Run("auto refund runs the processor", func(t *testing.T) {
		repo := &mockRepository{
			markCancelledFn: func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
				return cancelledEvent(id, mode), nil
			},
		}
		processor := &mockRefundProcessor{processed: 5, failed: 1}
		svc := newTestService(repo)
		svc.SetRefundProcessor(processor)

		resp, err := svc.CancelEvent(context.Background(), 4, owner, CancelEventRequest{RefundMode: "AUTO_REFUND"})
		require.NoError(t, err)
		assert.True(t, processor.called)
		assert.Equal(t, uint64(4), processor.eventID)
		assert.Equal(t, 5, resp.RefundsProcessed)
		assert.Equal(t, 1, resp.RefundsFailed)
		assert.Equal(t, EventStatusCancelled, resp.Event.Status)
	})

	t.Run("buyer claim skips the processor", func(t *testing.T) {
		repo := &mockRepository{
			markCancelledFn: func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
				return cancelledEvent(id, mode), nil
			},
		}
		processor := &mockRefundProcessor{}
		svc := newTestService(repo)
		svc.SetRefundProcessor(processor)

		resp, err := svc.CancelEvent(context.Background(), 4, owner, CancelEventRequest{RefundMode: "BUYER_CLAIM"})
		require.NoError(t, err)
		assert.False(t, processor.called)
		assert.Zero(t, resp.RefundsProcessed)
	})

	t.Run("refund processor error does not undo cancellation", func(t *testing.T) {
		repo := &mockRepository{
			markCancelledFn: func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
				return cancelledEvent(id, mode), nil
			},
		}
		processor := &mockRefundProcessor{err: assert.AnError}
		svc := newTestService(repo)
		svc.SetRefundProcessor(processor)

		resp, err := svc.CancelEvent(context.Background(), 4, owner, CancelEventRequest{RefundMode: "AUTO_REFUND"})
		require.NoError(t, err)
		assert.Equal(t, EventStatusCancelled, resp.Event.Status)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		repo := &mockRepository{
			markCancelledFn: func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
				return nil, apperrors.Authorization("only the event owner can cancel")
			},
		}
		svc := newTestService(repo)

		_, err := svc.CancelEvent(context.Background(), 4, uuid.New(), CancelEventRequest{RefundMode: "AUTO_REFUND"})
		assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	})

	t.Run("already cancelled rejected", func(t *testing.T) {
		repo := &mockRepository{
			markCancelledFn: func(ctx context.Context, id uint64, caller uuid.UUID, mode RefundMode) (*Event, error) {
				return nil, apperrors.InvalidState("event is already CANCELLED")
			},
		}
		svc := newTestService(repo)

		_, err := svc.CancelEvent(context.Background(), 4, owner, CancelEventRequest{RefundMode: "BUYER_CLAIM"})
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})

	t.Run("invalid refund mode", func(t *testing.T) {
		svc := newTestService(&mockRepository{})

		_, err := svc.CancelEvent(context.Background(), 4, owner, CancelEventRequest{RefundMode: "PARTIAL"})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestUpdateEventStatus(t *testing.T) {
	owner := uuid.New()

	repo := &mockRepository{
		updateStatusFn: func(ctx context.Context, id uint64, caller uuid.UUID, next EventStatus) (*Event, error) {
			return &Event{ID: id, Owner: caller, Status: next}, nil
		},
	}
	svc := newTestService(repo)

	resp, err := svc.UpdateEventStatus(context.Background(), 9, owner, UpdateStatusRequest{Status: "POSTPONED"})
	require.NoError(t, err)
	assert.Equal(t, EventStatusPostponed, resp.Status)

	_, err = svc.UpdateEventStatus(context.Background(), 9, owner, UpdateStatusRequest{Status: "SHELVED"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestEventCapacity(t *testing.T) {
	repo := &mockRepository{
		getByIDFn: func(ctx context.Context, id uint64) (*Event, error) {
			return &Event{ID: id, MaxTickets: 500}, nil
		},
	}
	svc := newTestService(repo)

	capacity, err := svc.EventCapacity(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 500, capacity)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, EventStatusActive.CanTransitionTo(EventStatusCancelled))
	assert.True(t, EventStatusActive.CanTransitionTo(EventStatusPostponed))
	assert.True(t, EventStatusActive.CanTransitionTo(EventStatusCompleted))

	for _, terminal := range []EventStatus{EventStatusCancelled, EventStatusPostponed, EventStatusCompleted} {
		assert.False(t, terminal.CanTransitionTo(EventStatusActive))
		assert.False(t, terminal.CanTransitionTo(EventStatusCancelled))
		assert.False(t, terminal.CanMint())
	}

	assert.True(t, EventStatusActive.CanMint())
}
