package refunds

import (
	"context"
	"testing"

	"ticketcore/internal/events"
	"ticketcore/internal/shared/apperrors"
	"ticketcore/internal/tickets"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	getEventFn          func(ctx context.Context, eventID uint64) (*events.Event, error)
	getTicketFn         func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error)
	refundableTicketsFn func(ctx context.Context, eventID uint64) ([]tickets.Ticket, error)
	autoRefundTicketFn  func(ctx context.Context, tokenID uint64, transfer TransferFunc) (bool, error)
	createRequestFn     func(ctx context.Context, eventID, tokenID uint64, buyer uuid.UUID, amountAtomic int64) (*RefundRequest, error)
	getRequestFn        func(ctx context.Context, id uint64) (*RefundRequest, error)
	approveRequestFn    func(ctx context.Context, id uint64) (*RefundRequest, error)
	rejectRequestFn     func(ctx context.Context, id uint64, reason string) (*RefundRequest, error)
	claimTicketFn       func(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error)
	listByEventFn       func(ctx context.Context, eventID uint64) ([]RefundRequest, error)
}

func (m *mockRepository) GetEvent(ctx context.Context, eventID uint64) (*events.Event, error) {
	return m.getEventFn(ctx, eventID)
}

func (m *mockRepository) GetTicket(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
	return m.getTicketFn(ctx, tokenID)
}

func (m *mockRepository) RefundableTickets(ctx context.Context, eventID uint64) ([]tickets.Ticket, error) {
	return m.refundableTicketsFn(ctx, eventID)
}

func (m *mockRepository) AutoRefundTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (bool, error) {
	return m.autoRefundTicketFn(ctx, tokenID, transfer)
}

func (m *mockRepository) CreateRequest(ctx context.Context, eventID, tokenID uint64, buyer uuid.UUID, amountAtomic int64) (*RefundRequest, error) {
	return m.createRequestFn(ctx, eventID, tokenID, buyer, amountAtomic)
}

func (m *mockRepository) GetRequest(ctx context.Context, id uint64) (*RefundRequest, error) {
	return m.getRequestFn(ctx, id)
}

func (m *mockRepository) ApproveRequest(ctx context.Context, id uint64) (*RefundRequest, error) {
	return m.approveRequestFn(ctx, id)
}

func (m *mockRepository) RejectRequest(ctx context.Context, id uint64, reason string) (*RefundRequest, error) {
	return m.rejectRequestFn(ctx, id, reason)
}

func (m *mockRepository) ClaimTicket(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error) {
	return m.claimTicketFn(ctx, tokenID, transfer)
}

func (m *mockRepository) ListByEvent(ctx context.Context, eventID uint64) ([]RefundRequest, error) {
	return m.listByEventFn(ctx, eventID)
}

type stubGateway struct {
	transfers []int64
	failFor   map[string]bool
}

func (g *stubGateway) Transfer(ctx context.Context, to uuid.UUID, amountAtomic int64, reference string) error {
	if g.failFor[to.String()] {
		return assert.AnError
	}
	g.transfers = append(g.transfers, amountAtomic)
	return nil
}

func cancelledEvent(id uint64, owner uuid.UUID, mode events.RefundMode) *events.Event {
	return &events.Event{ID: id, Owner: owner, Status: events.EventStatusCancelled, RefundMode: mode}
}

func TestRequestRefund(t *testing.T) {
	owner := uuid.New()
	buyer := uuid.New()

	ticket := func() *tickets.Ticket {
		return &tickets.Ticket{TokenID: 10, EventID: 1, Seat: "A1", Owner: buyer, PriceAtomicPaid: 5000, RefundStatus: tickets.RefundStatusNone}
	}

	t.Run("success", func(t *testing.T) {
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return ticket(), nil
			},
			createRequestFn: func(ctx context.Context, eventID, tokenID uint64, b uuid.UUID, amountAtomic int64) (*RefundRequest, error) {
				assert.Equal(t, int64(5000), amountAtomic, "request amount equals paid price")
				return &RefundRequest{ID: 1, EventID: eventID, TicketTokenID: tokenID, Buyer: b, AmountAtomic: amountAtomic, Status: RequestStatusRequested}, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		resp, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
		require.NoError(t, err)
		assert.Equal(t, RequestStatusRequested, resp.Status)
	})

	t.Run("event not cancelled", func(t *testing.T) {
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return &events.Event{ID: eventID, Owner: owner, Status: events.EventStatusActive}, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})

	t.Run("auto refund event rejects claims", func(t *testing.T) {
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeAuto), nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return ticket(), nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RequestRefund(context.Background(), 1, 10, uuid.New())
		assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	})

	t.Run("re-request after rejection allowed", func(t *testing.T) {
		rejected := ticket()
		rejected.RefundStatus = tickets.RefundStatusRejected
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return rejected, nil
			},
			createRequestFn: func(ctx context.Context, eventID, tokenID uint64, b uuid.UUID, amountAtomic int64) (*RefundRequest, error) {
				return &RefundRequest{ID: 2, EventID: eventID, TicketTokenID: tokenID, Buyer: b, Status: RequestStatusRequested}, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
		assert.NoError(t, err)
	})

	t.Run("already requested rejected", func(t *testing.T) {
		pending := ticket()
		pending.RefundStatus = tickets.RefundStatusRequested
		repo := &mockRepository{
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return pending, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

func TestApproveAndRejectRefund(t *testing.T) {
	owner := uuid.New()

	t.Run("approve by owner", func(t *testing.T) {
		repo := &mockRepository{
			getRequestFn: func(ctx context.Context, id uint64) (*RefundRequest, error) {
				return &RefundRequest{ID: id, EventID: 1, TicketTokenID: 10, Status: RequestStatusRequested}, nil
			},
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			approveRequestFn: func(ctx context.Context, id uint64) (*RefundRequest, error) {
				return &RefundRequest{ID: id, EventID: 1, TicketTokenID: 10, Status: RequestStatusApproved}, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		resp, err := svc.ApproveRefund(context.Background(), 3, owner)
		require.NoError(t, err)
		assert.Equal(t, RequestStatusApproved, resp.Status)
	})

	t.Run("approve by non-owner rejected", func(t *testing.T) {
		repo := &mockRepository{
			getRequestFn: func(ctx context.Context, id uint64) (*RefundRequest, error) {
				return &RefundRequest{ID: id, EventID: 1, Status: RequestStatusRequested}, nil
			},
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.ApproveRefund(context.Background(), 3, uuid.New())
		assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
	})

	t.Run("reject without reason", func(t *testing.T) {
		svc := NewService(&mockRepository{}, &stubGateway{}, nil)

		_, err := svc.RejectRefund(context.Background(), 3, owner, RejectRefundRequest{})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("reject after approval fails", func(t *testing.T) {
		repo := &mockRepository{
			getRequestFn: func(ctx context.Context, id uint64) (*RefundRequest, error) {
				return &RefundRequest{ID: id, EventID: 1, Status: RequestStatusApproved}, nil
			},
			getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
				return cancelledEvent(eventID, owner, events.RefundModeBuyerClaim), nil
			},
			rejectRequestFn: func(ctx context.Context, id uint64, reason string) (*RefundRequest, error) {
				return nil, apperrors.InvalidState("refund request is APPROVED, not REQUESTED")
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.RejectRefund(context.Background(), 3, owner, RejectRefundRequest{Reason: "duplicate"})
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})
}

func TestClaimRefund(t *testing.T) {
	buyer := uuid.New()

	t.Run("claim before approval fails", func(t *testing.T) {
		repo := &mockRepository{
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return &tickets.Ticket{TokenID: tokenID, EventID: 1, Owner: buyer, RefundStatus: tickets.RefundStatusRequested}, nil
			},
		}
		svc := NewService(repo, &stubGateway{}, nil)

		_, err := svc.ClaimRefund(context.Background(), 1, 10, buyer)
		assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
	})

	t.Run("approved claim transfers and settles", func(t *testing.T) {
		gateway := &stubGateway{}
		repo := &mockRepository{
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return &tickets.Ticket{TokenID: tokenID, EventID: 1, Owner: buyer, PriceAtomicPaid: 5000, RefundStatus: tickets.RefundStatusApproved}, nil
			},
			claimTicketFn: func(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error) {
				if err := transfer(buyer, 5000); err != nil {
					return nil, err
				}
				return &tickets.Ticket{TokenID: tokenID, EventID: 1, Owner: buyer, PriceAtomicPaid: 5000, RefundStatus: tickets.RefundStatusRefunded}, nil
			},
		}
		svc := NewService(repo, gateway, nil)

		resp, err := svc.ClaimRefund(context.Background(), 1, 10, buyer)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), resp.AmountAtomic)
		assert.Equal(t, string(tickets.RefundStatusRefunded), resp.Status)
		assert.Equal(t, []int64{5000}, gateway.transfers)
	})

	t.Run("failed transfer leaves state claimable", func(t *testing.T) {
		gateway := &stubGateway{failFor: map[string]bool{buyer.String(): true}}
		repo := &mockRepository{
			getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
				return &tickets.Ticket{TokenID: tokenID, EventID: 1, Owner: buyer, PriceAtomicPaid: 5000, RefundStatus: tickets.RefundStatusApproved}, nil
			},
			claimTicketFn: func(ctx context.Context, tokenID uint64, transfer TransferFunc) (*tickets.Ticket, error) {
				if err := transfer(buyer, 5000); err != nil {
					return nil, err
				}
				t.Fatal("state must not settle after a failed transfer")
				return nil, nil
			},
		}
		svc := NewService(repo, gateway, nil)

		_, err := svc.ClaimRefund(context.Background(), 1, 10, buyer)
		assert.Error(t, err)
		assert.Empty(t, gateway.transfers)
	})
}

func TestProcessAutoRefunds(t *testing.T) {
	owner := uuid.New()
	goodBuyer := uuid.New()
	badBuyer := uuid.New()

	eventFn := func(ctx context.Context, eventID uint64) (*events.Event, error) {
		return cancelledEvent(eventID, owner, events.RefundModeAuto), nil
	}

	// ticket state shared across runs to exercise idempotent resume
	state := map[uint64]tickets.RefundStatus{
		1: tickets.RefundStatusNone,
		2: tickets.RefundStatusNone,
		3: tickets.RefundStatusNone,
	}
	ticketOwner := map[uint64]uuid.UUID{1: goodBuyer, 2: badBuyer, 3: goodBuyer}

	repo := &mockRepository{
		getEventFn: eventFn,
		refundableTicketsFn: func(ctx context.Context, eventID uint64) ([]tickets.Ticket, error) {
			var refundable []tickets.Ticket
			for tokenID, status := range state {
				if status == tickets.RefundStatusNone {
					refundable = append(refundable, tickets.Ticket{TokenID: tokenID, EventID: eventID, Owner: ticketOwner[tokenID], PriceAtomicPaid: 100})
				}
			}
			return refundable, nil
		},
		autoRefundTicketFn: func(ctx context.Context, tokenID uint64, transfer TransferFunc) (bool, error) {
			if state[tokenID] != tickets.RefundStatusNone {
				return false, nil
			}
			if err := transfer(ticketOwner[tokenID], 100); err != nil {
				return false, err
			}
			state[tokenID] = tickets.RefundStatusRefunded
			return true, nil
		},
	}

	gateway := &stubGateway{failFor: map[string]bool{badBuyer.String(): true}}
	svc := NewService(repo, gateway, nil)

	processed, failed, err := svc.ProcessAutoRefunds(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, tickets.RefundStatusNone, state[2], "failed ticket stays refundable")

	// Retry after the transfer rail recovers: only the leftover is paid.
	gateway.failFor = nil
	processed, failed, err = svc.ProcessAutoRefunds(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, 0, failed)
	assert.Len(t, gateway.transfers, 3, "each ticket paid exactly once across runs")
}

func TestProcessAutoRefundsWrongMode(t *testing.T) {
	repo := &mockRepository{
		getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
			return cancelledEvent(eventID, uuid.New(), events.RefundModeBuyerClaim), nil
		},
	}
	svc := NewService(repo, &stubGateway{}, nil)

	_, _, err := svc.ProcessAutoRefunds(context.Background(), 1)
	assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
}

func TestReconcileAuthorization(t *testing.T) {
	owner := uuid.New()
	repo := &mockRepository{
		getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
			return cancelledEvent(eventID, owner, events.RefundModeAuto), nil
		},
		refundableTicketsFn: func(ctx context.Context, eventID uint64) ([]tickets.Ticket, error) {
			return nil, nil
		},
	}
	svc := NewService(repo, &stubGateway{}, nil)

	_, err := svc.Reconcile(context.Background(), 1, uuid.New())
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	result, err := svc.Reconcile(context.Background(), 1, owner)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
}

func TestTicketEventMismatch(t *testing.T) {
	buyer := uuid.New()
	repo := &mockRepository{
		getEventFn: func(ctx context.Context, eventID uint64) (*events.Event, error) {
			return cancelledEvent(eventID, uuid.New(), events.RefundModeBuyerClaim), nil
		},
		getTicketFn: func(ctx context.Context, tokenID uint64) (*tickets.Ticket, error) {
			return &tickets.Ticket{TokenID: tokenID, EventID: 2, Owner: buyer}, nil
		},
	}
	svc := NewService(repo, &stubGateway{}, nil)

	_, err := svc.RequestRefund(context.Background(), 1, 10, buyer)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetRequestNotFound(t *testing.T) {
	repo := &mockRepository{
		getRequestFn: func(ctx context.Context, id uint64) (*RefundRequest, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo, &stubGateway{}, nil)

	_, err := svc.ApproveRefund(context.Background(), 77, uuid.New())
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
