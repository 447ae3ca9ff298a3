package refunds

import (
	"context"
	"testing"

	"ticketcore/internal/tickets"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db, mock
}

// The ticket read expectation includes FOR UPDATE, so this fails if the
// repository stops locking the ticket row that guards double payment.
func TestClaimTicketLocksTicketRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	owner := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets" WHERE token_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"token_id", "event_id", "seat", "owner", "price_atomic_paid", "refund_status"}).
			AddRow(5, 7, "A1", owner.String(), 4500, "APPROVED"))
	mock.ExpectExec(`UPDATE "tickets" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "refund_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "revenue_ledgers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var paidTo uuid.UUID
	var paidAmount int64
	claimed, err := repo.ClaimTicket(context.Background(), 5, func(to uuid.UUID, amountAtomic int64) error {
		paidTo = to
		paidAmount = amountAtomic
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, tickets.RefundStatusRefunded, claimed.RefundStatus)
	assert.Equal(t, owner, paidTo)
	assert.Equal(t, int64(4500), paidAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAutoRefundTicketSkipsProcessedUnderLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets" WHERE token_id = .+ FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"token_id", "event_id", "seat", "owner", "price_atomic_paid", "refund_status"}).
			AddRow(5, 7, "A1", uuid.New().String(), 4500, "REFUNDED"))
	mock.ExpectCommit()

	processed, err := repo.AutoRefundTicket(context.Background(), 5, func(to uuid.UUID, amountAtomic int64) error {
		t.Fatal("transfer must not run for an already processed ticket")
		return nil
	})

	require.NoError(t, err)
	assert.False(t, processed)
	require.NoError(t, mock.ExpectationsWereMet())
}
