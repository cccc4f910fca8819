package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/orders/domain"
)

var orderColumns = []string{"id", "status", "sku", "units", "price", "user_id", "created_at", "updated_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db, mock
}

func testOrder() *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:        "ORD1234",
		Status:    domain.StatusCreated,
		SKU:       "SKU-001",
		Units:     2,
		Price:     19.99,
		UserID:    "USR1234",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func orderRow(order *domain.Order) *sqlmock.Rows {
	return sqlmock.NewRows(orderColumns).AddRow(
		order.ID, string(order.Status), order.SKU, order.Units,
		order.Price, order.UserID, order.CreatedAt, order.UpdatedAt,
	)
}

func TestPostgreSQLOrderRepository_GetByID(t *testing.T) {
	t.Run("returns the stored order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)
		want := testOrder()

		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs(want.ID).
			WillReturnRows(orderRow(want))

		got, err := repo.GetByID(context.Background(), want.ID)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.Units, got.Units)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("ORD0000").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.GetByID(context.Background(), "ORD0000")
		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, domain.ErrOrderNotFound))
		assert.False(t, apperrors.IsTransient(err))
	})

	t.Run("marks storage faults transient", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs("ORD1234").
			WillReturnError(assert.AnError)

		_, err := repo.GetByID(context.Background(), "ORD1234")
		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))
	})
}

func TestPostgreSQLOrderRepository_Create(t *testing.T) {
	t.Run("inserts the order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)
		order := testOrder()

		mock.ExpectExec("INSERT INTO orders").
			WithArgs(
				order.ID, string(order.Status), order.SKU, order.Units,
				order.Price, order.UserID, order.CreatedAt, order.UpdatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(context.Background(), order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps unique violation to already exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)
		order := testOrder()

		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(apperrors.New(`pq: duplicate key value violates unique constraint "orders_pkey"`))

		err := repo.Create(context.Background(), order)
		assert.True(t, apperrors.Is(err, domain.ErrOrderAlreadyExists))
		assert.False(t, apperrors.IsTransient(err))
	})

	t.Run("marks storage faults transient", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(assert.AnError)

		err := repo.Create(context.Background(), testOrder())
		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))
	})
}

func TestPostgreSQLOrderRepository_UpdateStatus(t *testing.T) {
	t.Run("writes the new status when the guard holds", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		updated := testOrder()
		updated.Status = domain.StatusStockAllocated
		updatedAt := updated.UpdatedAt

		mock.ExpectQuery("UPDATE orders SET status").
			WithArgs(updated.ID, string(domain.StatusStockAllocated), updatedAt).
			WillReturnRows(orderRow(updated))

		got, err := repo.UpdateStatus(context.Background(), updated.ID, domain.StatusStockAllocated, updatedAt)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusStockAllocated, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns the stored record when the guard fails", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		// The store already holds the target status; the guarded update
		// matches no rows and the pre-existing record is authoritative.
		existing := testOrder()
		existing.Status = domain.StatusStockAllocated
		updatedAt := time.Now().UTC()

		mock.ExpectQuery("UPDATE orders SET status").
			WithArgs(existing.ID, string(domain.StatusStockAllocated), updatedAt).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WithArgs(existing.ID).
			WillReturnRows(orderRow(existing))

		got, err := repo.UpdateStatus(context.Background(), existing.ID, domain.StatusStockAllocated, updatedAt)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusStockAllocated, got.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found for a missing order", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)
		updatedAt := time.Now().UTC()

		mock.ExpectQuery("UPDATE orders SET status").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), "ORD0000", domain.StatusCanceled, updatedAt)
		assert.True(t, apperrors.Is(err, domain.ErrOrderNotFound))
	})

	t.Run("marks storage faults transient", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewPostgreSQLOrderRepository(db)

		mock.ExpectQuery("UPDATE orders SET status").
			WillReturnError(assert.AnError)

		_, err := repo.UpdateStatus(context.Background(), "ORD1234", domain.StatusCanceled, time.Now().UTC())
		require.Error(t, err)
		assert.True(t, apperrors.IsTransient(err))
	})
}
