package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/allisson/ordersync/internal/database"
	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// MySQLOrderRepository handles order persistence for MySQL.
type MySQLOrderRepository struct {
	db *sql.DB
}

// NewMySQLOrderRepository creates a new MySQLOrderRepository.
func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{
		db: db,
	}
}

// GetByID retrieves an order by its id.
func (r *MySQLOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, status, sku, units, price, user_id, created_at, updated_at
			  FROM orders WHERE id = ?`

	err := querier.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.Status, &order.SKU, &order.Units,
		&order.Price, &order.UserID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to get order by id"))
	}

	return &order, nil
}

// Create inserts a new order. A racing writer on the same order id observes
// ErrOrderAlreadyExists.
func (r *MySQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, status, sku, units, price, user_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		order.ID, order.Status, order.SKU, order.Units,
		order.Price, order.UserID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return apperrors.MarkTransient(apperrors.Wrap(err, "failed to create order"))
	}
	return nil
}

// UpdateStatus writes the new status under the guard "stored status differs
// from the target status". MySQL has no RETURNING, so the write and the
// read-back are separate statements; the guard itself is still the single
// conditional UPDATE.
func (r *MySQLOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.Status,
	updatedAt time.Time,
) (*domain.Order, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = ?, updated_at = ?
			  WHERE id = ? AND status <> ?`

	_, err := querier.ExecContext(ctx, query, status, updatedAt, id, status)
	if err != nil {
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to update order status"))
	}

	// Whether the guard held or not, the stored record is authoritative.
	return r.GetByID(ctx, id)
}

// isMySQLUniqueViolation checks if the error is a MySQL unique constraint violation
func isMySQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// MySQL: "Error 1062: Duplicate entry"
	return strings.Contains(errMsg, "duplicate entry") || strings.Contains(errMsg, "1062")
}
