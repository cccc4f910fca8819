// Package repository provides data persistence implementations for orders and
// their event log. The order store offers a guarded status write and the event
// log an append guarded by key absence; both guards are single-statement
// conditional writes, which is the only coordination primitive this system
// relies on.
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

// PostgreSQLOrderRepository handles order persistence for PostgreSQL.
type PostgreSQLOrderRepository struct {
	db *sql.DB
}

// NewPostgreSQLOrderRepository creates a new PostgreSQLOrderRepository.
func NewPostgreSQLOrderRepository(db *sql.DB) *PostgreSQLOrderRepository {
	return &PostgreSQLOrderRepository{
		db: db,
	}
}

// GetByID retrieves an order by its id.
func (r *PostgreSQLOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, status, sku, units, price, user_id, created_at, updated_at
			  FROM orders WHERE id = $1`

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

// Create inserts a new order. The insert is guarded by the primary key: a
// second writer racing on the same order id observes ErrOrderAlreadyExists.
func (r *PostgreSQLOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO orders (id, status, sku, units, price, user_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		order.ID, order.Status, order.SKU, order.Units,
		order.Price, order.UserID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrOrderAlreadyExists
		}
		return apperrors.MarkTransient(apperrors.Wrap(err, "failed to create order"))
	}
	return nil
}

// UpdateStatus writes the new status under the guard "stored status differs
// from the target status". When the guard fails the pre-existing record is
// authoritative and is returned unchanged, so a racing writer that lost still
// observes the post-condition it wanted.
func (r *PostgreSQLOrderRepository) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.Status,
	updatedAt time.Time,
) (*domain.Order, error) {
	var order domain.Order
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE orders SET status = $2, updated_at = $3
			  WHERE id = $1 AND status <> $2
			  RETURNING id, status, sku, units, price, user_id, created_at, updated_at`

	err := querier.QueryRowContext(ctx, query, id, status, updatedAt).Scan(
		&order.ID, &order.Status, &order.SKU, &order.Units,
		&order.Price, &order.UserID, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == nil {
		return &order, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to update order status"))
	}

	// Guard failure or missing row: re-read and let the stored record decide.
	return r.GetByID(ctx, id)
}

// isPostgreSQLUniqueViolation checks if the error is a PostgreSQL unique constraint violation
func isPostgreSQLUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errMsg := strings.ToLower(err.Error())
	// PostgreSQL: "duplicate key value violates unique constraint" or "pq: duplicate key"
	return strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint")
}
