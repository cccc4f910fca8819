package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/ordersync/internal/database"
	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// MySQLEventLogRepository handles order event persistence for MySQL.
type MySQLEventLogRepository struct {
	db *sql.DB
}

// NewMySQLEventLogRepository creates a new MySQLEventLogRepository.
func NewMySQLEventLogRepository(db *sql.DB) *MySQLEventLogRepository {
	return &MySQLEventLogRepository{
		db: db,
	}
}

// Append durably records a fact under the (order id, event kind) key-absence
// guard. Duplicates return ErrDuplicateEventAppend; other storage faults are
// transient and retryable.
func (r *MySQLEventLogRepository) Append(ctx context.Context, event *domain.OrderEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO order_events (order_id, event_kind, sku, units, price, user_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(ctx, query,
		event.Data.OrderID, event.Kind, event.Data.SKU, event.Data.Units,
		event.Data.Price, event.Data.UserID, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		if isMySQLUniqueViolation(err) {
			return domain.ErrDuplicateEventAppend
		}
		return apperrors.MarkTransient(apperrors.Wrap(err, "failed to append order event"))
	}
	return nil
}

// ListByOrderID retrieves all recorded facts for an order, oldest first.
func (r *MySQLEventLogRepository) ListByOrderID(
	ctx context.Context,
	orderID string,
) ([]*domain.OrderEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT order_id, event_kind, sku, units, price, user_id, created_at, updated_at
			  FROM order_events
			  WHERE order_id = ?
			  ORDER BY created_at ASC`

	rows, err := querier.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to list order events"))
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OrderEvent
	for rows.Next() {
		var event domain.OrderEvent

		err := rows.Scan(
			&event.Data.OrderID, &event.Kind, &event.Data.SKU, &event.Data.Units,
			&event.Data.Price, &event.Data.UserID, &event.CreatedAt, &event.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to scan order event"))
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to list order events"))
	}

	return events, nil
}
