package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/ordersync/internal/database"
	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/orders/domain"
)

// PostgreSQLEventLogRepository handles order event persistence for PostgreSQL.
// The table's composite primary key (order_id, event_kind) is the "key absent"
// guard that makes Append idempotent under at-least-once delivery.
type PostgreSQLEventLogRepository struct {
	db *sql.DB
}

// NewPostgreSQLEventLogRepository creates a new PostgreSQLEventLogRepository.
func NewPostgreSQLEventLogRepository(db *sql.DB) *PostgreSQLEventLogRepository {
	return &PostgreSQLEventLogRepository{
		db: db,
	}
}

// Append durably records a fact. A second append with the same (order id,
// event kind) key returns ErrDuplicateEventAppend and leaves the original
// record untouched; any other storage fault is transient and retryable.
func (r *PostgreSQLEventLogRepository) Append(ctx context.Context, event *domain.OrderEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO order_events (order_id, event_kind, sku, units, price, user_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(ctx, query,
		event.Data.OrderID, event.Kind, event.Data.SKU, event.Data.Units,
		event.Data.Price, event.Data.UserID, event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrDuplicateEventAppend
		}
		return apperrors.MarkTransient(apperrors.Wrap(err, "failed to append order event"))
	}
	return nil
}

// ListByOrderID retrieves all recorded facts for an order, oldest first.
func (r *PostgreSQLEventLogRepository) ListByOrderID(
	ctx context.Context,
	orderID string,
) ([]*domain.OrderEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT order_id, event_kind, sku, units, price, user_id, created_at, updated_at
			  FROM order_events
			  WHERE order_id = $1
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
