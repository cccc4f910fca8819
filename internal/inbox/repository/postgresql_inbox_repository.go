// Package repository provides data persistence implementations for inbox messages.
package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/ordersync/internal/database"
	"github.com/allisson/ordersync/internal/inbox/domain"
)

// PostgreSQLInboxMessageRepository handles inbox message persistence for PostgreSQL
type PostgreSQLInboxMessageRepository struct {
	db *sql.DB
}

// NewPostgreSQLInboxMessageRepository creates a new PostgreSQLInboxMessageRepository
func NewPostgreSQLInboxMessageRepository(db *sql.DB) *PostgreSQLInboxMessageRepository {
	return &PostgreSQLInboxMessageRepository{
		db: db,
	}
}

// Create inserts a new inbox message
func (r *PostgreSQLInboxMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO inbox_messages (id, payload, status, attempts, last_error, processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, message.ID, message.Payload, message.Status,
		message.Attempts, message.LastError, message.ProcessedAt)

	return err
}

// GetPendingMessages retrieves pending messages with limit, locking the rows
// so concurrent relay instances skip each other's batches.
func (r *PostgreSQLInboxMessageRepository) GetPendingMessages(
	ctx context.Context,
	limit int,
) ([]*domain.Message, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, payload, status, attempts, last_error, processed_at, created_at, updated_at
			  FROM inbox_messages
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.MessageStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var messages []*domain.Message
	for rows.Next() {
		var message domain.Message

		err := rows.Scan(&message.ID, &message.Payload, &message.Status, &message.Attempts,
			&message.LastError, &message.ProcessedAt, &message.CreatedAt, &message.UpdatedAt)
		if err != nil {
			return nil, err
		}

		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// Update updates an inbox message
func (r *PostgreSQLInboxMessageRepository) Update(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE inbox_messages
			  SET payload = $1, status = $2, attempts = $3, last_error = $4,
			      processed_at = $5, updated_at = NOW()
			  WHERE id = $6`

	_, err := querier.ExecContext(ctx, query, message.Payload, message.Status,
		message.Attempts, message.LastError, message.ProcessedAt, message.ID)

	return err
}
