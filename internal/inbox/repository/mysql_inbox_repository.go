package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/ordersync/internal/database"
	"github.com/allisson/ordersync/internal/inbox/domain"
)

// MySQLInboxMessageRepository handles inbox message persistence for MySQL
type MySQLInboxMessageRepository struct {
	db *sql.DB
}

// NewMySQLInboxMessageRepository creates a new MySQLInboxMessageRepository
func NewMySQLInboxMessageRepository(db *sql.DB) *MySQLInboxMessageRepository {
	return &MySQLInboxMessageRepository{
		db: db,
	}
}

// Create inserts a new inbox message
func (r *MySQLInboxMessageRepository) Create(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO inbox_messages (id, payload, status, attempts, last_error, processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := message.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, message.Payload, message.Status,
		message.Attempts, message.LastError, message.ProcessedAt)

	return err
}

// GetPendingMessages retrieves pending messages with limit
func (r *MySQLInboxMessageRepository) GetPendingMessages(
	ctx context.Context,
	limit int,
) ([]*domain.Message, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, payload, status, attempts, last_error, processed_at, created_at, updated_at
			  FROM inbox_messages
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, domain.MessageStatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var messages []*domain.Message
	for rows.Next() {
		var message domain.Message
		var idBytes []byte

		err := rows.Scan(&idBytes, &message.Payload, &message.Status, &message.Attempts,
			&message.LastError, &message.ProcessedAt, &message.CreatedAt, &message.UpdatedAt)
		if err != nil {
			return nil, err
		}

		// Convert bytes back to UUID
		if err := message.ID.UnmarshalBinary(idBytes); err != nil {
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
func (r *MySQLInboxMessageRepository) Update(ctx context.Context, message *domain.Message) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE inbox_messages
			  SET payload = ?, status = ?, attempts = ?, last_error = ?,
			      processed_at = ?, updated_at = NOW()
			  WHERE id = ?`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := message.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, message.Payload, message.Status,
		message.Attempts, message.LastError, message.ProcessedAt, idBytes)

	return err
}
