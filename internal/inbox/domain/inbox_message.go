// Package domain defines the core inbox domain entities and types. The inbox
// buffers accepted order event deliveries until the relay processes them,
// giving the system at-least-once processing with backoff for transient
// failures.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageStatus represents the status of an inbox message
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusProcessed MessageStatus = "processed"
	MessageStatusFailed    MessageStatus = "failed"
)

// Message represents one accepted event delivery awaiting processing.
// Attempts counts processing tries that failed transiently; a message whose
// attempts reach the configured maximum is marked failed and left for
// operator inspection.
type Message struct {
	ID          uuid.UUID
	Payload     string
	Status      MessageStatus
	Attempts    int
	LastError   *string
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewMessage creates a pending inbox message carrying the given payload.
func NewMessage(payload string) *Message {
	now := time.Now().UTC()
	return &Message{
		ID:        uuid.Must(uuid.NewV7()),
		Payload:   payload,
		Status:    MessageStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
