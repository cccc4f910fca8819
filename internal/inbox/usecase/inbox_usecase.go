// Package usecase implements the inbox relay: it drains pending messages and
// hands each one to the order sync pipeline, retrying transient failures and
// acknowledging everything else.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/allisson/ordersync/internal/database"
	apperrors "github.com/allisson/ordersync/internal/errors"
	"github.com/allisson/ordersync/internal/inbox/domain"
	ordersDomain "github.com/allisson/ordersync/internal/orders/domain"
	ordersUsecase "github.com/allisson/ordersync/internal/orders/usecase"
)

// Config holds inbox relay configuration
type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

// InboxMessageRepository defines inbox message repository operations
type InboxMessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetPendingMessages(ctx context.Context, limit int) ([]*domain.Message, error)
	Update(ctx context.Context, message *domain.Message) error
}

// MessageProcessor defines the interface for processing inbox messages
type MessageProcessor interface {
	Process(ctx context.Context, message *domain.Message) error
}

// UseCase defines the interface for inbox use cases
type UseCase interface {
	// Enqueue accepts an order event for asynchronous processing.
	Enqueue(ctx context.Context, event *ordersDomain.OrderEvent) (*domain.Message, error)
	Start(ctx context.Context) error
	ProcessMessages(ctx context.Context) error
}

// InboxUseCase implements business logic for relaying inbox messages
type InboxUseCase struct {
	config    Config
	txManager database.TxManager
	inboxRepo InboxMessageRepository
	processor MessageProcessor
	logger    *slog.Logger
}

// NewInboxUseCase creates a new InboxUseCase
func NewInboxUseCase(
	config Config,
	txManager database.TxManager,
	inboxRepo InboxMessageRepository,
	processor MessageProcessor,
	logger *slog.Logger,
) *InboxUseCase {
	return &InboxUseCase{
		config:    config,
		txManager: txManager,
		inboxRepo: inboxRepo,
		processor: processor,
		logger:    logger,
	}
}

// Enqueue serializes the event and stores it as a pending message.
func (uc *InboxUseCase) Enqueue(
	ctx context.Context,
	event *ordersDomain.OrderEvent,
) (*domain.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to serialize order event")
	}

	message := domain.NewMessage(string(payload))
	if err := uc.inboxRepo.Create(ctx, message); err != nil {
		return nil, apperrors.MarkTransient(apperrors.Wrap(err, "failed to enqueue order event"))
	}

	return message, nil
}

// Start starts the inbox relay loop
func (uc *InboxUseCase) Start(ctx context.Context) error {
	if uc.logger != nil {
		uc.logger.Info("starting inbox relay",
			slog.Duration("interval", uc.config.Interval),
			slog.Int("batch_size", uc.config.BatchSize),
		)
	}

	ticker := time.NewTicker(uc.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if uc.logger != nil {
				uc.logger.Info("stopping inbox relay")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := uc.ProcessMessages(ctx); err != nil {
				if uc.logger != nil {
					uc.logger.Error("failed to process messages", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessMessages retrieves and processes pending messages in a transaction.
// Each message resolves one of three ways: processed on success, left pending
// with an incremented attempt count on transient failure (failed once the
// attempt budget is exhausted), or acknowledged as processed with the error
// recorded on non-transient failure, since redelivering it cannot change the
// outcome.
func (uc *InboxUseCase) ProcessMessages(ctx context.Context) error {
	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		messages, err := uc.inboxRepo.GetPendingMessages(ctx, uc.config.BatchSize)
		if err != nil {
			return err
		}

		if len(messages) == 0 {
			return nil
		}

		if uc.logger != nil {
			uc.logger.Info("processing messages", slog.Int("count", len(messages)))
		}

		for _, message := range messages {
			err := uc.processor.Process(ctx, message)
			now := time.Now().UTC()

			switch {
			case err == nil:
				message.Status = domain.MessageStatusProcessed
				message.ProcessedAt = &now
			case apperrors.IsTransient(err):
				if uc.logger != nil {
					uc.logger.Warn("transient failure, will redeliver",
						slog.String("message_id", message.ID.String()),
						slog.Int("attempts", message.Attempts+1),
						slog.Any("error", err),
					)
				}

				message.Attempts++
				errorMsg := err.Error()
				message.LastError = &errorMsg

				if message.Attempts >= uc.config.MaxAttempts {
					message.Status = domain.MessageStatusFailed
				}
			default:
				if uc.logger != nil {
					uc.logger.Error("non-transient failure, acknowledging",
						slog.String("message_id", message.ID.String()),
						slog.Any("error", err),
					)
				}

				errorMsg := err.Error()
				message.LastError = &errorMsg
				message.Status = domain.MessageStatusProcessed
				message.ProcessedAt = &now
			}

			if err := uc.inboxRepo.Update(ctx, message); err != nil {
				return err
			}
		}

		return nil
	})
}

// OrderEventProcessor feeds inbox messages into the order sync pipeline.
type OrderEventProcessor struct {
	orderSync ordersUsecase.OrderSyncUseCase
	logger    *slog.Logger
}

// NewOrderEventProcessor creates a new OrderEventProcessor
func NewOrderEventProcessor(
	orderSync ordersUsecase.OrderSyncUseCase,
	logger *slog.Logger,
) *OrderEventProcessor {
	return &OrderEventProcessor{
		orderSync: orderSync,
		logger:    logger,
	}
}

// Process deserializes the message payload and runs it through ProcessEvent.
// A payload that does not deserialize is a non-transient failure: it can
// never become valid on redelivery.
func (p *OrderEventProcessor) Process(ctx context.Context, message *domain.Message) error {
	var event ordersDomain.OrderEvent
	if err := json.Unmarshal([]byte(message.Payload), &event); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
	}

	if p.logger != nil {
		p.logger.Info("processing order event",
			slog.String("message_id", message.ID.String()),
			slog.String("order_id", event.Data.OrderID),
			slog.String("event_kind", event.Kind.String()),
		)
	}

	return p.orderSync.ProcessEvent(ctx, &event)
}
