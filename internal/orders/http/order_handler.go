// Package http provides HTTP handlers for order synchronization operations.
// Incoming event deliveries are accepted into the inbox and processed
// asynchronously by the relay; order state is served from the order store.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/ordersync/internal/httputil"
	inboxUsecase "github.com/allisson/ordersync/internal/inbox/usecase"
	"github.com/allisson/ordersync/internal/orders/http/dto"
	ordersUsecase "github.com/allisson/ordersync/internal/orders/usecase"
	customValidation "github.com/allisson/ordersync/internal/validation"
)

// OrderHandler handles HTTP requests for order synchronization operations.
type OrderHandler struct {
	orderSyncUseCase ordersUsecase.OrderSyncUseCase
	inboxUseCase     inboxUsecase.UseCase
	logger           *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(
	orderSyncUseCase ordersUsecase.OrderSyncUseCase,
	inboxUseCase inboxUsecase.UseCase,
	logger *slog.Logger,
) *OrderHandler {
	return &OrderHandler{
		orderSyncUseCase: orderSyncUseCase,
		inboxUseCase:     inboxUseCase,
		logger:           logger,
	}
}

// EnqueueEventHandler accepts an order lifecycle event for processing.
// POST /v1/order-events
// Returns 202 Accepted once the delivery is durably stored in the inbox.
func (h *OrderHandler) EnqueueEventHandler(c *gin.Context) {
	var req dto.OrderEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	event := req.ToDomain()
	if err := event.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	message, err := h.inboxUseCase.Enqueue(c.Request.Context(), event)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.MapMessageToAcceptedResponse(message))
}

// GetOrderHandler retrieves an order aggregate by id.
// GET /v1/orders/:id
func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	id := c.Param("id")

	order, err := h.orderSyncUseCase.GetOrder(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// ListOrderEventsHandler retrieves the recorded facts for an order, oldest first.
// GET /v1/orders/:id/events
func (h *OrderHandler) ListOrderEventsHandler(c *gin.Context) {
	id := c.Param("id")

	events, err := h.orderSyncUseCase.ListOrderEvents(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToResponse(events))
}
