package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"go.uber.org/zap"
)

// ClientRequest is the payload for creating a client
type ClientRequest struct {
	Name  string  `json:"name"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

// ListClients returns the tenant's clients by name
func (h *Handler) ListClients(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "list clients")
	}

	clients, err := h.store.Clients.List(c.Request().Context(), id.TenantID)
	if err != nil {
		return respondError(c, err, "failed to retrieve clients")
	}
	return c.JSON(http.StatusOK, clients)
}

// CreateClient adds a client to the tenant
func (h *Handler) CreateClient(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "create client")
	}

	var req ClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	clientID, err := h.store.Clients.Create(ctx, id.TenantID, store.NewClient{
		Name:  req.Name,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		return respondError(c, err, "failed to create client")
	}

	client, err := h.store.Clients.Get(ctx, id.TenantID, clientID)
	if err != nil {
		return respondError(c, err, "client")
	}
	log.Info("Client created", zap.Uint("client_id", clientID))
	return c.JSON(http.StatusCreated, client)
}

// DeleteClient removes a client together with all of its orders
func (h *Handler) DeleteClient(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "delete client")
	}
	clientID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "client")
	}

	if err := h.store.Clients.Delete(c.Request().Context(), id.TenantID, clientID); err != nil {
		return respondError(c, err, "client")
	}
	log.Info("Client deleted", zap.Uint("client_id", clientID))
	return c.NoContent(http.StatusNoContent)
}

// ListClientOrders returns the orders of one client
func (h *Handler) ListClientOrders(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "list client orders")
	}
	clientID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "client")
	}

	ctx := c.Request().Context()
	if _, err := h.store.Clients.Get(ctx, id.TenantID, clientID); err != nil {
		return respondError(c, err, "client")
	}
	orders, err := h.store.Orders.ListByClient(ctx, id.TenantID, clientID)
	if err != nil {
		return respondError(c, err, "failed to retrieve orders")
	}
	return c.JSON(http.StatusOK, orders)
}
