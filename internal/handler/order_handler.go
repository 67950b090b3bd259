package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/model"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"go.uber.org/zap"
)

const dueDateLayout = "2006-01-02"

// OrderRequest is the payload for creating an order. DueDate uses YYYY-MM-DD.
type OrderRequest struct {
	ClientID uint     `json:"client_id"`
	Flavor   string   `json:"flavor"`
	Size     *string  `json:"size"`
	Price    *float64 `json:"price"`
	DueDate  string   `json:"due_date"`
	Status   string   `json:"status"`
	Notes    *string  `json:"notes"`
}

// StatusRequest is the payload for changing an order status
type StatusRequest struct {
	Status string `json:"status"`
}

func parseStatus(raw string) (model.OrderStatus, error) {
	status, err := model.ParseOrderStatus(raw)
	if err != nil {
		return "", &store.ValidationError{Field: "status", Message: err.Error()}
	}
	return status, nil
}

// ListOrders returns the tenant's orders, optionally filtered by client_id and status
func (h *Handler) ListOrders(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "list orders")
	}
	ctx := c.Request().Context()

	var status model.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		if status, err = parseStatus(raw); err != nil {
			return respondError(c, err, "orders")
		}
	}

	var orders []model.OrderView
	switch raw := c.QueryParam("client_id"); {
	case raw != "":
		clientID, perr := strconv.ParseUint(raw, 10, 32)
		if perr != nil {
			return respondError(c, &store.ValidationError{Field: "client_id", Message: "must be a positive integer"}, "orders")
		}
		orders, err = h.store.Orders.ListByClient(ctx, id.TenantID, uint(clientID))
		if err == nil && status != "" {
			orders = filterStatus(orders, status)
		}
	case status != "":
		orders, err = h.store.Orders.ListByStatus(ctx, id.TenantID, status)
	default:
		orders, err = h.store.Orders.List(ctx, id.TenantID)
	}
	if err != nil {
		return respondError(c, err, "failed to retrieve orders")
	}
	return c.JSON(http.StatusOK, orders)
}

func filterStatus(orders []model.OrderView, status model.OrderStatus) []model.OrderView {
	filtered := orders[:0]
	for _, o := range orders {
		if o.Status == status {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// CreateOrder adds an order for one of the tenant's clients
func (h *Handler) CreateOrder(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "create order")
	}

	var req OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	due, err := time.Parse(dueDateLayout, strings.TrimSpace(req.DueDate))
	if err != nil {
		return respondError(c, &store.ValidationError{Field: "due_date", Message: "expected YYYY-MM-DD"}, "order")
	}
	var status model.OrderStatus
	if req.Status != "" {
		if status, err = parseStatus(req.Status); err != nil {
			return respondError(c, err, "order")
		}
	}

	ctx := c.Request().Context()
	orderID, err := h.store.Orders.Create(ctx, id.TenantID, store.NewOrder{
		ClientID: req.ClientID,
		Flavor:   req.Flavor,
		Size:     req.Size,
		Price:    req.Price,
		DueDate:  due,
		Status:   status,
		Notes:    req.Notes,
	})
	if err != nil {
		return respondError(c, err, "failed to create order")
	}

	order, err := h.store.Orders.Get(ctx, id.TenantID, orderID)
	if err != nil {
		return respondError(c, err, "order")
	}
	log.Info("Order created",
		zap.Uint("order_id", orderID),
		zap.Uint("client_id", req.ClientID))
	return c.JSON(http.StatusCreated, order)
}

// UpdateOrderStatus moves an order through its lifecycle
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	log := logger.FromEcho(c)
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "update order")
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "order")
	}

	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		return respondError(c, err, "order")
	}

	ctx := c.Request().Context()
	if err := h.store.Orders.UpdateStatus(ctx, id.TenantID, orderID, status); err != nil {
		return respondError(c, err, "order")
	}
	order, err := h.store.Orders.Get(ctx, id.TenantID, orderID)
	if err != nil {
		return respondError(c, err, "order")
	}
	log.Info("Order status updated",
		zap.Uint("order_id", orderID),
		zap.String("status", string(status)))
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder removes a single order
func (h *Handler) DeleteOrder(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "delete order")
	}
	orderID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err, "order")
	}

	if err := h.store.Orders.Delete(c.Request().Context(), id.TenantID, orderID); err != nil {
		return respondError(c, err, "order")
	}
	return c.NoContent(http.StatusNoContent)
}
