package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/model"
)

type statusCount struct {
	Status model.OrderStatus `json:"status"`
	Label  string            `json:"label"`
	Count  int64             `json:"count"`
}

type dashboardResponse struct {
	Counts    []statusCount     `json:"counts"`
	Pending   []model.OrderView `json:"pending"`
	Preparing []model.OrderView `json:"preparing"`
}

// Dashboard returns the per-status counters and the orders still to work on
func (h *Handler) Dashboard(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "dashboard")
	}
	ctx := c.Request().Context()

	counts, err := h.store.Orders.StatsCounts(ctx, id.TenantID)
	if err != nil {
		return respondError(c, err, "failed to load dashboard")
	}
	pending, err := h.store.Orders.ListByStatus(ctx, id.TenantID, model.StatusPending)
	if err != nil {
		return respondError(c, err, "failed to load dashboard")
	}
	preparing, err := h.store.Orders.ListByStatus(ctx, id.TenantID, model.StatusPaid)
	if err != nil {
		return respondError(c, err, "failed to load dashboard")
	}

	resp := dashboardResponse{Pending: pending, Preparing: preparing}
	for _, st := range model.OrderStatuses {
		resp.Counts = append(resp.Counts, statusCount{Status: st, Label: st.Label(), Count: counts[st]})
	}
	return c.JSON(http.StatusOK, resp)
}
