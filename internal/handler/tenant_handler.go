package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/auth"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"go.uber.org/zap"
)

// TenantRequest is the payload superusers send to create a bakery account
type TenantRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	BakeryName  *string `json:"bakery_name"`
	Email       *string `json:"email"`
	IsSuperuser bool    `json:"is_superuser"`
}

// ListTenants returns every tenant, newest first
func (h *Handler) ListTenants(c echo.Context) error {
	tenants, err := h.store.Tenants.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to retrieve tenants")
	}
	return c.JSON(http.StatusOK, tenants)
}

// CreateTenant adds a bakery account
func (h *Handler) CreateTenant(c echo.Context) error {
	log := logger.FromEcho(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	tenantID, err := h.auth.CreateTenant(ctx, auth.NewTenantAccount{
		Username:    req.Username,
		Password:    req.Password,
		BakeryName:  req.BakeryName,
		Email:       req.Email,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		return respondError(c, err, "failed to create tenant")
	}

	tenant, err := h.store.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return respondError(c, err, "tenant")
	}
	log.Info("Tenant created",
		zap.Uint("id", tenant.ID),
		zap.String("username", tenant.Username),
		zap.Bool("is_superuser", tenant.IsSuperuser))
	return c.JSON(http.StatusCreated, tenant)
}
