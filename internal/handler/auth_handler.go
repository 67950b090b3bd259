package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// Login exchanges a username and password for a bearer token
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	tenant, err := h.auth.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		log.Info("Login rejected", zap.String("username", req.Username))
		return respondError(c, err, "login failed")
	}

	token, err := h.jwt.GenerateToken(tenant.ID, tenant.Username, tenant.IsSuperuser)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Tenant logged in",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("username", tenant.Username))

	return c.JSON(http.StatusOK, echo.Map{
		"token":  token,
		"tenant": tenant,
	})
}

// ChangePassword updates the password of the calling tenant
func (h *Handler) ChangePassword(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return respondError(c, err, "change password")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if err := h.auth.ChangePassword(c.Request().Context(), id.TenantID, req.Password, req.Confirm); err != nil {
		return respondError(c, err, "failed to change password")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}
