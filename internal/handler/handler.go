package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/auth"
	"github.com/suteetoe/cakeorders/internal/store"
	"github.com/suteetoe/cakeorders/pkg/jwtutil"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the HTTP API on top of the stores
type Handler struct {
	serviceName string
	db          *gorm.DB
	store       *store.Store
	auth        *auth.Service
	jwt         *jwtutil.JWTUtil
}

// New creates a handler set
func New(serviceName string, db *gorm.DB, st *store.Store, authSvc *auth.Service, jwtUtil *jwtutil.JWTUtil) *Handler {
	return &Handler{
		serviceName: serviceName,
		db:          db,
		store:       st,
		auth:        authSvc,
		jwt:         jwtUtil,
	}
}

var errNoIdentity = errors.New("authentication required")

// identity returns the tenant the request acts for
func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok || id.TenantID == 0 {
		return auth.Identity{}, errNoIdentity
	}
	return id, nil
}

// paramID parses a positive numeric path parameter
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, &store.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return uint(id), nil
}

// respondError maps domain errors onto HTTP status codes
func respondError(c echo.Context, err error, msg string) error {
	log := logger.FromEcho(c)

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, store.ErrDuplicateUsername):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg + ": not found"})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, errNoIdentity):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	}

	log.Error(msg, zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
}
