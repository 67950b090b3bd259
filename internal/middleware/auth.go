package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/cakeorders/internal/auth"
	"github.com/suteetoe/cakeorders/pkg/jwtutil"
	"github.com/suteetoe/cakeorders/pkg/logger"
	"github.com/suteetoe/cakeorders/prometheus"
	"go.uber.org/zap"
)

// JWTAuthMiddleware validates the bearer token and stores the tenant identity in
// the request context
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			identity := auth.Identity{
				TenantID:    claims.TenantID,
				Username:    claims.Username,
				IsSuperuser: claims.IsSuperuser,
			}
			reqLogger := log.With(zap.Uint("tenant_id", identity.TenantID))
			logger.ToEcho(c, reqLogger)

			ctx := auth.WithIdentity(c.Request().Context(), identity)
			ctx = logger.WithContext(ctx, reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireSuperuser rejects requests whose identity is not a superuser.
// It must run after JWTAuthMiddleware.
func RequireSuperuser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := auth.IdentityFromContext(c.Request().Context())
		if !ok {
			prometheus.RecordAuthError("missing_identity")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		if !identity.IsSuperuser {
			logger.FromEcho(c).Warn("Superuser route denied", zap.String("username", identity.Username))
			prometheus.RecordAuthError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "superuser access required"})
		}
		return next(c)
	}
}
