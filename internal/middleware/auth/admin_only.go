package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/jsonshop/internal/logging"
	"github.com/Skotchmaster/jsonshop/internal/tokens"
)

// AdminGuard protects routes with an HS256 bearer token carrying the admin
// role. A guard without a secret lets every request through.
type AdminGuard struct {
	JWTSecret []byte
}

func NewAdminGuard(secret []byte) *AdminGuard {
	return &AdminGuard{JWTSecret: secret}
}

func (g *AdminGuard) Enabled() bool {
	return g != nil && len(g.JWTSecret) > 0
}

func (g *AdminGuard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !g.Enabled() {
			return next(c)
		}
		l := logging.FromContext(c.Request().Context()).With("middleware", "require_admin")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			l.Warn("admin_auth_failed", "status", 401, "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, g.JWTSecret)
		if err != nil {
			l.Warn("admin_auth_failed", "status", 401, "reason", "invalid access token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if claims.Role != tokens.RoleAdmin {
			l.Warn("admin_auth_failed", "status", 403, "reason", "role is not admin", "subject", claims.Subject)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}

		c.Set("subject", claims.Subject)
		c.Set("role", claims.Role)
		return next(c)
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
