package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ClaimsContextKey is the echo context key under which OptionalJWT stores claims.
const ClaimsContextKey = "auth_claims"

// OptionalJWT validates a bearer token when one is present and stores the
// claims in the request context. Requests without a token, or with an invalid
// one, proceed anonymously. Used on endpoints that only attribute the actor.
func OptionalJWT(jwtService *JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				if claims, err := jwtService.ValidateToken(strings.TrimSpace(token)); err == nil {
					c.Set(ClaimsContextKey, claims)
				}
			}
			return next(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by OptionalJWT, or nil for
// anonymous requests.
func ClaimsFromContext(c echo.Context) *Claims {
	claims, _ := c.Get(ClaimsContextKey).(*Claims)
	return claims
}

// RejectBlacklisted rejects access tokens revoked at logout. It must run
// after the echo-jwt middleware, which leaves the parsed token under "user".
// Blacklist lookup failures fail open, matching the token store.
func RejectBlacklisted(tokenStore TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return next(c)
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.ID == "" {
				return next(c)
			}
			revoked, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err == nil && revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			return next(c)
		}
	}
}
