package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backoffice/internal/core/domain/model/access"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// Claims carried by bearer tokens: the subject is the user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticate verifies the HS256 bearer token and stores the caller as an
// access.Actor on the echo context.
func Authenticate(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header is missing")
			}

			var claims Claims
			if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
				return secret, nil
			}); err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}
			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFromClaims(claims Claims) (access.Actor, error) {
	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return access.Actor{}, err
	}
	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.Actor{}, err
	}
	return access.NewActor(id, role)
}

func actorFrom(c echo.Context) (access.Actor, error) {
	actor, ok := c.Get(actorContextKey).(access.Actor)
	if !ok {
		return access.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return actor, nil
}

// SignToken issues a token for actor. It exists for operators and tests;
// the back office does not log users in.
func SignToken(secret []byte, actor access.Actor, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
