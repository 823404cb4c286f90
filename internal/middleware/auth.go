package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"daydreams-server/internal/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Ключи контекста echo для данных аутентифицированного пользователя.
const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "userEmail"
)

// TokenVerifier - сигнатура функции проверки токена (authutils.JWTVerifier.VerifyToken).
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// JWTAuthMiddleware создает echo middleware, проверяющее Bearer-токен
// и кладущее userID/email в контекст запроса.
func JWTAuthMiddleware(verify TokenVerifier, logger *zap.Logger) echo.MiddlewareFunc {
	log := logger.Named("AuthMiddleware")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header missing")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
			}

			claims, err := verify(c.Request().Context(), parts[1])
			if err != nil {
				log.Debug("Token verification failed", zap.Error(err))
				switch {
				case errors.Is(err, models.ErrTokenExpired):
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
				case errors.Is(err, models.ErrTokenMalformed):
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is malformed")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Token is invalid")
				}
			}

			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyEmail, claims.Email)
			return next(c)
		}
	}
}
