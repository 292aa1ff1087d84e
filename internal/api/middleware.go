package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
)

const userContextKey = "task-tracker.user"

// TokenAuth rejects requests without a resolvable bearer token and stores
// the authenticated user on the echo context.
func TokenAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, err := bearerKeyFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
			}
			user, err := auth.Authenticate(c.Request().Context(), key)
			if err != nil {
				if errors.Is(err, service.ErrInvalidCredentials) {
					return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
				}
				c.Logger().Error(err)
				return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// userFromContext returns the user stored by TokenAuth, or nil.
func userFromContext(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// RequestLogger emits one structured line per request and tags responses
// with an X-Request-Id.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			fields := log.Fields{
				"method":      c.Request().Method,
				"path":        c.Request().URL.Path,
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  requestID,
			}
			if user := userFromContext(c); user != nil {
				fields["user_id"] = user.ID
			}
			logger.WithFields(fields).Info("request")

			return err
		}
	}
}
