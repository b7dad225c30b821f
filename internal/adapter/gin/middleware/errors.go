package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "users-rest-api/pkg/errors"
	"users-rest-api/pkg/logger"
)

// HandlerFunc is a gin handler that reports failure by returning an error
// instead of writing an error response itself.
type HandlerFunc func(c *gin.Context) error

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}

// Handle adapts fn to gin. A returned error is recorded on the context
// for ErrorHandler and the rest of the chain is skipped.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}

// NotFound records a 404 for requests that matched no route.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		_ = c.Error(pkgerrors.NewNotFoundError(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// ErrorHandler is the single place where errors become responses.
// It must wrap every other handler: it runs the chain, then maps the last
// recorded error to {"message": ...} with the error's status or 500.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status, message := Resolve(err)

		l := logger.WithContext(c.Request.Context(), log).With(
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		if status >= http.StatusInternalServerError {
			l.Error("request failed", zap.Error(err))
		} else {
			l.Debug("request rejected", zap.Error(err))
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
	}
}

// Resolve returns the HTTP status and client message for err.
func Resolve(err error) (int, string) {
	status := http.StatusInternalServerError
	var sc pkgerrors.StatusCoder
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	var httpErr *pkgerrors.HTTPError
	if errors.As(err, &httpErr) {
		return status, httpErr.PublicMessage()
	}
	if msg := err.Error(); msg != "" {
		return status, msg
	}
	return status, pkgerrors.DefaultMessage
}
