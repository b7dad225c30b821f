package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "users-rest-api/pkg/errors"
	"users-rest-api/pkg/logger"
)

// Recovery turns a panic in a later handler into a 500 handled by ErrorHandler.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered in handler",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				_ = c.Error(pkgerrors.NewInternalError(pkgerrors.DefaultMessage, fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
