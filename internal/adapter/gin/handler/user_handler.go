package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-rest-api/internal/adapter/gin/middleware"
	"users-rest-api/internal/usecase/user"
	"users-rest-api/pkg/logger"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse represents a user in HTTP responses
type UserResponse struct {
	ID       string `json:"_id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Data []UserResponse `json:"data"`
}

// MakeListHandler returns a handler for GET /users that replies with at most
// limit users. The cap is fixed here, not taken from the request.
func (h *UserHandler) MakeListHandler(limit int64) middleware.HandlerFunc {
	if limit <= 0 {
		panic(fmt.Sprintf("handler: list limit must be positive, got %d", limit))
	}

	return func(c *gin.Context) error {
		resp, err := h.uc.ListUsers(c.Request.Context(), user.ListUsersRequest{Limit: limit})
		if err != nil {
			return err
		}

		users := make([]UserResponse, len(resp.Users))
		for i, u := range resp.Users {
			users[i] = UserResponse{
				ID:       u.ID,
				Name:     u.Name,
				Email:    u.Email,
				Location: u.Location,
			}
		}

		logger.WithContext(c.Request.Context(), h.log).Debug("listed users", zap.Int("count", len(users)))

		c.JSON(http.StatusOK, ListUsersResponse{Data: users})
		return nil
	}
}
