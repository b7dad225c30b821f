package user

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	domain "users-rest-api/internal/domain/user"
	pkgerrors "users-rest-api/pkg/errors"
	"users-rest-api/pkg/logger"
)

// Repository defines the read access the usecase needs from the user store.
type Repository interface {
	// List returns at most limit users in store order.
	List(ctx context.Context, limit int64) ([]domain.User, error)
}

// UserUsecase implements Usecase on top of a Repository.
type UserUsecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new UserUsecase.
func New(r Repository, log *zap.Logger) *UserUsecase {
	return &UserUsecase{repo: r, log: log}
}

// ListUsers returns up to in.Limit users. Store failures are reported as
// 500 errors with a generic public message; the cause stays in the logs.
func (uc *UserUsecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	if in.Limit <= 0 {
		return nil, pkgerrors.New(http.StatusInternalServerError, fmt.Sprintf("invalid list limit %d", in.Limit))
	}

	log.Debug("listing users", zap.Int64("limit", in.Limit))

	domainUsers, err := uc.repo.List(ctx, in.Limit)
	if err != nil {
		log.Error("failed to list users", zap.Int64("limit", in.Limit), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to list users", err)
	}

	// cap holds even if the repository ignores limit
	if int64(len(domainUsers)) > in.Limit {
		domainUsers = domainUsers[:in.Limit]
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			ID:       du.ID,
			Name:     du.Name,
			Email:    du.Email,
			Location: du.Location,
		}
	}

	return &ListUsersResponse{Users: users}, nil
}
