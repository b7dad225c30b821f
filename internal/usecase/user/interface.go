package user

import "context"

// Usecase defines the interface for user read operations.
type Usecase interface {
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
}
