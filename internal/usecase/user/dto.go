package user

// ListUsersRequest represents the request payload for listing users.
// Limit caps the number of returned records and must be positive.
type ListUsersRequest struct {
	Limit int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID       string
	Name     string
	Email    string
	Location string
}
