package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// User represents a user record held in the document store.
type User struct {
	ID       string `json:"_id,omitempty"`                // ID is the store-assigned identifier (hex ObjectID)
	Name     string `json:"name" validate:"required"`     // Name is the user's display name
	Email    string `json:"email" validate:"required"`    // Email is the user's contact address
	Location string `json:"location" validate:"required"` // Location is where the user is based
}

var validate = validator.New()

// Validate reports every required field that is missing or blank.
func (u *User) Validate() error {
	normalized := User{
		Name:     strings.TrimSpace(u.Name),
		Email:    strings.TrimSpace(u.Email),
		Location: strings.TrimSpace(u.Location),
	}

	err := validate.Struct(normalized)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	missing := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		missing = append(missing, strings.ToLower(e.Field()))
	}
	return fmt.Errorf("invalid user: missing %s", strings.Join(missing, ", "))
}
