package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// UpdateUserFields holds the optional field updates applied by UpdateFields.
// Nil pointers leave the stored value untouched.
type UpdateUserFields struct {
	Name  *string
	Email *string
	Role  *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	UpdateFields(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	// MergePreferences merges the given keys into the stored preference map
	// and returns the resulting map.
	MergePreferences(ctx context.Context, id string, prefs map[string]bool) (map[string]bool, error)
	Delete(ctx context.Context, id string) error
}
