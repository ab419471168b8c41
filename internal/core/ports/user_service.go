package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// SalesRep is the restricted projection of a sales-role user exposed to all
// authenticated actors.
type SalesRep struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserInput carries a partial profile update. Role may only be set by
// admins; password changes go through a separate flow and are not accepted
// here at all.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// UpdatePreferencesInput holds the known notification preference keys. Nil
// pointers leave the stored preference untouched; unknown keys are rejected
// at the schema layer before this type is built.
type UpdatePreferencesInput struct {
	LeadAssigned  *bool
	StatusChanged *bool
	DailySummary  *bool
}

// UserService defines use-case operations for user accounts.
type UserService interface {
	// ListUsers returns every account without notification preferences.
	// Admin gating happens at the route level.
	ListUsers(ctx context.Context) ([]*domain.User, error)
	// ListSalesReps returns the name+email projection of sales-role users.
	ListSalesReps(ctx context.Context, actor domain.Actor) ([]SalesRep, error)
	GetUser(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, id string, input UpdateUserInput) (*domain.User, error)
	// DeleteUser removes an account. Admin-only at the route level;
	// self-deletion fails with ErrSelfDelete.
	DeleteUser(ctx context.Context, actor domain.Actor, id string) error
	// UpdatePreferences merges the submitted keys into the actor's own
	// preference map and returns the merged map.
	UpdatePreferences(ctx context.Context, actor domain.Actor, id string, input UpdatePreferencesInput) (map[string]bool, error)
}
