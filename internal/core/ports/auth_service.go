package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// AuthService implements account registration and login.
type AuthService interface {
	Register(ctx context.Context, name, email, password, role string) (*domain.User, error)
	// Login verifies credentials and returns a signed JWT plus the user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
