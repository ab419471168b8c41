package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// ListUsers returns every account with notification preferences stripped.
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.NotificationPreferences = nil
	}
	return users, nil
}

// ListSalesReps returns the restricted name+email projection of sales-role
// users. Any authenticated actor may call it.
func (s *UserService) ListSalesReps(ctx context.Context, actor domain.Actor) ([]ports.SalesRep, error) {
	res := domain.Resource{Kind: domain.ResourceUser}
	if d := domain.Decide(actor, res, domain.OpReadSalesDir); !d.Allowed {
		return nil, fmt.Errorf("sales directory: %w: %s", domain.ErrForbidden, d.Reason)
	}

	users, err := s.repo.FindByRole(ctx, domain.RoleSales)
	if err != nil {
		return nil, err
	}

	reps := make([]ports.SalesRep, 0, len(users))
	for _, u := range users {
		reps = append(reps, ports.SalesRep{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	return reps, nil
}

func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	res := domain.Resource{Kind: domain.ResourceUser, ID: id}
	if d := domain.Decide(actor, res, domain.OpRead); !d.Allowed {
		return nil, fmt.Errorf("get user: %w: %s", domain.ErrForbidden, d.Reason)
	}
	return s.repo.FindByID(ctx, id)
}

// UpdateUser applies a partial profile update. Role changes are an
// admin-only operation and are rejected, not silently dropped, for anyone
// else. Passwords are never updatable through this path.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Actor, id string, input ports.UpdateUserInput) (*domain.User, error) {
	res := domain.Resource{Kind: domain.ResourceUser, ID: id}
	if d := domain.Decide(actor, res, domain.OpUpdate); !d.Allowed {
		return nil, fmt.Errorf("update user: %w: %s", domain.ErrForbidden, d.Reason)
	}

	if input.Role != nil {
		if d := domain.Decide(actor, res, domain.OpUpdateRole); !d.Allowed {
			return nil, fmt.Errorf("update user: %w: %s", domain.ErrForbidden, d.Reason)
		}
		if !domain.ValidRole(*input.Role) {
			return nil, fmt.Errorf("update user: %w: %q", domain.ErrInvalidRole, *input.Role)
		}
	}

	updated, err := s.repo.UpdateFields(ctx, id, ports.UpdateUserFields{
		Name:  input.Name,
		Email: input.Email,
		Role:  input.Role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("actor", actor.ID).Msg("user updated")
	return updated, nil
}

// DeleteUser removes an account. Route-level RBAC restricts this to admins;
// self-deletion is always rejected.
func (s *UserService) DeleteUser(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID == id {
		return domain.ErrSelfDelete
	}

	res := domain.Resource{Kind: domain.ResourceUser, ID: id}
	if d := domain.Decide(actor, res, domain.OpDelete); !d.Allowed {
		return fmt.Errorf("delete user: %w: %s", domain.ErrForbidden, d.Reason)
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("actor", actor.ID).Msg("user deleted")
	return nil
}

// UpdatePreferences merges the submitted preference keys into the user's
// map. Self-only: admins manage accounts, not other people's preferences.
func (s *UserService) UpdatePreferences(ctx context.Context, actor domain.Actor, id string, input ports.UpdatePreferencesInput) (map[string]bool, error) {
	if actor.ID != id {
		return nil, fmt.Errorf("update preferences: %w: preferences are self-service", domain.ErrForbidden)
	}

	prefs := make(map[string]bool)
	if input.LeadAssigned != nil {
		prefs[domain.PrefLeadAssigned] = *input.LeadAssigned
	}
	if input.StatusChanged != nil {
		prefs[domain.PrefStatusChanged] = *input.StatusChanged
	}
	if input.DailySummary != nil {
		prefs[domain.PrefDailySummary] = *input.DailySummary
	}

	merged, err := s.repo.MergePreferences(ctx, id, prefs)
	if err != nil {
		return nil, err
	}
	return merged, nil
}
