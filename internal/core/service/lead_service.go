package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChhatbarPooja/crm-api/internal/api/metrics"
	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/pagination"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

// EventSink receives the domain events raised by lead mutations. The
// production sink is the queue dispatcher; a status write whose event
// cannot be delivered is not rolled back, so Emit must not fail.
type EventSink interface {
	Emit(event domain.Event)
}

const maxPageSize = 100

type LeadService struct {
	repo   ports.LeadRepository
	users  ports.UserRepository
	events EventSink
	logger zerolog.Logger
}

func NewLeadService(repo ports.LeadRepository, users ports.UserRepository, events EventSink, logger zerolog.Logger) *LeadService {
	return &LeadService{repo: repo, users: users, events: events, logger: logger}
}

// CreateLead inserts a new lead. The status defaults to "New Lead"; an
// explicit status must be a member of the enumerated set. Assigning at
// creation time raises a LeadAssigned event like any later assignment.
func (s *LeadService) CreateLead(ctx context.Context, input ports.CreateLeadInput) (*domain.Lead, error) {
	status := domain.StatusNewLead
	if input.Status != "" {
		status = domain.LeadStatus(input.Status)
		if !domain.ValidStatus(status) {
			return nil, fmt.Errorf("create lead: %w: %q", domain.ErrInvalidStatus, input.Status)
		}
	}

	if input.AssignedTo != "" {
		if _, err := s.users.FindByID(ctx, input.AssignedTo); err != nil {
			return nil, fmt.Errorf("create lead: assignee: %w", err)
		}
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		Name:       input.Name,
		Company:    input.Company,
		Email:      input.Email,
		Phone:      input.Phone,
		Status:     status,
		AssignedTo: input.AssignedTo,
		Value:      domain.Money{Amount: input.Value.Amount, Currency: input.Value.Currency},
		Notes:      input.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: status, ChangedBy: input.Actor.ID, Timestamp: now},
		},
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		s.logger.Error().Err(err).Str("lead", input.Name).Msg("failed to create lead")
		return nil, err
	}

	metrics.LeadsCreatedTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().Str("lead_id", created.ID).Str("status", string(status)).Msg("lead created")

	if created.AssignedTo != "" {
		s.events.Emit(domain.LeadAssigned{
			LeadID:      created.ID,
			LeadName:    created.Name,
			NewAssignee: created.AssignedTo,
			ActorID:     input.Actor.ID,
			ActorName:   input.Actor.Name,
			At:          now,
		})
	}
	return created, nil
}

func (s *LeadService) GetLead(ctx context.Context, actor domain.Actor, id string) (*domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := domain.Decide(actor, leadResource(lead), domain.OpRead); !d.Allowed {
		return nil, fmt.Errorf("get lead: %w: %s", domain.ErrForbidden, d.Reason)
	}
	return lead, nil
}

func (s *LeadService) ListLeads(ctx context.Context, input ports.ListLeadsInput) (*ports.ListLeadsResult, error) {
	if d := domain.Decide(input.Actor, domain.Resource{Kind: domain.ResourceLead}, domain.OpRead); !d.Allowed {
		return nil, fmt.Errorf("list leads: %w: %s", domain.ErrForbidden, d.Reason)
	}

	limit := input.Limit
	if limit > maxPageSize {
		limit = maxPageSize
	}

	// Probe page bounds first so repository skip/limit match the shared
	// pagination arithmetic.
	window := pagination.Paginate(0, input.Page, limit)

	items, total, err := s.repo.List(ctx, ports.ListLeadsFilter{
		Status:     input.Status,
		AssignedTo: input.AssignedTo,
		Search:     input.Search,
		Page:       window.Page,
		Limit:      window.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListLeadsResult{
		Items: items,
		Page:  pagination.Paginate(total, window.Page, window.Limit),
	}, nil
}

func (s *LeadService) UpdateLead(ctx context.Context, actor domain.Actor, id string, input ports.UpdateLeadInput) (*domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := domain.Decide(actor, leadResource(lead), domain.OpUpdate); !d.Allowed {
		return nil, fmt.Errorf("update lead: %w: %s", domain.ErrForbidden, d.Reason)
	}

	fields := ports.UpdateLeadFields{
		Name:    input.Name,
		Company: input.Company,
		Email:   input.Email,
		Phone:   input.Phone,
		Notes:   input.Notes,
	}
	if input.Value != nil {
		fields.Value = &domain.Money{Amount: input.Value.Amount, Currency: input.Value.Currency}
	}

	updated, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("lead_id", id).Str("actor", actor.ID).Msg("lead updated")
	return updated, nil
}

func (s *LeadService) DeleteLead(ctx context.Context, actor domain.Actor, id string) error {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if d := domain.Decide(actor, leadResource(lead), domain.OpDelete); !d.Allowed {
		return fmt.Errorf("delete lead: %w: %s", domain.ErrForbidden, d.Reason)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("lead_id", id).Str("actor", actor.ID).Msg("lead deleted")
	return nil
}

// TransitionStatus moves a lead to newStatus. Every enumerated status is
// reachable from every other one; only membership in the set is validated.
// A successful write emits a StatusChanged event for the dispatcher; the
// write is not rolled back if event handling later fails.
func (s *LeadService) TransitionStatus(ctx context.Context, actor domain.Actor, id string, newStatus string) (*domain.Lead, error) {
	next := domain.LeadStatus(newStatus)
	if !domain.ValidStatus(next) {
		return nil, fmt.Errorf("transition: %w: %q", domain.ErrInvalidStatus, newStatus)
	}

	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := domain.Decide(actor, leadResource(lead), domain.OpTransition); !d.Allowed {
		return nil, fmt.Errorf("transition: %w: %s", domain.ErrForbidden, d.Reason)
	}

	now := time.Now().UTC()
	entry := domain.StatusHistoryEntry{Status: next, ChangedBy: actor.ID, Timestamp: now}
	if err := s.repo.UpdateStatus(ctx, id, next, entry); err != nil {
		return nil, fmt.Errorf("transition: update status: %w", err)
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(lead.Status), string(next)).Inc()
	s.logger.Info().
		Str("lead_id", id).
		Str("from", string(lead.Status)).
		Str("to", string(next)).
		Str("actor", actor.ID).
		Msg("status transition")

	s.events.Emit(domain.StatusChanged{
		LeadID:    lead.ID,
		LeadName:  lead.Name,
		Previous:  lead.Status,
		Next:      next,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		At:        now,
	})

	lead.Status = next
	lead.UpdatedAt = now
	lead.StatusHistory = append(lead.StatusHistory, entry)
	return lead, nil
}

// AssignLead sets or clears the assignee, emitting a LeadAssigned event
// only when the assignee actually changes. A non-empty assignee must
// reference an existing user.
func (s *LeadService) AssignLead(ctx context.Context, actor domain.Actor, id string, assignee string) (*domain.Lead, error) {
	lead, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := domain.Decide(actor, leadResource(lead), domain.OpAssign); !d.Allowed {
		return nil, fmt.Errorf("assign: %w: %s", domain.ErrForbidden, d.Reason)
	}

	// Re-assigning to the current assignee is a no-op: no write, no event,
	// no "assigned to you" notification.
	if assignee == lead.AssignedTo {
		return lead, nil
	}

	if assignee != "" {
		if _, err := s.users.FindByID(ctx, assignee); err != nil {
			return nil, fmt.Errorf("assign: assignee: %w", err)
		}
	}

	if err := s.repo.UpdateAssignee(ctx, id, assignee); err != nil {
		return nil, fmt.Errorf("assign: %w", err)
	}

	s.logger.Info().
		Str("lead_id", id).
		Str("assignee", assignee).
		Str("actor", actor.ID).
		Msg("lead assigned")

	s.events.Emit(domain.LeadAssigned{
		LeadID:           lead.ID,
		LeadName:         lead.Name,
		PreviousAssignee: lead.AssignedTo,
		NewAssignee:      assignee,
		ActorID:          actor.ID,
		ActorName:        actor.Name,
		At:               time.Now().UTC(),
	})

	lead.AssignedTo = assignee
	return lead, nil
}

func leadResource(lead *domain.Lead) domain.Resource {
	return domain.Resource{Kind: domain.ResourceLead, ID: lead.ID, OwnerID: lead.AssignedTo}
}
