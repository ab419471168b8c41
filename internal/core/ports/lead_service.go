package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/pagination"
)

// MoneyInput is a currency amount as submitted by the transport layer.
type MoneyInput struct {
	Amount   float64
	Currency string
}

// CreateLeadInput carries all data needed to create a new lead. Status is
// optional and defaults to "New Lead"; AssignedTo is optional and, when
// set, raises a LeadAssigned event.
type CreateLeadInput struct {
	Actor      domain.Actor
	Name       string
	Company    string
	Email      string
	Phone      string
	Status     string
	AssignedTo string
	Value      MoneyInput
	Notes      string
}

// UpdateLeadInput carries a partial lead update. Status and assignee are
// deliberately excluded: those change through TransitionStatus and
// AssignLead so the corresponding events are always raised.
type UpdateLeadInput struct {
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Value   *MoneyInput
	Notes   *string
}

// ListLeadsInput carries all parameters for the list endpoint.
type ListLeadsInput struct {
	Actor      domain.Actor
	Status     string
	AssignedTo string
	Search     string
	Page       int
	Limit      int
}

// ListLeadsResult is returned by ListLeads.
type ListLeadsResult struct {
	Items []*domain.Lead
	Page  pagination.Page
}

// LeadService defines use-case operations for leads. All mutations run the
// access policy for the acting user before touching the repository.
type LeadService interface {
	CreateLead(ctx context.Context, input CreateLeadInput) (*domain.Lead, error)
	GetLead(ctx context.Context, actor domain.Actor, id string) (*domain.Lead, error)
	ListLeads(ctx context.Context, input ListLeadsInput) (*ListLeadsResult, error)
	UpdateLead(ctx context.Context, actor domain.Actor, id string, input UpdateLeadInput) (*domain.Lead, error)
	DeleteLead(ctx context.Context, actor domain.Actor, id string) error
	// TransitionStatus validates newStatus against the enumerated status set,
	// applies it, and emits a StatusChanged event.
	TransitionStatus(ctx context.Context, actor domain.Actor, id string, newStatus string) (*domain.Lead, error)
	// AssignLead sets the assignee (empty clears it) and emits a
	// LeadAssigned event when the assignee changes; re-assigning the
	// current assignee is a no-op. A non-empty assignee must reference an
	// existing user.
	AssignLead(ctx context.Context, actor domain.Actor, id string, assignee string) (*domain.Lead, error)
}
