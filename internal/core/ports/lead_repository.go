package ports

import (
	"context"

	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
)

// ListLeadsFilter carries all query parameters for listing leads.
type ListLeadsFilter struct {
	Status     string // optional: filter by pipeline status
	AssignedTo string // optional: filter by assignee user id
	Search     string // optional: partial match on name or company
	Page       int    // 1-based
	Limit      int    // rows per page
}

// UpdateLeadFields holds the optional field updates applied by UpdateFields.
// Nil pointers leave the stored value untouched.
type UpdateLeadFields struct {
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Value   *domain.Money
	Notes   *string
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	FindByID(ctx context.Context, id string) (*domain.Lead, error)
	// List returns a page of leads matching filter, newest first, and the
	// total match count.
	List(ctx context.Context, filter ListLeadsFilter) ([]*domain.Lead, int64, error)
	// UpdateFields applies a partial field update and returns the updated lead.
	UpdateFields(ctx context.Context, id string, fields UpdateLeadFields) (*domain.Lead, error)
	// UpdateStatus atomically sets the new status and appends a history entry.
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus, entry domain.StatusHistoryEntry) error
	// UpdateAssignee sets or clears the assignee (empty id clears).
	UpdateAssignee(ctx context.Context, id string, assignee string) error
	Delete(ctx context.Context, id string) error
}
