package domain

import (
	"errors"
	"time"
)

// LeadStatus represents the pipeline stage of a lead. The values double as
// kanban column names, so they are stored and rendered verbatim.
type LeadStatus string

const (
	StatusNewLead     LeadStatus = "New Lead"
	StatusContacted   LeadStatus = "Contacted"
	StatusQualified   LeadStatus = "Qualified"
	StatusProposal    LeadStatus = "Proposal"
	StatusNegotiation LeadStatus = "Negotiation"
	StatusClosed      LeadStatus = "Closed"
)

// LeadStatuses lists every valid status in kanban column order.
var LeadStatuses = []LeadStatus{
	StatusNewLead,
	StatusContacted,
	StatusQualified,
	StatusProposal,
	StatusNegotiation,
	StatusClosed,
}

var ErrLeadNotFound = errors.New("lead not found")
var ErrInvalidStatus = errors.New("invalid lead status")
var ErrForbidden = errors.New("not authorized")

// ValidStatus reports whether s is a member of the enumerated status set.
// Transitions are unrestricted between members: any status is reachable
// from any other, so membership is the only check.
func ValidStatus(s LeadStatus) bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Money is a currency amount with its ISO currency code.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// StatusHistoryEntry records a single status transition on a lead.
type StatusHistoryEntry struct {
	Status    LeadStatus `json:"status"`
	ChangedBy string     `json:"changed_by"`
	Timestamp time.Time  `json:"timestamp"`
}

// Lead is the core aggregate root: a sales prospect tracked through the
// status pipeline. AssignedTo holds the id of the responsible sales rep and
// may be empty. Admins always override assignment.
type Lead struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Company       string               `json:"company"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Status        LeadStatus           `json:"status"`
	AssignedTo    string               `json:"assigned_to,omitempty"`
	Value         Money                `json:"value"`
	Notes         string               `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
}
