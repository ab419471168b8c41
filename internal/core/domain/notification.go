package domain

import (
	"errors"
	"time"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Preference keys consulted by the notification dispatcher. DailySummary is
// stored for a future digest job and never gates anything yet.
const (
	PrefLeadAssigned  = "lead_assigned"
	PrefStatusChanged = "status_changed"
	PrefDailySummary  = "daily_summary"
)

// Notification is an in-app message addressed to a single user. Only the
// recipient may read it or mark it read; the read flag never transitions
// back to false. Notifications are created exclusively by domain events.
type Notification struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	RelatedLead string    `json:"related_lead,omitempty"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
