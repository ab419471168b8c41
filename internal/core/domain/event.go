package domain

import "time"

// Event is a domain event raised by a lead mutation. LeadRef returns the id
// of the lead the event concerns, used to shard events so that all events
// for one lead are processed in order.
type Event interface {
	LeadRef() string
}

// StatusChanged is emitted after a successful status transition.
type StatusChanged struct {
	LeadID    string
	LeadName  string
	Previous  LeadStatus
	Next      LeadStatus
	ActorID   string
	ActorName string
	At        time.Time
}

func (e StatusChanged) LeadRef() string { return e.LeadID }

// LeadAssigned is emitted when the assignee of a lead is set or changed,
// independent of status. NewAssignee may be empty when a lead is unassigned.
type LeadAssigned struct {
	LeadID           string
	LeadName         string
	PreviousAssignee string
	NewAssignee      string
	ActorID          string
	ActorName        string
	At               time.Time
}

func (e LeadAssigned) LeadRef() string { return e.LeadID }
