package handler

// Request types for lead endpoints. Bodies are explicit, validated structs
// decoded by the strict binder: an unknown key is a 400, never a silent
// no-op, and can never leak into the stored document. Status and assignee
// changes have dedicated endpoints so their events are always raised.

type moneyRequest struct {
	Amount   float64 `json:"amount"   validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

type createLeadRequest struct {
	Name       string        `json:"name"    validate:"required"`
	Company    string        `json:"company" validate:"required"`
	Email      string        `json:"email"   validate:"omitempty,email"`
	Phone      string        `json:"phone"`
	Status     string        `json:"status"  validate:"omitempty,oneof='New Lead' Contacted Qualified Proposal Negotiation Closed"`
	AssignedTo string        `json:"assigned_to"`
	Value      *moneyRequest `json:"value"`
	Notes      string        `json:"notes"`
}

type updateLeadRequest struct {
	Name    *string       `json:"name"`
	Company *string       `json:"company"`
	Email   *string       `json:"email" validate:"omitempty,email"`
	Phone   *string       `json:"phone"`
	Value   *moneyRequest `json:"value"`
	Notes   *string       `json:"notes"`
}

type transitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignLeadRequest struct {
	// Empty unassigns the lead.
	AssignedTo string `json:"assigned_to"`
}
