package domain

// Actor is the authenticated identity performing an operation, as extracted
// from the request's JWT claims.
type Actor struct {
	ID   string
	Name string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Operation names a single action an actor can attempt on a resource.
type Operation string

const (
	OpRead              Operation = "read"
	OpUpdate            Operation = "update"
	OpDelete            Operation = "delete"
	OpUpdateRole        Operation = "update_role"
	OpUpdatePreferences Operation = "update_preferences"
	OpTransition        Operation = "transition"
	OpAssign            Operation = "assign"
	OpReadSalesDir      Operation = "read_sales_directory"
)

// ResourceKind identifies which resource type a policy decision is about.
type ResourceKind string

const (
	ResourceUser         ResourceKind = "user"
	ResourceLead         ResourceKind = "lead"
	ResourceNotification ResourceKind = "notification"
)

// Resource describes the target of an access decision. OwnerID is the
// notification recipient or the lead assignee; for users the resource id
// itself carries ownership. Empty OwnerID means the resource is unowned.
type Resource struct {
	Kind    ResourceKind
	ID      string
	OwnerID string
}

// Decision is the outcome of an access check. Reason is set on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Decide is the single access policy for the whole API. It is pure: no
// repository lookups, no side effects. Rules are evaluated in order and the
// first match wins.
//
//  1. Admins may do anything.
//  2. A user may read and update their own profile and preferences, but not
//     their own role.
//  3. A recipient may read and update (mark read) their own notifications.
//  4. Any authenticated actor may read the sales directory projection.
//  5. Leads are readable by any authenticated actor; mutations require the
//     current assignee, or the sales role when the lead is unassigned.
//
// Everything else is denied with "not authorized".
func Decide(actor Actor, res Resource, op Operation) Decision {
	if actor.IsAdmin() {
		return allow()
	}

	switch res.Kind {
	case ResourceUser:
		if actor.ID != "" && actor.ID == res.ID {
			switch op {
			case OpRead, OpUpdate, OpUpdatePreferences:
				return allow()
			case OpUpdateRole:
				return deny("only admins may change roles")
			}
		}

	case ResourceNotification:
		if actor.ID != "" && actor.ID == res.OwnerID {
			switch op {
			case OpRead, OpUpdate:
				return allow()
			}
		}

	case ResourceLead:
		switch op {
		case OpRead:
			if actor.ID != "" {
				return allow()
			}
		case OpUpdate, OpTransition, OpAssign:
			if actor.ID != "" && actor.ID == res.OwnerID {
				return allow()
			}
			// Unassigned leads can be picked up by any sales rep.
			if res.OwnerID == "" && actor.Role == RoleSales {
				return allow()
			}
		}
	}

	if op == OpReadSalesDir && actor.ID != "" {
		return allow()
	}

	return deny("not authorized")
}
