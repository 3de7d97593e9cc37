// Package policy is the single source of truth for authorization
// decisions. It is a pure function over snapshots of current state: no DB
// access, no framework registry.
package policy

const (
	ResourceSumula = "sumula"
	ResourcePlayer = "player"
	ResourceEvent  = "event"
)

const (
	ActionCreate = "create"
	ActionView   = "view"
	ActionChange = "change"
	ActionDelete = "delete"
)

// Grant is one object-scoped capability the user holds on the event.
type Grant struct {
	Resource string
	Action   string
}

// Snapshot carries everything the evaluator may consult for one
// (user, event) pair.
type Snapshot struct {
	UserEmail       string
	EventAdminEmail string
	Grants          []Grant
}

// IsAdmin reports whether the user is the event's admin. The admin is
// implicitly omnipotent over their own event.
func (s Snapshot) IsAdmin() bool {
	return s.UserEmail != "" && s.UserEmail == s.EventAdminEmail
}

// Allows decides (user, event, resource, action). Precedence: admin by
// email match, then an explicit grant, otherwise deny.
func Allows(s Snapshot, resource, action string) bool {
	if s.IsAdmin() {
		return true
	}
	for _, g := range s.Grants {
		if g.Resource == resource && g.Action == action {
			return true
		}
	}
	return false
}

// StaffInfo is the slice of a Staff row the closed-sumula gate needs.
// A nil StaffInfo means the user has no staff record for the event.
type StaffInfo struct {
	IsManager bool
}

// CanEditSumula applies the closed-sumula rule on top of the base change
// capability: an open sumula is editable by any authorized staff, a closed
// one only by the admin or a manager. Callers must have checked
// Allows(..., ResourceSumula, ActionChange) already.
func CanEditSumula(s Snapshot, active bool, staff *StaffInfo) bool {
	if s.IsAdmin() {
		return true
	}
	if active {
		return true
	}
	if staff == nil {
		return false
	}
	return staff.IsManager
}
