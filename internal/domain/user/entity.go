package user

import "strings"

type Role string

const (
	RoleAdmin Role = "admin" // Payroll administrator, full access
	RoleRep   Role = "rep"   // Sales rep, sees only their own records
)

// AdminID is the fixed principal id of the passcode-authenticated administrator.
const AdminID = "admin"

// Principal is the authenticated caller. It is passed explicitly to every service call.
type Principal struct {
	ID   string
	Name string
	Role Role
}

// System is the principal used by the CLI and scheduled jobs.
func System() Principal {
	return Principal{ID: AdminID, Name: "System", Role: RoleAdmin}
}

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleRep:
		return RoleRep, true
	}
	return "", false
}

// IsAdmin checks if the principal is an administrator
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsRep checks if the principal is a rep
func (p Principal) IsRep() bool {
	return p.Role == RoleRep
}

// CanView reports whether the principal may see data belonging to employeeID.
func (p Principal) CanView(employeeID string) bool {
	return p.IsAdmin() || (p.IsRep() && p.ID == employeeID)
}

// Require returns ErrInsufficientPermissions unless the role holds the permission.
func (p Principal) Require(permission Permission) error {
	if p.ID == "" {
		return ErrUnauthenticated
	}
	if !HasPermission(p.Role, permission) {
		return ErrInsufficientPermissions
	}
	return nil
}
