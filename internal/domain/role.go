package domain

// Role is the closed set of account roles. Privileges are derived from the
// role at authorization time, never stored.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}

func ValidRole(r string) bool {
	for _, role := range roles {
		if string(role) == r {
			return true
		}
	}
	return false
}

// LandingPath is where a user of the role is sent after login or on denial.
func LandingPath(r Role) string {
	switch r {
	case RoleAdmin:
		return "/dashboard/admin/"
	case RoleManager:
		return "/dashboard/manager/"
	case RoleEmployee:
		return "/dashboard/employee/"
	default:
		return "/auth/login"
	}
}

func (r Role) String() string { return string(r) }
