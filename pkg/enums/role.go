package enums

import "fmt"

// Role represents a user's position in the valuation workflow.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleCoordinator     Role = "coordinator"
	RoleFieldOfficer    Role = "field_officer"
	RoleAccessor        Role = "accessor"
	RoleSeniorValuer    Role = "senior_valuer"
	RoleMDGM            Role = "md_gm"
	RoleHRHead          Role = "hr_head"
	RoleGeneralEmployee Role = "general_employee"
	RoleClient          Role = "client"
	RoleAgent           Role = "agent"
	RoleUnassigned      Role = "unassigned"
)

var validRoles = []Role{
	RoleAdmin,
	RoleCoordinator,
	RoleFieldOfficer,
	RoleAccessor,
	RoleSeniorValuer,
	RoleMDGM,
	RoleHRHead,
	RoleGeneralEmployee,
	RoleClient,
	RoleAgent,
	RoleUnassigned,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role belongs to an internal staff member
// rather than an external client or agent account.
func (r Role) IsStaff() bool {
	switch r {
	case RoleClient, RoleAgent, RoleUnassigned:
		return false
	default:
		return r.IsValid()
	}
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
