package permission

// Enforcer answers capability checks over subjects (users, roles, levels)
// linked by grouping rules.
type Enforcer interface {
	Enforce(subject string, capability Capability) (bool, error)
	AddPolicy(subject string, capability Capability) error
	// RemoveSubjectPolicies drops every capability granted directly to subject.
	RemoveSubjectPolicies(subject string) error
	AddRoleForUser(subject string, role string) error
	DeleteRoleForUser(subject string, role string) error
	GetRolesForUser(subject string) ([]string, error)
	LoadPolicy() error
}
