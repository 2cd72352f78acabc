package model

// Role is a profile's access role.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Permission names a capability a role may hold. Role checks go through
// Can so finer-grained roles can be added without touching call sites.
type Permission string

const (
	// PermissionManageUsers covers the admin surface: listing users,
	// editing subscriptions and credits, reassigning plans, deleting
	// profiles.
	PermissionManageUsers Permission = "manage_users"
)

// Can reports whether the role holds the given permission.
func (r Role) Can(p Permission) bool {
	switch p {
	case PermissionManageUsers:
		return r == RoleAdmin
	default:
		return false
	}
}
