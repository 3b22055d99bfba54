// Package access contains the pure role-to-permission evaluator.
// Permission checks are pure functions with no side effects; enforcement
// happens at the CLI layer before a service call is made.
package access

// Role identifies one of the fixed user roles.
type Role string

// Role constants
const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOperator   Role = "OPERATOR"
	RoleViewer     Role = "VIEWER"
)

// Permission identifies a capability token.
type Permission string

// Permission constants
const (
	PermUsersCreate       Permission = "users:create"
	PermUsersRead         Permission = "users:read"
	PermUsersUpdate       Permission = "users:update"
	PermUsersDelete       Permission = "users:delete"
	PermEvaluationsCreate Permission = "evaluations:create"
	PermEvaluationsRead   Permission = "evaluations:read"
	PermEvaluationsDelete Permission = "evaluations:delete"
	PermActionsManage     Permission = "actions:manage"
	PermActionsDelete     Permission = "actions:delete"
	PermAnalysisRead      Permission = "analysis:read"
	PermConfigRead        Permission = "config:read"
	PermConfigUpdate      Permission = "config:update"
	PermConfigAdvanced    Permission = "config:advanced"
)

// AllRoles lists every recognized role.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleSupervisor, RoleOperator, RoleViewer}
}

// AllPermissions lists the entire permission universe.
func AllPermissions() []Permission {
	return []Permission{
		PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete,
		PermEvaluationsCreate, PermEvaluationsRead, PermEvaluationsDelete,
		PermActionsManage, PermActionsDelete,
		PermAnalysisRead,
		PermConfigRead, PermConfigUpdate, PermConfigAdvanced,
	}
}

// rolePermissions is the static, fully enumerated mapping. There is no
// inheritance; SuperAdmin alone maps to the entire permission universe.
var rolePermissions = map[Role][]Permission{
	RoleSuperAdmin: AllPermissions(),
	RoleAdmin: {
		PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete,
		PermEvaluationsCreate, PermEvaluationsRead, PermEvaluationsDelete,
		PermActionsManage,
		PermAnalysisRead,
		PermConfigRead, PermConfigUpdate, PermConfigAdvanced,
	},
	RoleSupervisor: {
		PermUsersRead,
		PermEvaluationsRead,
		PermActionsManage,
		PermAnalysisRead,
	},
	RoleOperator: {
		PermEvaluationsCreate, PermEvaluationsRead,
		PermActionsManage,
	},
	RoleViewer: {
		PermEvaluationsRead,
		PermAnalysisRead,
	},
}

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r Role) bool {
	_, ok := rolePermissions[r]
	return ok
}

// HasPermission reports whether the role grants the permission.
// Unrecognized roles yield false.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// PermissionsFor returns a copy of the permission set for a role.
// Unrecognized roles yield an empty set.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// RoleLabels maps roles to their display names.
var RoleLabels = map[Role]string{
	RoleSuperAdmin: "Super Admin",
	RoleAdmin:      "Admin",
	RoleSupervisor: "Supervisor",
	RoleOperator:   "Operator",
	RoleViewer:     "Viewer",
}
