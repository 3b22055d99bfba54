package access

import "testing"

func TestSuperAdminHasEveryPermission(t *testing.T) {
	for _, perm := range AllPermissions() {
		if !HasPermission(RoleSuperAdmin, perm) {
			t.Errorf("SuperAdmin missing %q", perm)
		}
	}
}

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"admin can create users", RoleAdmin, PermUsersCreate, true},
		{"admin cannot delete actions", RoleAdmin, PermActionsDelete, false},
		{"supervisor can read users", RoleSupervisor, PermUsersRead, true},
		{"supervisor cannot create evaluations", RoleSupervisor, PermEvaluationsCreate, false},
		{"operator can create evaluations", RoleOperator, PermEvaluationsCreate, true},
		{"operator cannot read analysis", RoleOperator, PermAnalysisRead, false},
		{"viewer can read evaluations", RoleViewer, PermEvaluationsRead, true},
		{"viewer cannot create users", RoleViewer, PermUsersCreate, false},
		{"viewer cannot manage actions", RoleViewer, PermActionsManage, false},
		{"unknown role fails closed", Role("INTRUDER"), PermEvaluationsRead, false},
		{"empty role fails closed", Role(""), PermUsersRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range AllRoles() {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%q) = false", r)
		}
	}
	if ValidRole(Role("GHOST")) {
		t.Error("ValidRole accepted an unknown role")
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleViewer)
	if len(perms) != 2 {
		t.Fatalf("viewer permission count = %d, want 2", len(perms))
	}
	perms[0] = Permission("mutated")
	if !HasPermission(RoleViewer, PermEvaluationsRead) {
		t.Error("mutating the returned slice leaked into the static table")
	}
}
