package model

import "testing"

func TestRoleCan(t *testing.T) {
	if !RoleAdmin.Can(PermissionManageUsers) {
		t.Fatal("admin should hold manage_users")
	}
	if RoleMember.Can(PermissionManageUsers) {
		t.Fatal("member should not hold manage_users")
	}
	if Role("").Can(PermissionManageUsers) {
		t.Fatal("empty role should hold nothing")
	}
	if RoleAdmin.Can(Permission("unknown")) {
		t.Fatal("unknown permission should never be granted")
	}
}
