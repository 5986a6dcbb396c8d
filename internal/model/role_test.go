package model

import "testing"

func TestParseRole(t *testing.T) {
	for _, s := range []string{"ADMIN", "EMPLOYEE", "SECURITY"} {
		r, ok := ParseRole(s)
		if !ok || string(r) != s {
			t.Errorf("ParseRole(%q) = (%q,%v), want (%q,true)", s, r, ok, s)
		}
	}
	for _, s := range []string{"", "admin", "OWNER", "ADMIN ", "CUSTOMER"} {
		if _, ok := ParseRole(s); ok {
			t.Errorf("ParseRole(%q) accepted unknown role", s)
		}
	}
}

func TestRoleAllowed(t *testing.T) {
	if !RoleAdmin.Allowed(RoleAdmin, RoleSecurity) {
		t.Error("ADMIN should be allowed in {ADMIN,SECURITY}")
	}
	if !RoleSecurity.Allowed(RoleAdmin, RoleSecurity) {
		t.Error("SECURITY should be allowed in {ADMIN,SECURITY}")
	}
	if RoleEmployee.Allowed(RoleAdmin, RoleSecurity) {
		t.Error("EMPLOYEE must not pass a staff-only check")
	}
	if RoleAdmin.Allowed() {
		t.Error("empty required set must allow nobody")
	}
}
