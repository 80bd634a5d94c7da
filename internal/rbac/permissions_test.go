package rbac

import (
	"slices"
	"testing"
)

func TestResolveUnionsRoles(t *testing.T) {
	perms := Resolve([]string{"viewer", "manager"})

	expected := []string{
		PermViewReadonly,
		PermViewAudit,
		PermActionExtend,
		PermActionBalance,
		PermActionSync,
	}
	if len(perms) != len(expected) {
		t.Fatalf("expected %d permissions, got %d: %v", len(expected), len(perms), perms.Slice())
	}
	for _, perm := range expected {
		if !perms.Has(perm) {
			t.Fatalf("expected %q granted", perm)
		}
	}
	if perms.Has(PermActionBlock) {
		t.Fatalf("block permission must stay superadmin-only")
	}
}

func TestResolveIgnoresUnknownRoles(t *testing.T) {
	if perms := Resolve([]string{"intern", "auditor-2"}); len(perms) != 0 {
		t.Fatalf("unknown roles must grant nothing, got %v", perms.Slice())
	}
	if perms := Resolve(nil); len(perms) != 0 {
		t.Fatalf("no roles must grant nothing")
	}
}

func TestResolveDuplicateRolesIdempotent(t *testing.T) {
	once := Resolve([]string{"manager"})
	twice := Resolve([]string{"manager", "manager"})
	if !slices.Equal(sorted(once.Slice()), sorted(twice.Slice())) {
		t.Fatalf("duplicate roles changed the set: %v vs %v", once.Slice(), twice.Slice())
	}
}

func TestSuperadminHoldsEveryPermission(t *testing.T) {
	perms := Resolve([]string{RoleSuperadmin})
	for _, perm := range []string{
		PermViewReadonly, PermManageUsers, PermManageRoles, PermManageSecurity,
		PermViewAudit, PermActionExtend, PermActionBalance, PermActionBlock, PermActionSync,
	} {
		if !perms.Has(perm) {
			t.Fatalf("superadmin missing %q", perm)
		}
	}
}

func sorted(values []string) []string {
	slices.Sort(values)
	return values
}
