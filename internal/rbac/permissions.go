package rbac

// Console-wide permissions.
const (
	PermViewReadonly   = "admin.read"
	PermManageUsers    = "admin.users.manage"
	PermManageRoles    = "admin.roles.manage"
	PermManageSecurity = "admin.security.manage"
	PermViewAudit      = "admin.audit.view"

	PermActionExtend  = "actions.extend_subscription"
	PermActionBalance = "actions.recharge_balance"
	PermActionBlock   = "actions.block_user"
	PermActionSync    = "actions.sync_access"
)

// RoleSuperadmin bypasses the action rate limiter by executor policy.
const RoleSuperadmin = "superadmin"

// rolePermissions maps role slugs to the permissions they grant. The table is
// static; role records in the database only carry display metadata.
var rolePermissions = map[string][]string{
	"viewer": {
		PermViewReadonly,
	},
	"manager": {
		PermViewReadonly,
		PermViewAudit,
		PermActionExtend,
		PermActionBalance,
		PermActionSync,
	},
	RoleSuperadmin: {
		PermViewReadonly,
		PermManageUsers,
		PermManageRoles,
		PermManageSecurity,
		PermViewAudit,
		PermActionExtend,
		PermActionBalance,
		PermActionBlock,
		PermActionSync,
	},
}

// Resolve derives the permission set for the given role slugs. The result is
// the union across all roles; unknown slugs grant nothing.
func Resolve(roleSlugs []string) PermissionSet {
	perms := make(PermissionSet)
	for _, slug := range roleSlugs {
		for _, perm := range rolePermissions[slug] {
			perms[perm] = struct{}{}
		}
	}
	return perms
}
