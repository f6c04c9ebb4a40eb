package user

type Permission string

const (
	// Payroll
	PermissionPayrollView   Permission = "payroll.view"
	PermissionPayrollManage Permission = "payroll.manage"

	// Annual bonus
	PermissionBonusView   Permission = "bonus.view"
	PermissionBonusManage Permission = "bonus.manage"

	// Positions and commission policy
	PermissionPositionView   Permission = "position.view"
	PermissionPositionManage Permission = "position.manage"

	// Bracket tables
	PermissionTaxView Permission = "tax.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		// Owner has all permissions
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionBonusView,
		PermissionBonusManage,
		PermissionPositionView,
		PermissionPositionManage,
		PermissionTaxView,
	},
	RoleManager: {
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionBonusView,
		PermissionBonusManage,
		PermissionPositionView,
		PermissionTaxView,
	},
	RoleOperator: {
		PermissionPayrollView,
		PermissionBonusView,
		PermissionPositionView,
		PermissionTaxView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
