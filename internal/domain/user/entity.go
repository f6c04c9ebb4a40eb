package user

// Role is carried in the access token issued by the ERP.
type Role string

const (
	RoleOwner    Role = "owner"    // Workshop owner - full access
	RoleManager  Role = "manager"  // Runs the payroll
	RoleOperator Role = "operator" // Office clerk - read and preview only
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}
