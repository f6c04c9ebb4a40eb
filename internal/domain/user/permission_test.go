package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionPositionManage))
	assert.True(t, HasPermission(RoleManager, PermissionBonusManage))
	assert.False(t, HasPermission(RoleManager, PermissionPositionManage))
	assert.True(t, HasPermission(RoleOperator, PermissionPayrollView))
	assert.False(t, HasPermission(RoleOperator, PermissionPayrollManage))
	assert.False(t, HasPermission(Role("pending"), PermissionPayrollView))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleOperator.IsValid())
	assert.False(t, Role("admin").IsValid())
}
