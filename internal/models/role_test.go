package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	for _, role := range Roles {
		require.True(t, role.Valid(), "role %s should be valid", role)
	}
	require.False(t, Role("SUPERUSER").Valid())
	require.False(t, Role("").Valid())
	require.False(t, Role("owner").Valid(), "roles are case sensitive")
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     Role
		min      Role
		expected bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleMember, false},
		{RoleMember, RoleViewer, true},
		{RoleMember, RoleAdmin, false},
		{RoleAdmin, RoleMember, true},
		{RoleAdmin, RoleOwner, false},
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, true},
		{Role("SUPERUSER"), RoleViewer, false},
		{RoleOwner, Role("SUPERUSER"), false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.expected, tt.role.AtLeast(tt.min), "%s.AtLeast(%s)", tt.role, tt.min)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("ADMIN")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	_, err = ParseRole("admin")
	require.Error(t, err)

	_, err = ParseRole("")
	require.Error(t, err)
}
