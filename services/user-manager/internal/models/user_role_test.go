package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRole_String(t *testing.T) {
	assert.Equal(t, "ROLE_ADMIN", RoleAdmin.String())
	assert.Equal(t, "ROLE_USER", RoleUser.String())
	assert.Equal(t, "UserRole(0)", UserRole(0).String())
}

func TestUserRoles(t *testing.T) {
	assert.Equal(t, []UserRole{RoleAdmin, RoleUser}, UserRoles())
	for _, role := range UserRoles() {
		assert.True(t, role.Valid())
	}
	assert.False(t, UserRole(0).Valid())
	assert.False(t, UserRole(3).Valid())
}

func TestParseUserRole(t *testing.T) {
	tests := []struct {
		label         string
		expected      UserRole
		expectedError bool
	}{
		{label: "ROLE_ADMIN", expected: RoleAdmin},
		{label: "ROLE_USER", expected: RoleUser},
		{label: "ADMIN", expectedError: true},
		{label: "role_user", expectedError: true},
		{label: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			role, err := ParseUserRole(tt.label)
			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestUserRole_JSON(t *testing.T) {
	user := User{ID: 7, Username: "ana", Email: "ana@example.com", PasswordHash: "secret", Role: RoleAdmin}

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"username":"ana","email":"ana@example.com","role":"ROLE_ADMIN"}`, string(data))

	var decoded User
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RoleAdmin, decoded.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"ROLE_ROOT"}`), &decoded))

	_, err = json.Marshal(User{})
	assert.Error(t, err)
}

func TestUserRole_SQL(t *testing.T) {
	value, err := RoleUser.Value()
	require.NoError(t, err)
	assert.Equal(t, "ROLE_USER", value)

	_, err = UserRole(0).Value()
	assert.Error(t, err)

	var role UserRole
	assert.NoError(t, role.Scan([]byte("ROLE_ADMIN")))
	assert.Equal(t, RoleAdmin, role)
	assert.NoError(t, role.Scan("ROLE_USER"))
	assert.Equal(t, RoleUser, role)
	assert.Error(t, role.Scan(int64(1)))
}
