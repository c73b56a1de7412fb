package models

import (
	"database/sql/driver"
	"fmt"
)

// UserRole is the role assigned to a user account.
// The zero value is not a valid role.
type UserRole int

// UserRole variants
const (
	RoleAdmin UserRole = iota + 1
	RoleUser
)

// UserRoles returns every known role
func UserRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleUser}
}

// String returns the role label, e.g. "ROLE_ADMIN"
func (r UserRole) String() string {
	switch r {
	case RoleAdmin:
		return "ROLE_ADMIN"
	case RoleUser:
		return "ROLE_USER"
	default:
		return fmt.Sprintf("UserRole(%d)", int(r))
	}
}

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseUserRole converts a label back into a role
func ParseUserRole(label string) (UserRole, error) {
	for _, role := range UserRoles() {
		if role.String() == label {
			return role, nil
		}
	}
	return 0, fmt.Errorf("invalid user role: %q", label)
}

// MarshalText encodes the role as its label, so JSON carries "ROLE_USER" rather than a number
func (r UserRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid user role: %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role label
func (r *UserRole) UnmarshalText(text []byte) error {
	role, err := ParseUserRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// Value stores the role label in the database
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid user role: %d", int(r))
	}
	return r.String(), nil
}

// Scan reads a role label from the database
func (r *UserRole) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into UserRole", src)
	}
}
