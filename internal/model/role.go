package model

import (
	"fmt"
	"strings"
)

// Role is the access level carried by a user and embedded in its credentials.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// ParseRole converts a case-insensitive role name into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleUser:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// IsOverride reports whether r grants access to every route group.
func (r Role) IsOverride() bool {
	return r == RoleAdmin
}

// Satisfies reports whether a caller holding r may pass an allow-list.
// Holding the override role always passes. Listing the override role in
// required only marks the group as privileged; it admits nobody by itself.
func (r Role) Satisfies(required []Role) bool {
	if r.IsOverride() {
		return true
	}
	for _, want := range required {
		if want.IsOverride() {
			continue
		}
		if want == r {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
