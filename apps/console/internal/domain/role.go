package domain

import (
	"encoding/json"
	"strings"
)

// Role represents a console user role
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
	RoleClient   Role = "client"
	RoleUnknown  Role = ""
)

// supplierWireRole is the value the storefront API uses for suppliers
const supplierWireRole = "fournisseur"

// ParseRole maps a wire value onto a Role. Matching is case-insensitive;
// anything unrecognised becomes RoleUnknown.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "supplier", supplierWireRole:
		return RoleSupplier
	case "client":
		return RoleClient
	default:
		return RoleUnknown
	}
}

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupplier, RoleClient:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// WireValue returns the value the storefront API expects for this role
func (r Role) WireValue() string {
	if r == RoleSupplier {
		return supplierWireRole
	}
	return string(r)
}

// UnmarshalJSON accepts any casing and the legacy supplier value
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*r = ParseRole(s)
	return nil
}
