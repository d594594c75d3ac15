// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: huy.dang.dev@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted back-office access
	RoleAdmin UserRole = "admin"

	// Can view back-office reports but not change store settings
	RoleStaff UserRole = "staff"

	// Default role for registered shoppers
	RoleCustomer UserRole = "customer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// IsElevated reports whether the role carries the administrative capability.
//
// Only [RoleAdmin] is elevated; staff can see reports through explicitly
// granted routes but never pass the admin claims gate.
func (r UserRole) IsElevated() bool {
	return r == RoleAdmin
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleStaff:
		return 20
	case RoleCustomer:
		return 10
	default:
		return 0
	}
}
