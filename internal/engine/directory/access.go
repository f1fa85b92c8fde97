package directory

import "reviewback/internal/platform/models"

// Actor is the authenticated caller acting on a directory entry.
type Actor struct {
	ID           string
	CompanyID    string
	IsAdmin      bool
	IsSuperAdmin bool
}

// CanAccess reports whether a tenant admin may act on a directory entry.
// Admin and super-admin accounts are never managed through the tenant
// directory, and cross-tenant access is always denied.
func CanAccess(actor Actor, target *models.User) bool {
	if target.IsAdmin || target.IsSuperAdmin {
		return false
	}
	return target.CompanyID == actor.CompanyID
}
