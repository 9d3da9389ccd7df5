// Package tenant keeps queries fenced to a single company.
package tenant

import "gorm.io/gorm"

// Scope restricts a GORM query to rows owned by the given company.
// Repository methods on company-owned tables apply it to every read and
// write, so a request can never touch another company's data.
func Scope(companyID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
