package database

import (
	"gorm.io/gorm"

	"github.com/paradb/paradb-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// BySubmission orders maps by submission date with id as the tie-breaker,
// so listings are stable across requests.
func BySubmission(newestFirst bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if newestFirst {
			return db.Order("submission_date DESC, id ASC")
		}
		return db.Order("submission_date ASC, id ASC")
	}
}
