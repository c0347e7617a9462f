package specification

import "gorm.io/gorm"

// Specification narrows, orders or pages a note or settings query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
