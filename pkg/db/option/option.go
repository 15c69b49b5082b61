// Package option provides composable gorm query modifiers.
package option

import "gorm.io/gorm"

// Option narrows or orders a query.
type Option func(*gorm.DB) *gorm.DB

// Where adds a predicate.
func Where(query any, args ...any) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}

// Order adds an ordering clause.
func Order(value string) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(value)
	}
}

// Limit caps the result set.
func Limit(limit int) Option {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	}
}

// Offset skips rows for paging.
func Offset(offset int) Option {
	return func(db *gorm.DB) *gorm.DB {
		if offset <= 0 {
			return db
		}
		return db.Offset(offset)
	}
}

// Preload eager-loads an association.
func Preload(query string, args ...any) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(query, args...)
	}
}

// Apply folds options over a query.
func Apply(db *gorm.DB, opts ...Option) *gorm.DB {
	for _, opt := range opts {
		if opt != nil {
			db = opt(db)
		}
	}
	return db
}
