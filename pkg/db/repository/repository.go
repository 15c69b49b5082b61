// Package repository provides a generic tenant-scoped store. Every query it
// issues carries the tenant predicate, so an unscoped business query cannot
// be written by forgetting a where clause.
package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/pkg/db/option"
	"gorm.io/gorm"
)

// ErrMissingTenant is returned when a store is built without a tenant ID.
var ErrMissingTenant = errors.New("missing_tenant")

// Store reads and writes rows of T for exactly one tenant.
type Store[T any] struct {
	db       *gorm.DB
	tenantID snowflake.ID
}

// ForTenant binds a store to a tenant. The zero tenant ID is rejected at
// query time rather than silently widening the scope.
func ForTenant[T any](db *gorm.DB, tenantID snowflake.ID) Store[T] {
	return Store[T]{db: db, tenantID: tenantID}
}

// TenantID returns the tenant the store is bound to.
func (s Store[T]) TenantID() snowflake.ID { return s.tenantID }

// WithTx rebinds the store to a transaction handle, keeping the tenant scope.
func (s Store[T]) WithTx(tx *gorm.DB) Store[T] {
	return Store[T]{db: tx, tenantID: s.tenantID}
}

func (s Store[T]) scoped(ctx context.Context) (*gorm.DB, error) {
	if s.tenantID == 0 {
		return nil, ErrMissingTenant
	}
	var model T
	return s.db.WithContext(ctx).Model(&model).Where("tenant_id = ?", s.tenantID), nil
}

// Create inserts a record.
func (s Store[T]) Create(ctx context.Context, record *T) error {
	if s.tenantID == 0 {
		return ErrMissingTenant
	}
	return s.db.WithContext(ctx).Create(record).Error
}

// FindByID returns the record with the given primary key, or nil.
func (s Store[T]) FindByID(ctx context.Context, id snowflake.ID) (*T, error) {
	query, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	var record T
	if err := query.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// FindOne returns the first record matching the options, or nil.
func (s Store[T]) FindOne(ctx context.Context, opts ...option.Option) (*T, error) {
	query, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	var record T
	if err := option.Apply(query, opts...).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// List returns all records matching the options.
func (s Store[T]) List(ctx context.Context, opts ...option.Option) ([]T, error) {
	query, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	var records []T
	if err := option.Apply(query, opts...).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of records matching the options.
func (s Store[T]) Count(ctx context.Context, opts ...option.Option) (int64, error) {
	query, err := s.scoped(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := option.Apply(query, opts...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists all fields of an existing record.
func (s Store[T]) Save(ctx context.Context, record *T) error {
	if s.tenantID == 0 {
		return ErrMissingTenant
	}
	return s.db.WithContext(ctx).Save(record).Error
}

// Updates applies a partial update to the record with the given primary key.
func (s Store[T]) Updates(ctx context.Context, id snowflake.ID, values map[string]any) error {
	query, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	return query.Where("id = ?", id).Updates(values).Error
}

// Delete removes the record with the given primary key.
func (s Store[T]) Delete(ctx context.Context, id snowflake.ID) error {
	query, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	var model T
	return query.Where("id = ?", id).Delete(&model).Error
}
