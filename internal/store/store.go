package store

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the single write path to the persisted row set. Every component
// receives an explicit *Store handle; there is no ambient global connection.
// Uniqueness, foreign-key and value-range rules are validated here before
// any row is written, so a failed write never leaves a partial record.
type Store struct {
	db       *gorm.DB
	validate *validator.Validate
}

// New creates a store on top of an open GORM connection
func New(db *gorm.DB) *Store {
	v := validator.New()

	// Validate decimal fields through their float value so that numeric
	// tags (gt, gte, lte) apply to them as well
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return &Store{db: db, validate: v}
}

// DB exposes the underlying connection for read-only query layers
func (s *Store) DB() *gorm.DB {
	return s.db
}

// checkRange validates a record against the range and enum rules declared
// on its struct tags
func (s *Store) checkRange(entity string, record any) error {
	err := s.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		detail := "failed '" + fe.Tag() + "' check"
		if fe.Param() != "" {
			detail = "failed '" + fe.Tag() + "=" + fe.Param() + "' check"
		}
		return rangeViolation(entity, fe.Field(), detail)
	}
	return err
}

// exists runs a COUNT probe for a uniqueness or foreign-key check
func exists(tx *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := tx.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// firstOrNotFound loads a row by primary key, mapping gorm's sentinel to
// the store's ErrNotFound
func firstOrNotFound(tx *gorm.DB, dest any, id uint) error {
	err := tx.First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
