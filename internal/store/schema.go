package store

import (
	"fmt"
	"sync"

	"gorm.io/gorm/schema"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	review "github.com/shopseed/shopseed/internal/review/domain"
)

// models in dependency order; AutoMigrate creates referenced tables first
var models = []any{
	&identity.User{},
	&catalog.Category{},
	&catalog.Product{},
	&order.Order{},
	&order.OrderItem{},
	&review.Review{},
}

// Migrate creates all entity tables and their indexes. It is idempotent:
// rerunning against an up-to-date database changes nothing. If a table
// already exists but is missing a declared column, the existing shape is
// treated as conflicting and a SchemaError is returned before anything is
// touched.
func (s *Store) Migrate() error {
	m := s.db.Migrator()

	for _, model := range models {
		if !m.HasTable(model) {
			continue
		}

		sch, err := schema.Parse(model, &sync.Map{}, s.db.NamingStrategy)
		if err != nil {
			return fmt.Errorf("failed to parse model schema: %w", err)
		}

		for _, f := range sch.Fields {
			if f.DBName == "" {
				continue
			}
			if !m.HasColumn(model, f.DBName) {
				return &SchemaError{
					Table:  sch.Table,
					Detail: fmt.Sprintf("existing table is missing declared column %q", f.DBName),
				}
			}
		}
	}

	if err := s.db.AutoMigrate(models...); err != nil {
		return &SchemaError{Detail: err.Error()}
	}
	return nil
}
