package store

import (
	"gorm.io/gorm"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	"github.com/shopseed/shopseed/internal/catalog/hierarchy"
)

// CreateCategory validates and inserts a category row. The cycle check runs
// on every insert even though a fresh node cannot be its own ancestor; it
// also catches parent chains that were already malformed.
func (s *Store) CreateCategory(cat *catalog.Category) error {
	if err := s.checkRange("category", cat); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if cat.ParentID != nil {
			ok, err := exists(tx, &catalog.Category{}, "id = ?", *cat.ParentID)
			if err != nil {
				return err
			}
			if !ok {
				return fkViolation("category", "parent_id", *cat.ParentID)
			}

			parents, err := categoryParents(tx)
			if err != nil {
				return err
			}
			if hierarchy.WouldCycle(parents, cat.ID, *cat.ParentID) {
				return &CycleError{CategoryID: cat.ID, ParentID: *cat.ParentID}
			}
		}

		return tx.Create(cat).Error
	})
}

// CategoryPatch carries the mutable category fields; nil fields are left
// unchanged. ClearParent turns the category into a root.
type CategoryPatch struct {
	Name        *string
	Description *string
	ParentID    *uint
	ClearParent bool
	IsActive    *bool
	SortOrder   *int
}

// UpdateCategory applies a patch, re-running the foreign-key and cycle
// checks when the category is re-parented
func (s *Store) UpdateCategory(id uint, patch CategoryPatch) (*catalog.Category, error) {
	var cat catalog.Category
	if err := firstOrNotFound(s.db, &cat, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		cat.Name = *patch.Name
	}
	if patch.Description != nil {
		cat.Description = *patch.Description
	}
	if patch.IsActive != nil {
		cat.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		cat.SortOrder = *patch.SortOrder
	}
	if patch.ClearParent {
		cat.ParentID = nil
	} else if patch.ParentID != nil {
		cat.ParentID = patch.ParentID
	}

	if err := s.checkRange("category", &cat); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if cat.ParentID != nil {
			ok, err := exists(tx, &catalog.Category{}, "id = ?", *cat.ParentID)
			if err != nil {
				return err
			}
			if !ok {
				return fkViolation("category", "parent_id", *cat.ParentID)
			}

			parents, err := categoryParents(tx)
			if err != nil {
				return err
			}
			if hierarchy.WouldCycle(parents, cat.ID, *cat.ParentID) {
				return &CycleError{CategoryID: cat.ID, ParentID: *cat.ParentID}
			}
		}

		return tx.Save(&cat).Error
	})
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// CategoryByID loads a single category
func (s *Store) CategoryByID(id uint) (*catalog.Category, error) {
	var cat catalog.Category
	if err := firstOrNotFound(s.db, &cat, id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Categories returns all categories ordered by id
func (s *Store) Categories() ([]catalog.Category, error) {
	var cats []catalog.Category
	err := s.db.Order("id").Find(&cats).Error
	return cats, err
}

// CountCategories returns the number of category rows
func (s *Store) CountCategories() (int64, error) {
	var n int64
	err := s.db.Model(&catalog.Category{}).Count(&n).Error
	return n, err
}

// categoryParents loads the id → parent-id map the cycle check walks
func categoryParents(tx *gorm.DB) (map[uint]*uint, error) {
	var cats []catalog.Category
	if err := tx.Select("id", "parent_id").Find(&cats).Error; err != nil {
		return nil, err
	}

	parents := make(map[uint]*uint, len(cats))
	for _, c := range cats {
		parents[c.ID] = c.ParentID
	}
	return parents, nil
}
