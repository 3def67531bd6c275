package store

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
)

// CreateProduct validates and inserts a product row
func (s *Store) CreateProduct(product *catalog.Product) error {
	if product.Status == "" {
		product.Status = catalog.ProductActive
	}
	if product.MinStockLevel == 0 {
		product.MinStockLevel = 10
	}

	if err := s.checkRange("product", product); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &catalog.Product{}, "sku = ?", product.SKU)
		if err != nil {
			return err
		}
		if taken {
			return uniqueViolation("product", "sku", product.SKU)
		}

		ok, err := exists(tx, &catalog.Category{}, "id = ?", product.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fkViolation("product", "category_id", product.CategoryID)
		}

		return tx.Create(product).Error
	})
}

// ProductPatch carries the mutable product fields; nil fields are left
// unchanged. Rating fields are owned by the reconciler and deliberately
// absent here.
type ProductPatch struct {
	Name          *string
	Description   *string
	Brand         *string
	Price         *decimal.Decimal
	CostPrice     *decimal.Decimal
	StockQuantity *int
	MinStockLevel *int
	Status        *string
}

// UpdateProduct applies a patch under the same validation contract as insert
func (s *Store) UpdateProduct(id uint, patch ProductPatch) (*catalog.Product, error) {
	var product catalog.Product
	if err := firstOrNotFound(s.db, &product, id); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Brand != nil {
		product.Brand = *patch.Brand
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.CostPrice != nil {
		product.CostPrice = *patch.CostPrice
	}
	if patch.StockQuantity != nil {
		product.StockQuantity = *patch.StockQuantity
	}
	if patch.MinStockLevel != nil {
		product.MinStockLevel = *patch.MinStockLevel
	}
	if patch.Status != nil {
		product.Status = *patch.Status
	}

	if err := s.checkRange("product", &product); err != nil {
		return nil, err
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProductRating writes the derived rating fields. Only the
// reconciliation pass should call this; the values must be re-derivable
// from the review rows at all times.
func (s *Store) UpdateProductRating(id uint, count int, average decimal.Decimal) error {
	var product catalog.Product
	if err := firstOrNotFound(s.db, &product, id); err != nil {
		return err
	}

	product.RatingCount = count
	product.RatingAverage = average

	if err := s.checkRange("product", &product); err != nil {
		return err
	}

	return s.db.Model(&catalog.Product{}).Where("id = ?", id).Updates(map[string]any{
		"rating_count":   count,
		"rating_average": average,
	}).Error
}

// ProductByID loads a single product
func (s *Store) ProductByID(id uint) (*catalog.Product, error) {
	var product catalog.Product
	if err := firstOrNotFound(s.db, &product, id); err != nil {
		return nil, err
	}
	return &product, nil
}

// Products returns all products ordered by id
func (s *Store) Products() ([]catalog.Product, error) {
	var products []catalog.Product
	err := s.db.Order("id").Find(&products).Error
	return products, err
}

// CountProducts returns the number of product rows
func (s *Store) CountProducts() (int64, error) {
	var n int64
	err := s.db.Model(&catalog.Product{}).Count(&n).Error
	return n, err
}
