package store

import (
	"time"

	"gorm.io/gorm"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	review "github.com/shopseed/shopseed/internal/review/domain"
)

// CreateReview validates and inserts a review row. A second review for the
// same (user, product, order) triple is rejected with a unique violation;
// a nil order id counts as a value for that rule.
func (s *Store) CreateReview(r *review.Review) error {
	if r.Status == "" {
		r.Status = review.ReviewPending
	}
	if r.ReviewDate.IsZero() {
		r.ReviewDate = time.Now()
	}

	if err := s.checkRange("review", r); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &catalog.Product{}, "id = ?", r.ProductID)
		if err != nil {
			return err
		}
		if !ok {
			return fkViolation("review", "product_id", r.ProductID)
		}

		ok, err = exists(tx, &identity.User{}, "id = ?", r.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fkViolation("review", "user_id", r.UserID)
		}

		if r.OrderID != nil {
			ok, err = exists(tx, &order.Order{}, "id = ?", *r.OrderID)
			if err != nil {
				return err
			}
			if !ok {
				return fkViolation("review", "order_id", *r.OrderID)
			}
		}

		dup := tx.Model(&review.Review{}).
			Where("user_id = ? AND product_id = ?", r.UserID, r.ProductID)
		if r.OrderID == nil {
			dup = dup.Where("order_id IS NULL")
		} else {
			dup = dup.Where("order_id = ?", *r.OrderID)
		}

		var n int64
		if err := dup.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConstraintViolation{
				Kind:   ConstraintUnique,
				Entity: "review",
				Field:  "user_id,product_id,order_id",
				Detail: "a review already exists for this user, product and order",
			}
		}

		return tx.Create(r).Error
	})
}

// ReviewPatch carries the mutable review fields; nil fields are left
// unchanged. After a rating change the product's aggregates must be
// reconciled by the caller.
type ReviewPatch struct {
	Rating *int
	Title  *string
	Body   *string
	Status *string
}

// UpdateReview applies a patch under the same validation contract as insert
func (s *Store) UpdateReview(id uint, patch ReviewPatch) (*review.Review, error) {
	var r review.Review
	if err := firstOrNotFound(s.db, &r, id); err != nil {
		return nil, err
	}

	if patch.Rating != nil {
		r.Rating = *patch.Rating
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Body != nil {
		r.Body = *patch.Body
	}
	if patch.Status != nil {
		r.Status = *patch.Status
	}

	if err := s.checkRange("review", &r); err != nil {
		return nil, err
	}

	if err := s.db.Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// Reviews returns all reviews ordered by id
func (s *Store) Reviews() ([]review.Review, error) {
	var reviews []review.Review
	err := s.db.Order("id").Find(&reviews).Error
	return reviews, err
}

// ReviewsByProduct returns the reviews referencing one product
func (s *Store) ReviewsByProduct(productID uint) ([]review.Review, error) {
	var reviews []review.Review
	err := s.db.Where("product_id = ?", productID).Order("id").Find(&reviews).Error
	return reviews, err
}

// CountReviews returns the number of review rows
func (s *Store) CountReviews() (int64, error) {
	var n int64
	err := s.db.Model(&review.Review{}).Count(&n).Error
	return n, err
}
