package store

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	identity "github.com/shopseed/shopseed/internal/identity/domain"
)

// CreateUser validates and inserts a user row
func (s *Store) CreateUser(user *identity.User) error {
	if user.Status == "" {
		user.Status = identity.StatusActive
	}
	if user.RegistrationDate.IsZero() {
		user.RegistrationDate = time.Now()
	}

	if err := s.checkRange("user", user); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := exists(tx, &identity.User{}, "username = ?", user.Username)
		if err != nil {
			return err
		}
		if taken {
			return uniqueViolation("user", "username", user.Username)
		}

		taken, err = exists(tx, &identity.User{}, "email = ?", user.Email)
		if err != nil {
			return err
		}
		if taken {
			return uniqueViolation("user", "email", user.Email)
		}

		return tx.Create(user).Error
	})
}

// UserPatch carries the mutable user fields; nil fields are left unchanged.
// The id itself is immutable.
type UserPatch struct {
	Status          *string
	LoyaltyPoints   *int
	TotalSpent      *decimal.Decimal
	Phone           *string
	ShippingAddress *string
	BillingAddress  *string
}

// UpdateUser applies a patch under the same validation contract as insert
func (s *Store) UpdateUser(id uint, patch UserPatch) (*identity.User, error) {
	var user identity.User
	if err := firstOrNotFound(s.db, &user, id); err != nil {
		return nil, err
	}

	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.LoyaltyPoints != nil {
		user.LoyaltyPoints = *patch.LoyaltyPoints
	}
	if patch.TotalSpent != nil {
		user.TotalSpent = *patch.TotalSpent
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.ShippingAddress != nil {
		user.ShippingAddress = *patch.ShippingAddress
	}
	if patch.BillingAddress != nil {
		user.BillingAddress = *patch.BillingAddress
	}

	if err := s.checkRange("user", &user); err != nil {
		return nil, err
	}

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByID loads a single user
func (s *Store) UserByID(id uint) (*identity.User, error) {
	var user identity.User
	if err := firstOrNotFound(s.db, &user, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// Users returns all users ordered by id
func (s *Store) Users() ([]identity.User, error) {
	var users []identity.User
	err := s.db.Order("id").Find(&users).Error
	return users, err
}

// CountUsers returns the number of user rows
func (s *Store) CountUsers() (int64, error) {
	var n int64
	err := s.db.Model(&identity.User{}).Count(&n).Error
	return n, err
}
