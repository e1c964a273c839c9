package repository

import (
	"time"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindByIDAndUser(cartID, userID uint) (*model.Cart, error)
	FindActiveByUser(userID uint, window time.Duration) (*model.Cart, error)
	SaveAggregate(cart *model.Cart, removedItemIDs []uint) error
	SoftDelete(cart *model.Cart) error
	ExpireIdleBefore(cutoff time.Time) (int64, error)
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

// FindByIDAndUser loads a cart scoped to its owner. A cart belonging to a
// different user or one soft-deleted is reported as not found.
func (r *cartRepository) FindByIDAndUser(cartID, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.
		Where("id = ? AND user_id = ? AND status <> ?", cartID, userID, model.StatusDeleted).
		Preload("Items", itemOrder).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindActiveByUser runs the active-cart query: owned by the user, still
// ACTIVE, updated within the window, still in the CART stage, most recently
// updated first.
func (r *cartRepository) FindActiveByUser(userID uint, window time.Duration) (*model.Cart, error) {
	cutoff := time.Now().Add(-window)

	var cart model.Cart
	err := r.db.
		Where("user_id = ?", userID).
		Where("status = ?", model.StatusActive).
		Where("updated_at >= ?", cutoff).
		Where("cart_status = ?", model.CartStatusCart).
		Order("updated_at DESC").
		Preload("Items", itemOrder).
		First(&cart).Error
	if err != nil {
		return nil, err
	}

	logger.Debug("Active cart found", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

// SaveAggregate persists the cart and its items as one unit: removed items
// are deleted, remaining items upserted, and the cached totals written,
// all inside a single transaction. The cart's updated_at is refreshed so the
// recency window sees the mutation.
func (r *cartRepository) SaveAggregate(cart *model.Cart, removedItemIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(removedItemIDs) > 0 {
			if err := tx.
				Where("cart_id = ? AND id IN ?", cart.ID, removedItemIDs).
				Delete(&model.CartItem{}).Error; err != nil {
				return err
			}
		}

		for i := range cart.Items {
			cart.Items[i].CartID = cart.ID
			if err := tx.Save(&cart.Items[i]).Error; err != nil {
				return err
			}
		}

		return tx.Model(cart).Updates(map[string]interface{}{
			"items_count": cart.ItemsCount,
			"total_items": cart.TotalItems,
			"updated_at":  time.Now(),
		}).Error
	})
	if err != nil {
		logger.Error("Failed to save cart aggregate", err, map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart aggregate saved", map[string]interface{}{
		"cart_id":     cart.ID,
		"items_count": cart.ItemsCount,
		"total_items": cart.TotalItems.String(),
		"removed":     len(removedItemIDs),
	})
	return nil
}

// SoftDelete flips the cart's generic status to DELETED. Items are kept;
// the cart simply stops matching any owner-scoped query.
func (r *cartRepository) SoftDelete(cart *model.Cart) error {
	err := r.db.Model(cart).Updates(map[string]interface{}{
		"status":     model.StatusDeleted,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		logger.Error("Failed to soft-delete cart", err, map[string]interface{}{
			"cart_id": cart.ID,
		})
		return err
	}

	logger.Debug("Cart soft-deleted", map[string]interface{}{
		"cart_id": cart.ID,
	})
	return nil
}

// ExpireIdleBefore marks shopping carts idle since before the cutoff as
// INACTIVE. Housekeeping only: the active-cart query filters on updated_at
// itself and never depends on this sweep having run.
func (r *cartRepository) ExpireIdleBefore(cutoff time.Time) (int64, error) {
	result := r.db.Model(&model.Cart{}).
		Where("status = ? AND cart_status = ? AND updated_at < ?",
			model.StatusActive, model.CartStatusCart, cutoff).
		UpdateColumn("status", model.StatusInactive)
	if result.Error != nil {
		logger.Error("Failed to expire idle carts", result.Error, map[string]interface{}{
			"cutoff": cutoff,
		})
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.id ASC")
}
