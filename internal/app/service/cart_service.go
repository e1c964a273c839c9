package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
)

// CartService is the shopping-cart engine. Each user has at most one
// "current" cart, selected by recency; item mutations replace quantities
// rather than accumulate them, reprice every line, and refresh the cached
// totals before anything is persisted.
//
// There is deliberately no cart-level locking: concurrent mutations to the
// same cart follow read-modify-write and the later commit wins.
type CartService interface {
	GetActiveCart(userID uint) (*model.Cart, error)
	GetCartByID(userID, cartID uint) (*model.Cart, error)
	ApplyItem(userID, cartID, productID uint, quantity int) (*model.Cart, error)
	ApplyItemToActiveCart(userID, productID uint, quantity int) (*model.Cart, error)
	RemoveItem(userID, cartID, itemID uint) (*model.Cart, error)
	DeleteCart(userID, cartID uint) error
}

type cartService struct {
	cartRepo     repository.CartRepository
	productRepo  repository.ProductRepository
	activeWindow time.Duration
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	activeWindow time.Duration,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		activeWindow: activeWindow,
	}
}

// GetActiveCart finds the user's current cart or lazily creates one. A cart
// qualifies when it is owned by the user, still ACTIVE, updated within the
// recency window and still in the CART stage; the most recently updated
// match wins.
func (s *cartService) GetActiveCart(userID uint) (*model.Cart, error) {
	logger.Debug("Resolving active cart", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindActiveByUser(userID, s.activeWindow)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to query active cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	cart = &model.Cart{
		UserID:     userID,
		CartStatus: model.CartStatusCart,
		Status:     model.StatusActive,
		ItemsCount: 0,
		TotalItems: decimal.Zero,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}

	logger.Info("New active cart created", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return cart, nil
}

func (s *cartService) GetCartByID(userID, cartID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByIDAndUser(cartID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found for user", map[string]interface{}{
				"cart_id": cartID,
				"user_id": userID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to fetch cart", err, map[string]interface{}{
			"cart_id": cartID,
			"user_id": userID,
		})
		return nil, err
	}
	return cart, nil
}

// ApplyItem merges a (product, quantity) request into an owned cart.
// A positive quantity sets the line to exactly that quantity with the unit
// price resolved for it; a quantity of zero or less removes the line, or is
// a no-op when no line exists for the product.
func (s *cartService) ApplyItem(userID, cartID, productID uint, quantity int) (*model.Cart, error) {
	logger.Info("Applying item to cart", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cartID,
		"product_id": productID,
		"quantity":   quantity,
	})

	cart, err := s.GetCartByID(userID, cartID)
	if err != nil {
		return nil, err
	}
	return s.applyItem(cart, productID, quantity)
}

// ApplyItemToActiveCart is ApplyItem against the user's current cart,
// creating one first if needed.
func (s *cartService) ApplyItemToActiveCart(userID, productID uint, quantity int) (*model.Cart, error) {
	cart, err := s.GetActiveCart(userID)
	if err != nil {
		return nil, err
	}
	return s.applyItem(cart, productID, quantity)
}

func (s *cartService) applyItem(cart *model.Cart, productID uint, quantity int) (*model.Cart, error) {
	existing := cart.ItemByProduct(productID)

	if quantity <= 0 {
		if existing == nil {
			logger.Debug("Removal of absent cart item ignored", map[string]interface{}{
				"cart_id":    cart.ID,
				"product_id": productID,
			})
			return cart, nil
		}
		return s.removeItems(cart, []uint{existing.ID})
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cannot apply cart item: product not found", map[string]interface{}{
				"cart_id":    cart.ID,
				"product_id": productID,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	price, err := ResolveTierPrice(product.PriceTiers, quantity)
	if err != nil {
		logger.Warn("Failed to add product to cart: no matching price", map[string]interface{}{
			"cart_id":    cart.ID,
			"product_id": productID,
			"quantity":   quantity,
		})
		return nil, fmt.Errorf("failed to add product %q to cart: %w", product.Name, err)
	}

	if existing != nil {
		// Full replace: the requested quantity overwrites the stored one.
		existing.Quantity = quantity
		existing.Price = price
	} else {
		cart.Items = append(cart.Items, model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     price,
		})
	}

	return s.persistMutation(cart, nil)
}

// RemoveItem deletes a single line from an owned cart by item id.
func (s *cartService) RemoveItem(userID, cartID, itemID uint) (*model.Cart, error) {
	logger.Info("Removing cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_id":      cartID,
		"cart_item_id": itemID,
	})

	cart, err := s.GetCartByID(userID, cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			found = true
			break
		}
	}
	if !found {
		logger.Warn("Cart item not found for removal", map[string]interface{}{
			"cart_id":      cartID,
			"cart_item_id": itemID,
		})
		return nil, ErrCartItemNotFound
	}

	return s.removeItems(cart, []uint{itemID})
}

// DeleteCart soft-deletes an owned cart by flipping its status to DELETED.
func (s *cartService) DeleteCart(userID, cartID uint) error {
	logger.Info("Deleting cart", map[string]interface{}{
		"user_id": userID,
		"cart_id": cartID,
	})

	cart, err := s.GetCartByID(userID, cartID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.SoftDelete(cart); err != nil {
		return err
	}

	logger.Info("Cart deleted", map[string]interface{}{
		"cart_id": cartID,
	})
	return nil
}

func (s *cartService) removeItems(cart *model.Cart, removedIDs []uint) (*model.Cart, error) {
	removed := make(map[uint]bool, len(removedIDs))
	for _, id := range removedIDs {
		removed[id] = true
	}

	kept := cart.Items[:0]
	for i := range cart.Items {
		if !removed[cart.Items[i].ID] {
			kept = append(kept, cart.Items[i])
		}
	}
	cart.Items = kept

	return s.persistMutation(cart, removedIDs)
}

// persistMutation finishes every mutating operation: all remaining lines are
// repriced against their current quantities (tier data may have changed since
// their snapshots were taken), the cached totals are rederived, and the whole
// aggregate is written atomically.
func (s *cartService) persistMutation(cart *model.Cart, removedItemIDs []uint) (*model.Cart, error) {
	if err := s.repriceItems(cart); err != nil {
		return nil, err
	}

	cart.RecomputeTotals()

	if err := s.cartRepo.SaveAggregate(cart, removedItemIDs); err != nil {
		return nil, err
	}

	logger.Info("Cart mutation persisted", map[string]interface{}{
		"cart_id":     cart.ID,
		"items_count": cart.ItemsCount,
		"total_items": cart.TotalItems.String(),
	})
	return cart, nil
}

func (s *cartService) repriceItems(cart *model.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(cart.Items))
	for i := range cart.Items {
		ids = append(ids, cart.Items[i].ProductID)
	}

	products, err := s.productRepo.FindByIDs(ids)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		product, ok := products[item.ProductID]
		if !ok {
			logger.Warn("Cart references missing product", map[string]interface{}{
				"cart_id":    cart.ID,
				"product_id": item.ProductID,
			})
			return ErrProductNotFound
		}

		price, err := ResolveTierPrice(product.PriceTiers, item.Quantity)
		if err != nil {
			return fmt.Errorf("product %q has no price for quantity %d: %w",
				product.Name, item.Quantity, err)
		}
		item.Price = price
	}
	return nil
}
