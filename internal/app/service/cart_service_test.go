package service

import (
	"testing"
	"time"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testActiveWindow = 7 * 24 * time.Hour

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := NewCartService(cartRepo, productRepo, testActiveWindow)

	// Create test user
	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	// Create test product with quantity-break tiers
	product := &model.Product{
		Name:          "Garden Trowel Set",
		SKU:           "TEST-0001",
		StockQuantity: 100,
		PriceTiers: []model.PriceTier{
			{MinQuantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
			{MinQuantity: 3, UnitPrice: decimal.RequireFromString("16.00")},
			{MinQuantity: 6, UnitPrice: decimal.RequireFromString("12.00")},
		},
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, sku, price string) *model.Product {
	product := &model.Product{
		Name:          "Product " + sku,
		SKU:           sku,
		StockQuantity: 100,
		PriceTiers: []model.PriceTier{
			{MinQuantity: 1, UnitPrice: decimal.RequireFromString(price)},
		},
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func backdateCart(t *testing.T, testDB *gorm.DB, cartID uint, age time.Duration) {
	err := testDB.Model(&model.Cart{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now().Add(-age)).Error
	require.NoError(t, err)
}

func TestCartService_GetActiveCart_CreatesWhenMissing(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Equal(t, user.ID, cart.UserID)
	assert.Equal(t, model.CartStatusCart, cart.CartStatus)
	assert.Equal(t, model.StatusActive, cart.Status)
	assert.Equal(t, 0, cart.ItemsCount)
	assert.True(t, cart.TotalItems.IsZero())
}

func TestCartService_GetActiveCart_ReusesRecentCart(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	first, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)

	// Six days idle is still inside the seven-day window
	backdateCart(t, testDB, first.ID, 6*24*time.Hour)

	second, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCartService_GetActiveCart_IgnoresStaleCart(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	stale, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	backdateCart(t, testDB, stale.ID, 8*24*time.Hour)

	fresh, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, fresh.ID)
}

func TestCartService_GetActiveCart_PrefersMostRecent(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	older := &model.Cart{UserID: user.ID, CartStatus: model.CartStatusCart, Status: model.StatusActive}
	newer := &model.Cart{UserID: user.ID, CartStatus: model.CartStatusCart, Status: model.StatusActive}
	require.NoError(t, testDB.Create(older).Error)
	require.NoError(t, testDB.Create(newer).Error)
	backdateCart(t, testDB, older.ID, 48*time.Hour)
	backdateCart(t, testDB, newer.ID, 2*time.Hour)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, cart.ID)
}

func TestCartService_GetActiveCart_SkipsDeletedAndPaid(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	deleted := &model.Cart{UserID: user.ID, CartStatus: model.CartStatusCart, Status: model.StatusDeleted}
	paid := &model.Cart{UserID: user.ID, CartStatus: model.CartStatusPaid, Status: model.StatusActive}
	require.NoError(t, testDB.Create(deleted).Error)
	require.NoError(t, testDB.Create(paid).Error)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, deleted.ID, cart.ID)
	assert.NotEqual(t, paid.ID, cart.ID)
}

func TestCartService_ApplyItem_AddsWithTierPrice(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 4)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("16.00").Equal(cart.Items[0].Price))
	assert.Equal(t, 4, cart.ItemsCount)
	assert.True(t, decimal.RequireFromString("64.00").Equal(cart.TotalItems),
		"want 64.00, got %s", cart.TotalItems)
}

func TestCartService_ApplyItem_ReplacesQuantity(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	// Re-applying sets the quantity, it does not accumulate
	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("16.00").Equal(cart.Items[0].Price))
	assert.Equal(t, 3, cart.ItemsCount)
	assert.True(t, decimal.RequireFromString("48.00").Equal(cart.TotalItems))
}

func TestCartService_ApplyItem_RepriceOnQuantityChange(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 6)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.00").Equal(cart.Items[0].Price))

	// Dropping below the break reprices upward
	cart, err = cartService.ApplyItemToActiveCart(user.ID, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("20.00").Equal(cart.Items[0].Price))
	assert.True(t, decimal.RequireFromString("40.00").Equal(cart.TotalItems))
}

func TestCartService_ApplyItem_ZeroQuantityRemoves(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 2)
	require.NoError(t, err)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 0)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0, cart.ItemsCount)
	assert.True(t, cart.TotalItems.IsZero())
}

func TestCartService_ApplyItem_ZeroQuantityAbsentIsNoop(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, -1)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0, cart.ItemsCount)
}

func TestCartService_ApplyItem_ProductNotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	_, err := cartService.ApplyItemToActiveCart(user.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_ApplyItem_NoMatchingPrice(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	bulkOnly := &model.Product{
		Name:          "Bulk Only",
		SKU:           "TEST-BULK",
		StockQuantity: 100,
		PriceTiers: []model.PriceTier{
			{MinQuantity: 5, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	require.NoError(t, testDB.Create(bulkOnly).Error)

	_, err := cartService.ApplyItemToActiveCart(user.ID, bulkOnly.ID, 2)
	assert.ErrorIs(t, err, ErrNoMatchingPrice)
}

func TestCartService_ApplyItem_MultipleProductsTotals(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := createProduct(t, testDB, "TEST-0002", "8.50")

	_, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	cart, err := cartService.ApplyItemToActiveCart(user.ID, other.ID, 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.ItemsCount)
	// 3 x 16.00 + 2 x 8.50
	assert.True(t, decimal.RequireFromString("65.00").Equal(cart.TotalItems),
		"want 65.00, got %s", cart.TotalItems)
}

func TestCartService_ApplyItem_RepricesOtherLines(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := createProduct(t, testDB, "TEST-0003", "8.50")

	_, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 3)
	require.NoError(t, err)

	// Tier data changes after the line's price snapshot was taken
	err = testDB.Model(&model.PriceTier{}).
		Where("product_id = ? AND min_quantity = ?", product.ID, 3).
		Update("unit_price", decimal.RequireFromString("15.00")).Error
	require.NoError(t, err)

	// Mutating an unrelated line reprices the whole cart
	cart, err := cartService.ApplyItemToActiveCart(user.ID, other.ID, 1)
	require.NoError(t, err)

	line := cart.ItemByProduct(product.ID)
	require.NotNil(t, line)
	assert.True(t, decimal.RequireFromString("15.00").Equal(line.Price))
	assert.True(t, decimal.RequireFromString("53.50").Equal(cart.TotalItems))
}

func TestCartService_ApplyItem_OwnershipEnforced(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)

	_, err = cartService.ApplyItem(other.ID, cart.ID, product.ID, 1)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = cartService.RemoveItem(user.ID, cart.ID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, 0, cart.ItemsCount)
	assert.True(t, cart.TotalItems.IsZero())
}

func TestCartService_RemoveItem_NotFound(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)

	_, err = cartService.RemoveItem(user.ID, cart.ID, 9999)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_DeleteCart(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.ApplyItemToActiveCart(user.ID, product.ID, 1)
	require.NoError(t, err)

	err = cartService.DeleteCart(user.ID, cart.ID)
	require.NoError(t, err)

	// A deleted cart is no longer reachable
	_, err = cartService.GetCartByID(user.ID, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// And a fresh active cart takes its place
	fresh, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, fresh.ID)
}

func TestCartService_DeleteCart_NotOwned(t *testing.T) {
	cartService, user, _, testDB := setupCartServiceTest(t)

	other := &model.User{
		Email:        "other@example.com",
		PasswordHash: "hash",
		Name:         "Other User",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(other).Error)

	cart, err := cartService.GetActiveCart(user.ID)
	require.NoError(t, err)

	err = cartService.DeleteCart(other.ID, cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)
}
