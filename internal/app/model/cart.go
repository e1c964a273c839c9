package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartStatus tracks where a cart sits in the shopping/fulfillment flow.
// It is independent of the generic soft-delete Status below.
type CartStatus string

const (
	CartStatusCart      CartStatus = "CART"
	CartStatusPaid      CartStatus = "PAID"
	CartStatusShipped   CartStatus = "SHIPPED"
	CartStatusDelivered CartStatus = "DELIVERED"
	CartStatusCanceled  CartStatus = "CANCELED"
)

// Status is the generic lifecycle flag used for soft deletion.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusDeleted  Status = "DELETED"
)

type Cart struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	CartStatus CartStatus `gorm:"type:varchar(20);not null;default:'CART';index" json:"cart_status"`
	Status     Status     `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	// Cached aggregates, refreshed via RecomputeTotals on every mutation.
	// ItemsCount is the sum of item quantities; TotalItems is the monetary
	// sum of item subtotals.
	ItemsCount int             `gorm:"not null;default:0" json:"items_count"`
	TotalItems decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"total_items"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Relationships
	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// RecomputeTotals rederives the cached aggregates from the current items
// collection. Must be called after every structural change to Items before
// the cart is persisted.
func (c *Cart) RecomputeTotals() {
	count := 0
	total := decimal.Zero
	for i := range c.Items {
		count += c.Items[i].Quantity
		total = total.Add(c.Items[i].Subtotal())
	}
	c.ItemsCount = count
	c.TotalItems = total
}

// ItemByProduct returns the cart's item for a product, or nil. A cart never
// holds two items for the same product.
func (c *Cart) ItemByProduct(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

type CartItem struct {
	ID        uint `gorm:"primarykey" json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_product" json:"cart_id"`
	ProductID uint `gorm:"not null;index;uniqueIndex:idx_cart_product" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
	// Price is the unit price resolved for the item's quantity at the time
	// of the last mutation, not a live lookup.
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	Cart    Cart    `gorm:"foreignKey:CartID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is the line total: unit price times quantity.
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
