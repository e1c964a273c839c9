package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	SKU              string         `gorm:"uniqueIndex;not null" json:"sku"`
	BrandID          *uint          `gorm:"index" json:"brand_id,omitempty"`
	CategoryID       *uint          `gorm:"index" json:"category_id,omitempty"`
	StockQuantity    int            `gorm:"default:0" json:"stock_quantity"`
	ReservedQuantity int            `gorm:"default:0" json:"reserved_quantity"`
	ImageURLs        pq.StringArray `gorm:"type:text[];default:'{}'" json:"image_urls"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Brand      *Brand      `gorm:"foreignKey:BrandID" json:"brand,omitempty"`
	Category   *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	PriceTiers []PriceTier `gorm:"foreignKey:ProductID" json:"price_tiers,omitempty"`
	CartItems  []CartItem  `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// PriceTier is one quantity-break rule: buying MinQuantity or more of the
// product applies UnitPrice. No two tiers of a product share a minimum.
type PriceTier struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	ProductID   uint            `gorm:"not null;uniqueIndex:idx_product_min_quantity" json:"product_id"`
	MinQuantity int             `gorm:"not null;uniqueIndex:idx_product_min_quantity" json:"min_quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (PriceTier) TableName() string {
	return "price_tiers"
}
