package repository

import (
	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(brandID, categoryID *uint) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByIDs(ids []uint) (map[uint]*model.Product, error)
	Update(product *model.Product) error
	ReplacePriceTiers(productID uint, tiers []model.PriceTier) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"sku":  product.SKU,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	return nil
}

func (r *productRepository) FindAll(brandID, categoryID *uint) ([]model.Product, error) {
	query := r.db.
		Preload("Brand").
		Preload("Category").
		Preload("PriceTiers", priceTierOrder)

	if brandID != nil {
		query = query.Where("brand_id = ?", *brandID)
	}
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var products []model.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.
		Preload("Brand").
		Preload("Category").
		Preload("PriceTiers", priceTierOrder).
		First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads products keyed by id. Missing ids are simply absent from
// the result map.
func (r *productRepository) FindByIDs(ids []uint) (map[uint]*model.Product, error) {
	if len(ids) == 0 {
		return map[uint]*model.Product{}, nil
	}

	var products []model.Product
	err := r.db.
		Preload("PriceTiers", priceTierOrder).
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to load products by ids", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}

	byID := make(map[uint]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

// ReplacePriceTiers swaps a product's full tier set in one transaction.
func (r *productRepository) ReplacePriceTiers(productID uint, tiers []model.PriceTier) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.PriceTier{}).Error; err != nil {
			return err
		}
		for i := range tiers {
			tiers[i].ID = 0
			tiers[i].ProductID = productID
			if err := tx.Create(&tiers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}

func priceTierOrder(db *gorm.DB) *gorm.DB {
	return db.Order("price_tiers.min_quantity ASC")
}
