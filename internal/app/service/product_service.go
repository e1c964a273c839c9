package service

import (
	"errors"
	"fmt"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidPriceTier = errors.New("invalid price tier set")
)

type ProductService interface {
	CreateProduct(product *model.Product) error
	ListProducts(brandID, categoryID *uint) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	UpdateProduct(product *model.Product) error
	ReplacePriceTiers(productID uint, tiers []model.PriceTier) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	brandRepo    repository.BrandRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	brandRepo repository.BrandRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		brandRepo:    brandRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) CreateProduct(product *model.Product) error {
	logger.Info("Creating product", map[string]interface{}{
		"name": product.Name,
		"sku":  product.SKU,
	})

	if err := s.validateReferences(product); err != nil {
		return err
	}
	if err := validatePriceTiers(product.PriceTiers); err != nil {
		return err
	}

	if err := s.productRepo.Create(product); err != nil {
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"tiers":      len(product.PriceTiers),
	})
	return nil
}

func (s *productService) ListProducts(brandID, categoryID *uint) ([]model.Product, error) {
	return s.productRepo.FindAll(brandID, categoryID)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": product.ID,
	})

	if _, err := s.GetProductByID(product.ID); err != nil {
		return err
	}
	if err := s.validateReferences(product); err != nil {
		return err
	}

	return s.productRepo.Update(product)
}

// ReplacePriceTiers swaps the product's whole quantity-break table.
func (s *productService) ReplacePriceTiers(productID uint, tiers []model.PriceTier) error {
	logger.Info("Replacing product price tiers", map[string]interface{}{
		"product_id": productID,
		"tiers":      len(tiers),
	})

	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	if err := validatePriceTiers(tiers); err != nil {
		return err
	}

	return s.productRepo.ReplacePriceTiers(productID, tiers)
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) validateReferences(product *model.Product) error {
	if product.BrandID != nil {
		if _, err := s.brandRepo.FindByID(*product.BrandID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBrandNotFound
			}
			return err
		}
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*product.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
	}
	return nil
}

// validatePriceTiers rejects tier sets the resolver could never use sanely:
// non-positive minimums, duplicate minimums, or non-positive prices. A set
// whose lowest minimum is above 1 is legal but leaves small quantities
// unpriceable, so it is logged.
func validatePriceTiers(tiers []model.PriceTier) error {
	seen := make(map[int]bool, len(tiers))
	lowest := 0
	for i := range tiers {
		tier := &tiers[i]
		if tier.MinQuantity < 1 {
			return fmt.Errorf("%w: minimum quantity must be at least 1", ErrInvalidPriceTier)
		}
		if seen[tier.MinQuantity] {
			return fmt.Errorf("%w: duplicate minimum quantity %d", ErrInvalidPriceTier, tier.MinQuantity)
		}
		seen[tier.MinQuantity] = true
		if !tier.UnitPrice.IsPositive() {
			return fmt.Errorf("%w: unit price must be positive", ErrInvalidPriceTier)
		}
		if lowest == 0 || tier.MinQuantity < lowest {
			lowest = tier.MinQuantity
		}
	}

	if len(tiers) > 0 && lowest > 1 {
		logger.Warn("Price tiers leave quantities below the lowest minimum unpriceable", map[string]interface{}{
			"lowest_min_quantity": lowest,
		})
	}
	return nil
}
