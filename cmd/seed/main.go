package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/oakmart/oakmart-backend/config"
	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/internal/db"
	"github.com/oakmart/oakmart-backend/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Seeds a demo catalog: brands, categories, and products with
// quantity-break price tiers, plus an admin account.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	brandRepo := repository.NewBrandRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())

	if err := seedAdmin(userRepo); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}

	brands, err := seedBrands(brandRepo)
	if err != nil {
		log.Fatal("Failed to seed brands:", err)
	}

	categories, err := seedCategories(categoryRepo)
	if err != nil {
		log.Fatal("Failed to seed categories:", err)
	}

	count, err := seedProducts(productRepo, brands, categories)
	if err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	fmt.Printf("Seed completed: %d brands, %d categories, %d products\n",
		len(brands), len(categories), count)
}

func seedAdmin(userRepo repository.UserRepository) error {
	const email = "admin@oakmart.local"

	if _, err := userRepo.FindByEmail(email); err == nil {
		fmt.Println("Admin user already exists, skipping")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := util.HashPassword("admin1234")
	if err != nil {
		return err
	}

	return userRepo.Create(&model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         model.RoleAdmin,
	})
}

func seedBrands(brandRepo repository.BrandRepository) (map[string]uint, error) {
	names := []model.Brand{
		{Name: "Oakline", Description: "House brand for everyday staples"},
		{Name: "Fernhill", Description: "Premium outdoor and garden goods"},
		{Name: "Brightway", Description: "Office and stationery supplies"},
	}

	ids := make(map[string]uint, len(names))
	for i := range names {
		existing, err := brandRepo.FindByName(names[i].Name)
		if err == nil {
			ids[existing.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := brandRepo.Create(&names[i]); err != nil {
			return nil, err
		}
		ids[names[i].Name] = names[i].ID
	}
	return ids, nil
}

func seedCategories(categoryRepo repository.CategoryRepository) (map[string]uint, error) {
	names := []model.Category{
		{Name: "Kitchen", Description: "Cookware and kitchen tools"},
		{Name: "Garden", Description: "Outdoor and gardening equipment"},
		{Name: "Office", Description: "Desk and office supplies"},
	}

	ids := make(map[string]uint, len(names))
	for i := range names {
		existing, err := categoryRepo.FindByName(names[i].Name)
		if err == nil {
			ids[existing.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := categoryRepo.Create(&names[i]); err != nil {
			return nil, err
		}
		ids[names[i].Name] = names[i].ID
	}
	return ids, nil
}

func seedProducts(
	productRepo repository.ProductRepository,
	brands map[string]uint,
	categories map[string]uint,
) (int, error) {
	ref := func(m map[string]uint, name string) *uint {
		if id, ok := m[name]; ok {
			return &id
		}
		return nil
	}

	products := []model.Product{
		{
			Name:          "Cast Iron Skillet 26cm",
			Description:   "Pre-seasoned cast iron skillet",
			SKU:           "OAK-KIT-0001",
			BrandID:       ref(brands, "Oakline"),
			CategoryID:    ref(categories, "Kitchen"),
			StockQuantity: 120,
			PriceTiers: []model.PriceTier{
				{MinQuantity: 1, UnitPrice: decimal.RequireFromString("34.90")},
				{MinQuantity: 3, UnitPrice: decimal.RequireFromString("31.50")},
				{MinQuantity: 6, UnitPrice: decimal.RequireFromString("28.00")},
			},
		},
		{
			Name:          "Garden Trowel Set",
			Description:   "Three-piece stainless trowel set",
			SKU:           "FRN-GRD-0002",
			BrandID:       ref(brands, "Fernhill"),
			CategoryID:    ref(categories, "Garden"),
			StockQuantity: 80,
			PriceTiers: []model.PriceTier{
				{MinQuantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
				{MinQuantity: 3, UnitPrice: decimal.RequireFromString("16.00")},
				{MinQuantity: 6, UnitPrice: decimal.RequireFromString("12.00")},
			},
		},
		{
			Name:          "A5 Hardcover Notebook",
			Description:   "Dotted 192-page hardcover notebook",
			SKU:           "BRW-OFC-0003",
			BrandID:       ref(brands, "Brightway"),
			CategoryID:    ref(categories, "Office"),
			StockQuantity: 500,
			PriceTiers: []model.PriceTier{
				{MinQuantity: 1, UnitPrice: decimal.RequireFromString("8.50")},
				{MinQuantity: 10, UnitPrice: decimal.RequireFromString("7.20")},
				{MinQuantity: 50, UnitPrice: decimal.RequireFromString("5.90")},
			},
		},
		{
			Name:          "Ballpoint Pen Box",
			Description:   "Box of smooth-writing ballpoint pens",
			SKU:           "BRW-OFC-0004",
			BrandID:       ref(brands, "Brightway"),
			CategoryID:    ref(categories, "Office"),
			StockQuantity: 1000,
			PriceTiers: []model.PriceTier{
				{MinQuantity: 1, UnitPrice: decimal.RequireFromString("3.20")},
				{MinQuantity: 12, UnitPrice: decimal.RequireFromString("2.40")},
			},
		},
	}

	created := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			return created, fmt.Errorf("seeding product %q: %w", products[i].Name, err)
		}
		created++
	}
	return created, nil
}
