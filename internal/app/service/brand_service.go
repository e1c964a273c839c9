package service

import (
	"errors"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/repository"
	"github.com/oakmart/oakmart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrBrandNotFound      = errors.New("brand not found")
	ErrBrandAlreadyExists = errors.New("brand already exists")
)

type BrandService interface {
	CreateBrand(brand *model.Brand) error
	ListBrands() ([]model.Brand, error)
	GetBrandByID(id uint) (*model.Brand, error)
	UpdateBrand(brand *model.Brand) error
	DeleteBrand(id uint) error
}

type brandService struct {
	brandRepo repository.BrandRepository
}

func NewBrandService(brandRepo repository.BrandRepository) BrandService {
	return &brandService{brandRepo: brandRepo}
}

func (s *brandService) CreateBrand(brand *model.Brand) error {
	logger.Info("Creating brand", map[string]interface{}{
		"name": brand.Name,
	})

	existing, err := s.brandRepo.FindByName(brand.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		logger.Warn("Brand already exists", map[string]interface{}{
			"name": brand.Name,
		})
		return ErrBrandAlreadyExists
	}

	return s.brandRepo.Create(brand)
}

func (s *brandService) ListBrands() ([]model.Brand, error) {
	return s.brandRepo.FindAll()
}

func (s *brandService) GetBrandByID(id uint) (*model.Brand, error) {
	brand, err := s.brandRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, err
	}
	return brand, nil
}

func (s *brandService) UpdateBrand(brand *model.Brand) error {
	if _, err := s.GetBrandByID(brand.ID); err != nil {
		return err
	}
	return s.brandRepo.Update(brand)
}

func (s *brandService) DeleteBrand(id uint) error {
	if _, err := s.GetBrandByID(id); err != nil {
		return err
	}
	return s.brandRepo.Delete(id)
}
