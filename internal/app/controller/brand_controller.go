package controller

import (
	goerrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/service"
	"github.com/oakmart/oakmart-backend/internal/errors"
	"github.com/oakmart/oakmart-backend/internal/middleware"
)

type BrandController struct {
	brandService service.BrandService
}

func NewBrandController(brandService service.BrandService) *BrandController {
	return &BrandController{
		brandService: brandService,
	}
}

type BrandRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// ListBrands returns all brands
// GET /api/v1/brands
func (ctrl *BrandController) ListBrands(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brands, err := ctrl.brandService.ListBrands()
	if err != nil {
		log.Error("Failed to list brands", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
		"count":  len(brands),
	})
}

// GetBrand returns a single brand
// GET /api/v1/brands/:id
func (ctrl *BrandController) GetBrand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	brand, err := ctrl.brandService.GetBrandByID(id)
	if err != nil {
		ctrl.respondBrandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// CreateBrand creates a brand (admin only)
// POST /api/v1/brands
func (ctrl *BrandController) CreateBrand(c *gin.Context) {
	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	brand := &model.Brand{
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
	}
	if err := ctrl.brandService.CreateBrand(brand); err != nil {
		ctrl.respondBrandError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"brand": brand,
	})
}

// UpdateBrand updates a brand (admin only)
// PUT /api/v1/brands/:id
func (ctrl *BrandController) UpdateBrand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req BrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	brand, err := ctrl.brandService.GetBrandByID(id)
	if err != nil {
		ctrl.respondBrandError(c, err)
		return
	}

	brand.Name = req.Name
	brand.Description = req.Description
	brand.LogoURL = req.LogoURL
	if err := ctrl.brandService.UpdateBrand(brand); err != nil {
		ctrl.respondBrandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brand": brand,
	})
}

// DeleteBrand deletes a brand (admin only)
// DELETE /api/v1/brands/:id
func (ctrl *BrandController) DeleteBrand(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.brandService.DeleteBrand(id); err != nil {
		ctrl.respondBrandError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brand deleted successfully",
	})
}

func (ctrl *BrandController) respondBrandError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case goerrors.Is(err, service.ErrBrandNotFound):
		errors.NotFound(c, errors.BrandNotFound, "Brand not found")
	case goerrors.Is(err, service.ErrBrandAlreadyExists):
		errors.Conflict(c, errors.BrandAlreadyExists, "A brand with this name already exists")
	default:
		log.Error("Brand operation failed", err, nil)
		errors.InternalError(c, "")
	}
}
