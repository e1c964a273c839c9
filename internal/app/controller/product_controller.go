package controller

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/oakmart/oakmart-backend/internal/app/service"
	"github.com/oakmart/oakmart-backend/internal/errors"
	"github.com/oakmart/oakmart-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type PriceTierRequest struct {
	MinQuantity int             `json:"min_quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type ProductRequest struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description"`
	SKU           string             `json:"sku" binding:"required"`
	BrandID       *uint              `json:"brand_id"`
	CategoryID    *uint              `json:"category_id"`
	StockQuantity int                `json:"stock_quantity"`
	ImageURLs     []string           `json:"image_urls"`
	PriceTiers    []PriceTierRequest `json:"price_tiers" binding:"required,min=1,dive"`
}

// ListProducts returns products, optionally filtered by brand or category
// GET /api/v1/products?brand_id=&category_id=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	brandID, ok := parseOptionalIDQuery(c, "brand_id")
	if !ok {
		return
	}
	categoryID, ok := parseOptionalIDQuery(c, "category_id")
	if !ok {
		return
	}

	products, err := ctrl.productService.ListProducts(brandID, categoryID)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		errors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns a single product with its price tiers
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// CreateProduct creates a product with its price tiers (admin only)
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product := req.toModel()
	if err := ctrl.productService.CreateProduct(product); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct updates a product's base fields (admin only)
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.SKU = req.SKU
	product.BrandID = req.BrandID
	product.CategoryID = req.CategoryID
	product.StockQuantity = req.StockQuantity
	product.ImageURLs = pq.StringArray(req.ImageURLs)
	product.PriceTiers = nil

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	if err := ctrl.productService.ReplacePriceTiers(id, tiersFromRequest(req.PriceTiers)); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	updated, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": updated,
	})
}

// DeleteProduct deletes a product (admin only)
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		ctrl.respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

func (req *ProductRequest) toModel() *model.Product {
	return &model.Product{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		BrandID:       req.BrandID,
		CategoryID:    req.CategoryID,
		StockQuantity: req.StockQuantity,
		ImageURLs:     pq.StringArray(req.ImageURLs),
		PriceTiers:    tiersFromRequest(req.PriceTiers),
	}
}

func tiersFromRequest(reqs []PriceTierRequest) []model.PriceTier {
	tiers := make([]model.PriceTier, 0, len(reqs))
	for _, r := range reqs {
		tiers = append(tiers, model.PriceTier{
			MinQuantity: r.MinQuantity,
			UnitPrice:   r.UnitPrice,
		})
	}
	return tiers
}

func (ctrl *ProductController) respondProductError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case goerrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case goerrors.Is(err, service.ErrBrandNotFound):
		errors.BadRequest(c, errors.BrandNotFound, "Referenced brand does not exist")
	case goerrors.Is(err, service.ErrCategoryNotFound):
		errors.BadRequest(c, errors.CategoryNotFound, "Referenced category does not exist")
	case goerrors.Is(err, service.ErrInvalidPriceTier):
		errors.BadRequest(c, errors.ValidationInvalidInput, err.Error())
	default:
		log.Error("Product operation failed", err, nil)
		errors.InternalError(c, "")
	}
}

func parseOptionalIDQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid "+name+" parameter")
		return nil, false
	}
	value := uint(id)
	return &value, true
}
