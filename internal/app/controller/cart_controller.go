package controller

import (
	goerrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oakmart/oakmart-backend/internal/app/service"
	"github.com/oakmart/oakmart-backend/internal/errors"
	"github.com/oakmart/oakmart-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// ApplyItemRequest sets a product's quantity on a cart. Quantity is a
// pointer so that an explicit zero (meaning "remove") survives binding.
type ApplyItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  *int `json:"quantity" binding:"required"`
}

// GetCart returns the user's current active cart, creating one if needed
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cart, err := ctrl.cartService.GetActiveCart(userID)
	if err != nil {
		log.Error("Failed to resolve active cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "Failed to fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ApplyItem applies a (product, quantity) request to the active cart
// PUT /api/v1/cart/items
func (ctrl *CartController) ApplyItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	var req ApplyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid apply item request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.ApplyItemToActiveCart(userID, req.ProductID, *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	log.Info("Cart item applied", map[string]interface{}{
		"user_id":    userID,
		"cart_id":    cart.ID,
		"product_id": req.ProductID,
		"quantity":   *req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// ApplyItemByCart applies a (product, quantity) request to an owned cart
// PUT /api/v1/carts/:id/items
func (ctrl *CartController) ApplyItemByCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ApplyItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid apply item request", map[string]interface{}{
			"user_id": userID,
			"cart_id": cartID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cart, err := ctrl.cartService.ApplyItem(userID, cartID, req.ProductID, *req.Quantity)
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// RemoveItem removes a single item from an owned cart
// DELETE /api/v1/carts/:id/items/:itemId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}

	cart, err := ctrl.cartService.RemoveItem(userID, cartID, itemID)
	if err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart": cart,
	})
}

// DeleteCart soft-deletes an owned cart
// DELETE /api/v1/carts/:id
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "")
		return
	}

	cartID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.DeleteCart(userID, cartID); err != nil {
		ctrl.respondCartError(c, err, userID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart deleted successfully",
	})
}

func (ctrl *CartController) respondCartError(c *gin.Context, err error, userID uint) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case goerrors.Is(err, service.ErrCartNotFound):
		errors.NotFound(c, errors.CartNotFound, "Cart not found")
	case goerrors.Is(err, service.ErrCartItemNotFound):
		errors.NotFound(c, errors.CartItemNotFound, "Cart item not found")
	case goerrors.Is(err, service.ErrProductNotFound):
		errors.NotFound(c, errors.ProductNotFound, "Product not found")
	case goerrors.Is(err, service.ErrNoMatchingPrice):
		errors.BadRequest(c, errors.CartNoMatchingPrice, err.Error())
	default:
		log.Error("Cart operation failed", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
