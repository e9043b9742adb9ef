package controllers

import (
	"fmt"
	"io"
	"strconv"

	"ecofinds/models"
	"ecofinds/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartSvc    *services.CartService
	productSvc *services.ProductService
	hub        *services.CartHub
}

func NewCartController(cartSvc *services.CartService, productSvc *services.ProductService, hub *services.CartHub) *CartController {
	return &CartController{cartSvc: cartSvc, productSvc: productSvc, hub: hub}
}

// cartOwner resolves which cart slot the request operates on. Signed-in
// callers get a per-user slot; everyone else must present a client-generated
// cart token so their slot survives page reloads.
func cartOwner(c *gin.Context) (string, bool) {
	if userID := c.GetInt("user_id"); userID != 0 {
		return fmt.Sprintf("user:%d", userID), true
	}
	if token := c.GetHeader("X-Cart-Token"); token != "" {
		return "token:" + token, true
	}
	return "", false
}

func cartPayload(lines []models.CartLine) gin.H {
	if lines == nil {
		lines = []models.CartLine{}
	}
	return gin.H{
		"lines":      lines,
		"line_count": services.LineCount(lines),
		"item_count": services.ItemCount(lines),
		"subtotal":   services.Subtotal(lines),
	}
}

// GetCart godoc
// @Summary Get cart
// @Description Cart lines with derived counts and subtotal
// @Tags Cart
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	lines := ctrl.cartSvc.Load(c.Request.Context(), owner)
	c.JSON(200, gin.H{"success": true, "message": "Cart retrieved", "data": cartPayload(lines)})
}

// AddItem godoc
// @Summary Add to cart
// @Description Add a product, or bump its quantity if already present
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Param request body models.AddCartItemRequest true "Product to add"
// @Success 200 {object} models.Response
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	product, err := ctrl.productSvc.GetByID(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to load product"})
		return
	}
	if product == nil {
		c.JSON(404, gin.H{"success": false, "message": "Product not found"})
		return
	}

	lines, err := ctrl.cartSvc.AddOrIncrement(c.Request.Context(), owner, product.Product)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Added to cart", "data": cartPayload(lines)})
}

// SetQuantity godoc
// @Summary Set line quantity
// @Description Set a cart line's quantity; zero or less removes the line
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Param productId path int true "Product ID"
// @Param request body models.SetCartQuantityRequest true "New quantity"
// @Success 200 {object} models.Response
// @Router /cart/items/{productId} [patch]
func (ctrl *CartController) SetQuantity(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	productID, _ := strconv.Atoi(c.Param("productId"))

	var req models.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	lines, err := ctrl.cartSvc.SetQuantity(c.Request.Context(), owner, productID, req.Quantity)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart updated", "data": cartPayload(lines)})
}

// RemoveItem godoc
// @Summary Remove from cart
// @Description Drop a line; removing an absent line succeeds
// @Tags Cart
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Param productId path int true "Product ID"
// @Success 200 {object} models.Response
// @Router /cart/items/{productId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	productID, _ := strconv.Atoi(c.Param("productId"))

	lines, err := ctrl.cartSvc.Remove(c.Request.Context(), owner, productID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Removed from cart", "data": cartPayload(lines)})
}

// ClearCart godoc
// @Summary Clear cart
// @Description Remove every line
// @Tags Cart
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Success 200 {object} models.Response
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	if err := ctrl.cartSvc.Clear(c.Request.Context(), owner); err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to clear cart"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Cart cleared", "data": cartPayload(nil)})
}

// StreamEvents godoc
// @Summary Cart event stream
// @Description Server-sent events pushed after every cart mutation
// @Tags Cart
// @Produce text/event-stream
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Success 200 {string} string "event stream"
// @Router /cart/events [get]
func (ctrl *CartController) StreamEvents(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "Sign in or supply X-Cart-Token"})
		return
	}

	events, cancel := ctrl.hub.Subscribe(owner)
	defer cancel()

	// Initial snapshot so subscribers render without waiting for a mutation.
	lines := ctrl.cartSvc.Load(c.Request.Context(), owner)
	c.SSEvent("cart", cartPayload(lines))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("cart", ev)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
