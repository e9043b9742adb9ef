package controllers

import (
	"errors"
	"log"

	"ecofinds/models"
	"ecofinds/repositories"
	"ecofinds/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	checkoutSvc *services.CheckoutService
	orderRepo   *repositories.OrderRepository
	userRepo    *repositories.UserRepository
	emailSvc    *models.EmailService
}

func NewOrderController(checkoutSvc *services.CheckoutService, orderRepo *repositories.OrderRepository, userRepo *repositories.UserRepository, emailSvc *models.EmailService) *OrderController {
	return &OrderController{checkoutSvc: checkoutSvc, orderRepo: orderRepo, userRepo: userRepo, emailSvc: emailSvc}
}

// Checkout godoc
// @Summary Checkout cart
// @Description Convert the cart into an order; the cart is cleared only after the order is recorded
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param X-Cart-Token header string false "Anonymous cart token"
// @Param Idempotency-Key header string false "Retry deduplication key"
// @Param request body models.CheckoutRequest false "Checkout options"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /orders/checkout [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	userID := c.GetInt("user_id")

	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(400, gin.H{"success": false, "message": "No cart to check out"})
		return
	}

	var req models.CheckoutRequest
	_ = c.ShouldBindJSON(&req)

	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	orderID, err := ctrl.checkoutSvc.Checkout(c.Request.Context(), owner, userID, idempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			c.JSON(401, gin.H{"success": false, "message": "Must be signed in to check out"})
		case errors.Is(err, services.ErrEmptyCart):
			c.JSON(400, gin.H{"success": false, "message": "Cart is empty"})
		default:
			c.JSON(500, gin.H{"success": false, "message": "Checkout failed, cart preserved"})
		}
		return
	}

	ctrl.emailOrderConfirmation(c, userID, orderID)

	c.JSON(201, gin.H{"success": true, "message": "Order placed", "data": gin.H{"order_id": orderID}})
}

// CreateOrder godoc
// @Summary Submit order directly
// @Description Record an order from an explicit item snapshot; the total is verified server-side
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Retry deduplication key"
// @Param request body models.CreateOrderRequest true "Order snapshot"
// @Success 201 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetInt("user_id")

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	if err := services.ValidateOrderSubmission(items, req.Total); err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			c.JSON(400, gin.H{"success": false, "message": "Order has no items"})
		default:
			c.JSON(400, gin.H{"success": false, "message": "Order total does not match items"})
		}
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")
	if idempotencyKey == "" {
		idempotencyKey = req.IdempotencyKey
	}

	orderID, err := ctrl.orderRepo.Create(c.Request.Context(), userID, items, req.Total, idempotencyKey)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to record order"})
		return
	}

	ctrl.emailOrderConfirmation(c, userID, orderID)

	c.JSON(201, gin.H{"success": true, "message": "Order placed", "data": gin.H{"order_id": orderID}})
}

// GetOrders godoc
// @Summary Order history
// @Description The caller's orders, newest first, items included
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response
// @Router /orders [get]
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	userID := c.GetInt("user_id")

	orders, err := ctrl.orderRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to retrieve orders"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Orders retrieved", "data": orders})
}

// emailOrderConfirmation is best effort; a mail failure never fails the order.
func (ctrl *OrderController) emailOrderConfirmation(c *gin.Context, userID, orderID int) {
	if ctrl.emailSvc == nil {
		return
	}

	orders, err := ctrl.orderRepo.ListByUser(c.Request.Context(), userID)
	if err != nil || len(orders) == 0 {
		return
	}
	var total float64
	for _, o := range orders {
		if o.ID == orderID {
			total = o.Total
			break
		}
	}

	user, err := ctrl.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil || user == nil || user.Email == "" {
		return
	}

	if err := ctrl.emailSvc.SendOrderConfirmationEmail(user.Email, orderID, total); err != nil {
		log.Printf("Failed to send order confirmation to %s: %v", user.Email, err)
	}
}
