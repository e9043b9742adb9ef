package services

import (
	"context"
	"math"

	"ecofinds/models"

	"github.com/google/uuid"
)

// OrderSubmitter is the order-creation boundary. Submission is all-or-nothing
// and deduplicated by the idempotency key.
type OrderSubmitter interface {
	Create(ctx context.Context, userID int, items []models.OrderItem, total float64, idempotencyKey string) (int, error)
}

// CheckoutService converts the cart slot into an order submission and clears
// the cart only after the submission is confirmed.
type CheckoutService struct {
	cart      *CartService
	submitter OrderSubmitter
}

func NewCheckoutService(cart *CartService, submitter OrderSubmitter) *CheckoutService {
	return &CheckoutService{cart: cart, submitter: submitter}
}

// Checkout reconciles the cart into an order. An unauthenticated caller or an
// empty cart is rejected before any submission; a failed submission leaves
// the cart exactly as it was.
func (s *CheckoutService) Checkout(ctx context.Context, owner string, userID int, idempotencyKey string) (int, error) {
	if userID == 0 {
		return 0, ErrAuthRequired
	}

	lines := s.cart.Load(ctx, owner)
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
		})
	}
	total := Subtotal(lines)

	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	orderID, err := s.submitter.Create(ctx, userID, items, total, idempotencyKey)
	if err != nil {
		return 0, ErrOrderSubmit
	}

	// Clear strictly after confirmed success. A failure above must leave the
	// cart untouched so the user can retry.
	if err := s.cart.Clear(ctx, owner); err != nil {
		return orderID, nil
	}
	return orderID, nil
}

// ValidateOrderSubmission checks an incoming order payload on the server
// side: a non-empty item list with sane lines, and a total that matches the
// submitted snapshot to the cent.
func ValidateOrderSubmission(items []models.OrderItem, total float64) error {
	if len(items) == 0 {
		return ErrEmptyCart
	}

	var sum float64
	for _, item := range items {
		if item.Quantity < 1 || item.Price < 0 {
			return ErrTotalMismatch
		}
		sum += item.Price * float64(item.Quantity)
	}

	if math.Abs(sum-total) > 0.005 {
		return ErrTotalMismatch
	}
	return nil
}
