package services

import (
	"context"
	"errors"
	"testing"

	"ecofinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	fail    bool
	nextID  int
	seen    map[string]int
	calls   int
	lastKey string
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{nextID: 100, seen: make(map[string]int)}
}

func (f *fakeSubmitter) Create(ctx context.Context, userID int, items []models.OrderItem, total float64, idempotencyKey string) (int, error) {
	f.calls++
	f.lastKey = idempotencyKey
	if f.fail {
		return 0, errors.New("db down")
	}
	if id, ok := f.seen[idempotencyKey]; ok {
		return id, nil
	}
	f.nextID++
	f.seen[idempotencyKey] = f.nextID
	return f.nextID, nil
}

func checkoutFixture(t *testing.T) (*CheckoutService, *CartService, *fakeSubmitter) {
	t.Helper()
	cart := NewCartService(newFakeSlots(), nil)
	submitter := newFakeSubmitter()
	return NewCheckoutService(cart, submitter), cart, submitter
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()
	const owner = "user:1"

	t.Run("unauthenticated caller is rejected before submission", func(t *testing.T) {
		svc, cart, submitter := checkoutFixture(t)
		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, owner, 0, "")
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Zero(t, submitter.calls)
		assert.Len(t, cart.Load(ctx, owner), 1)
	})

	t.Run("empty cart is rejected before submission", func(t *testing.T) {
		svc, _, submitter := checkoutFixture(t)

		_, err := svc.Checkout(ctx, owner, 1, "")
		assert.ErrorIs(t, err, ErrEmptyCart)
		assert.Zero(t, submitter.calls)
	})

	t.Run("success clears the cart and returns the order id", func(t *testing.T) {
		svc, cart, _ := checkoutFixture(t)
		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		_, err = cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		_, err = cart.AddOrIncrement(ctx, owner, testProduct(2, "Lamp", 5))
		require.NoError(t, err)

		orderID, err := svc.Checkout(ctx, owner, 1, "")
		require.NoError(t, err)
		assert.NotZero(t, orderID)
		assert.Empty(t, cart.Load(ctx, owner))
	})

	t.Run("submitted total is the cart subtotal", func(t *testing.T) {
		_, cart, submitter := checkoutFixture(t)
		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		_, err = cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		_, err = cart.AddOrIncrement(ctx, owner, testProduct(2, "Lamp", 5))
		require.NoError(t, err)

		var gotTotal float64
		capture := submitterFunc(func(ctx context.Context, userID int, items []models.OrderItem, total float64, key string) (int, error) {
			gotTotal = total
			return submitter.Create(ctx, userID, items, total, key)
		})

		_, err = NewCheckoutService(cart, capture).Checkout(ctx, owner, 1, "")
		require.NoError(t, err)
		assert.Equal(t, 25.0, gotTotal)
	})

	t.Run("failed submission leaves the cart untouched", func(t *testing.T) {
		svc, cart, submitter := checkoutFixture(t)
		submitter.fail = true
		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, owner, 1, "")
		assert.ErrorIs(t, err, ErrOrderSubmit)
		assert.Len(t, cart.Load(ctx, owner), 1)
	})

	t.Run("missing idempotency key gets generated", func(t *testing.T) {
		svc, cart, submitter := checkoutFixture(t)
		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)

		_, err = svc.Checkout(ctx, owner, 1, "")
		require.NoError(t, err)
		assert.NotEmpty(t, submitter.lastKey)
	})

	t.Run("repeated key yields the same order", func(t *testing.T) {
		svc, cart, _ := checkoutFixture(t)

		_, err := cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		first, err := svc.Checkout(ctx, owner, 1, "retry-key")
		require.NoError(t, err)

		_, err = cart.AddOrIncrement(ctx, owner, testProduct(1, "Chair", 10))
		require.NoError(t, err)
		second, err := svc.Checkout(ctx, owner, 1, "retry-key")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

type submitterFunc func(ctx context.Context, userID int, items []models.OrderItem, total float64, idempotencyKey string) (int, error)

func (f submitterFunc) Create(ctx context.Context, userID int, items []models.OrderItem, total float64, idempotencyKey string) (int, error) {
	return f(ctx, userID, items, total, idempotencyKey)
}

func TestValidateOrderSubmission(t *testing.T) {
	items := []models.OrderItem{
		{ProductID: 1, Title: "Chair", Price: 10, Quantity: 2},
		{ProductID: 2, Title: "Lamp", Price: 5, Quantity: 1},
	}

	t.Run("matching total passes", func(t *testing.T) {
		assert.NoError(t, ValidateOrderSubmission(items, 25))
	})

	t.Run("sub-cent drift passes", func(t *testing.T) {
		assert.NoError(t, ValidateOrderSubmission(items, 25.004))
	})

	t.Run("mismatched total fails", func(t *testing.T) {
		assert.ErrorIs(t, ValidateOrderSubmission(items, 20), ErrTotalMismatch)
	})

	t.Run("empty items fail", func(t *testing.T) {
		assert.ErrorIs(t, ValidateOrderSubmission(nil, 0), ErrEmptyCart)
	})

	t.Run("non-positive quantity fails", func(t *testing.T) {
		bad := []models.OrderItem{{ProductID: 1, Price: 10, Quantity: 0}}
		assert.ErrorIs(t, ValidateOrderSubmission(bad, 0), ErrTotalMismatch)
	})

	t.Run("negative price fails", func(t *testing.T) {
		bad := []models.OrderItem{{ProductID: 1, Price: -1, Quantity: 1}}
		assert.ErrorIs(t, ValidateOrderSubmission(bad, -1), ErrTotalMismatch)
	})
}
