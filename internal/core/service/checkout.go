package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutSizeChosen
	CheckoutSubmitting
	CheckoutSucceeded
)

func (s CheckoutState) String() string {
	switch s {
	case CheckoutIdle:
		return "idle"
	case CheckoutSizeChosen:
		return "size_chosen"
	case CheckoutSubmitting:
		return "submitting"
	case CheckoutSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Checkout is the order form of one product page. Failed submissions leave it in
// the state it was in; a successful one clears the form.
type Checkout struct {
	orders    *OrderService
	productID string

	mu     sync.Mutex
	state  CheckoutState
	size   string
	handle string
	last   domain.Order
}

func NewCheckout(orders *OrderService, productID string) *Checkout {
	return &Checkout{orders: orders, productID: productID}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Checkout) Selection() (size, handle string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size, c.handle
}

// LastOrder is the order created by the most recent successful submit.
func (c *Checkout) LastOrder() domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Checkout) ChooseSize(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutSubmitting {
		return ErrSubmitInProgress
	}
	c.size = name
	if name == "" {
		c.state = CheckoutIdle
	} else {
		c.state = CheckoutSizeChosen
	}
	return nil
}

func (c *Checkout) SetHandle(handle string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutSubmitting {
		return ErrSubmitInProgress
	}
	c.handle = handle
	return nil
}

func (c *Checkout) Submit(ctx context.Context, requestID string) (domain.Order, error) {
	c.mu.Lock()
	if c.state == CheckoutSubmitting {
		c.mu.Unlock()
		return domain.Order{}, ErrSubmitInProgress
	}
	if c.size == "" || strings.TrimSpace(c.handle) == "" {
		c.mu.Unlock()
		return domain.Order{}, ErrMissingSelection
	}
	prev := c.state
	c.state = CheckoutSubmitting
	req := PlaceOrderRequest{RequestID: requestID, ProductID: c.productID, Size: c.size, Handle: c.handle}
	c.mu.Unlock()

	order, err := c.orders.PlaceOrder(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = prev
		return domain.Order{}, err
	}
	c.state = CheckoutSucceeded
	c.size = ""
	c.handle = ""
	c.last = order
	return order, nil
}

// Reset returns a finished checkout to Idle for the next order.
func (c *Checkout) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutSubmitting {
		return
	}
	c.state = CheckoutIdle
	c.size = ""
	c.handle = ""
}
