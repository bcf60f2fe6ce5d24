package checkout

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/client/cart"
	"github.com/yeremiapane/steakz-restaurant/models"
)

type CustomerAPI interface {
	Checkout(ctx context.Context, req api.CheckoutRequest) (*models.Order, error)
	MyOrders(ctx context.Context) ([]models.Order, error)
}

// CartView is what checkout needs from the cart store.
type CartView interface {
	Snapshot() cart.Snapshot
	Refresh(ctx context.Context) error
}

type CustomerRequest struct {
	PaymentMethod models.PaymentMethod
	BranchID      *uint
}

// CustomerFlow checks out the logged-in customer's server cart and keeps
// their order history.
type CustomerFlow struct {
	api  CustomerAPI
	cart CartView
	log  logrus.FieldLogger

	mu      sync.Mutex
	history []models.Order
}

func NewCustomerFlow(a CustomerAPI, c CartView, log logrus.FieldLogger) *CustomerFlow {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &CustomerFlow{api: a, cart: c, log: log}
}

// Checkout places the order. The cart and payment method are checked before
// any request; on success the cart store and order history are re-fetched.
func (f *CustomerFlow) Checkout(ctx context.Context, req CustomerRequest) (*models.Order, error) {
	if f.cart.Snapshot().Cart.IsEmpty() {
		return nil, invalid(MsgCartEmpty)
	}
	if !req.PaymentMethod.Valid() {
		return nil, invalid(MsgSelectPayment)
	}

	order, err := f.api.Checkout(ctx, api.CheckoutRequest{BranchID: req.BranchID, PaymentMethod: req.PaymentMethod})
	if err != nil {
		f.log.WithError(err).Error("Error during checkout")
		return nil, err
	}

	if err := f.cart.Refresh(ctx); err != nil {
		f.log.WithError(err).Warn("refresh cart after checkout")
	}
	if err := f.RefreshHistory(ctx); err != nil {
		f.log.WithError(err).Warn("refresh orders after checkout")
	}
	return order, nil
}

func (f *CustomerFlow) RefreshHistory(ctx context.Context) error {
	orders, err := f.api.MyOrders(ctx)
	if err != nil {
		f.log.WithError(err).Error("Error fetching orders")
		return err
	}
	f.mu.Lock()
	f.history = orders
	f.mu.Unlock()
	return nil
}

// History is the order list from the last successful refresh, newest first.
func (f *CustomerFlow) History() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.history...)
}
