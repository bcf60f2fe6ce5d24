package orders

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/models"
)

// ErrTransitionNotOffered means the board does not offer that change for the order.
var ErrTransitionNotOffered = errors.New("orders: transition not offered")

var ErrUnknownOrder = errors.New("orders: order not on board")

type BoardAPI interface {
	Orders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	MyOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, id uint) (*models.Order, error)
}

// Board is the order list one role works from.
type Board struct {
	api  BoardAPI
	role models.Role
	keep func(models.Order) bool
	log  logrus.FieldLogger

	mu     sync.RWMutex
	orders []models.Order
}

type BoardOption func(*Board)

// WithFilter keeps only orders for which keep returns true.
func WithFilter(keep func(models.Order) bool) BoardOption {
	return func(b *Board) { b.keep = keep }
}

func WithLogger(l logrus.FieldLogger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// Active drops finished orders, as the kitchen display does.
func Active(o models.Order) bool {
	return !o.Status.Terminal()
}

// NewBoard builds the board for role. Kitchen boards show active orders only.
func NewBoard(a BoardAPI, role models.Role, opts ...BoardOption) *Board {
	l := logrus.New()
	l.SetOutput(io.Discard)
	b := &Board{api: a, role: role, log: l}
	if role == models.RoleChef {
		b.keep = Active
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Board) Role() models.Role { return b.role }

// Refresh re-fetches the list: own orders for customers, visible orders for staff.
func (b *Board) Refresh(ctx context.Context) error {
	var (
		list []models.Order
		err  error
	)
	if b.role.IsStaff() {
		list, err = b.api.Orders(ctx, "")
	} else {
		list, err = b.api.MyOrders(ctx)
	}
	if err != nil {
		b.log.WithError(err).Error("Error fetching orders")
		return err
	}

	kept := make([]models.Order, 0, len(list))
	for _, o := range list {
		if b.keep == nil || b.keep(o) {
			kept = append(kept, o)
		}
	}
	b.mu.Lock()
	b.orders = kept
	b.mu.Unlock()
	return nil
}

func (b *Board) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Order(nil), b.orders...)
}

func (b *Board) find(id uint) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// Apply requests target for an order on the board and re-fetches on success.
// Targets the board does not offer fail without a server call.
func (b *Board) Apply(ctx context.Context, orderID uint, target models.OrderStatus) (*models.Order, error) {
	order, ok := b.find(orderID)
	if !ok {
		return nil, ErrUnknownOrder
	}
	if !Offers(b.role, order, target) {
		return nil, ErrTransitionNotOffered
	}

	var (
		updated *models.Order
		err     error
	)
	if target == models.OrderCancelled && !b.role.IsStaff() {
		updated, err = b.api.CancelOrder(ctx, orderID)
	} else {
		updated, err = b.api.UpdateOrderStatus(ctx, orderID, target)
	}
	if err != nil {
		b.log.WithError(err).WithField("order_id", orderID).Error("Failed to update order status")
		return nil, err
	}
	if err := b.Refresh(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}
