package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/pricing"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 500
)

// LineRequest is one requested menu item and quantity.
type LineRequest struct {
	MenuItemID uint `json:"menuItemId"`
	Quantity   int  `json:"quantity"`
}

// PlaceOptions carries everything about an order except its lines.
type PlaceOptions struct {
	BranchID      *uint
	PaymentMethod models.PaymentMethod
	WalkInName    string
	WalkInPhone   string
	Discount      float64
	DiscountType  models.DiscountType
}

type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// Create places an order directly from item lines, without a cart.
func (s *OrderService) Create(viewer models.Viewer, lines []LineRequest, opts PlaceOptions) (*models.Order, error) {
	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = placeOrder(tx, viewer, lines, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.load(order.ID)
}

// placeOrder validates the request, snapshots prices and writes the order and
// its created event. It must run inside a transaction.
func placeOrder(tx *gorm.DB, viewer models.Viewer, lines []LineRequest, opts PlaceOptions) (*models.Order, error) {
	if viewer.Role == models.RoleChef {
		return nil, forbidden("Kitchen staff cannot place orders")
	}
	if !opts.PaymentMethod.Valid() {
		return nil, invalid("Invalid payment method")
	}

	quantities := make(map[uint]int)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		quantities[l.MenuItemID] += l.Quantity
	}
	if len(quantities) == 0 {
		return nil, invalid("Cart is empty")
	}

	branchID, err := resolveBranch(tx, viewer, opts.BranchID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		BranchID:      branchID,
		Status:        models.OrderPending,
		PaymentMethod: opts.PaymentMethod,
		PaymentStatus: models.PaymentPending,
	}

	counter := takesCounterOrders(viewer.Role)
	if counter {
		name, phone := strings.TrimSpace(opts.WalkInName), strings.TrimSpace(opts.WalkInPhone)
		if name == "" && phone == "" {
			return nil, invalid("Walk-in customer name or phone is required")
		}
		if name != "" {
			order.WalkInName = &name
		}
		if phone != "" {
			order.WalkInPhone = &phone
		}
	} else {
		uid := viewer.UserID
		order.UserID = &uid
	}

	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var items []models.MenuItem
	if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "load menu items")
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	priced := make([]pricing.Line, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, notFound(fmt.Sprintf("Menu item %d", id))
		}
		if !item.IsAvailable {
			return nil, invalid("%s is not available", item.Name)
		}
		order.OrderItems = append(order.OrderItems, models.OrderItem{
			MenuItemID: id,
			Quantity:   quantities[id],
			Price:      item.Price,
		})
		priced = append(priced, pricing.Line{UnitPrice: item.Price, Quantity: quantities[id]})
	}

	discount := pricing.Discount{}
	if counter && opts.Discount > 0 {
		if !opts.DiscountType.Valid() {
			return nil, invalid("Invalid discount type")
		}
		discount = pricing.Discount{Value: opts.Discount, Type: opts.DiscountType}
		order.Discount = opts.Discount
		order.DiscountType = opts.DiscountType
	}
	order.Subtotal = pricing.Float(pricing.Subtotal(priced))
	order.Total = pricing.Float(pricing.Total(priced, discount))

	if err := tx.Create(order).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "create order")
	}
	if err := tx.Create(models.NewOrderEvent(order, models.EventOrderCreated)).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "record order event")
	}
	return order, nil
}

func (s *OrderService) load(id uint) (*models.Order, error) {
	var order models.Order
	if err := preloadOrder(s.db).First(&order, id).Error; err != nil {
		return nil, lookup(err, "Order")
	}
	return &order, nil
}

// Get returns an order the viewer is allowed to see.
func (s *OrderService) Get(viewer models.Viewer, id uint) (*models.Order, error) {
	order, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeOrder(order.UserID, order.BranchID) {
		if viewer.Role.IsStaff() {
			return nil, utils.ErrNoPermission
		}
		return nil, notFound("Order")
	}
	return order, nil
}

// List returns the orders staff can see, newest first. An empty status lists all.
func (s *OrderService) List(viewer models.Viewer, status models.OrderStatus) ([]models.Order, error) {
	if !viewer.Role.IsStaff() {
		return nil, utils.ErrNoPermission
	}
	if status != "" && !status.Valid() {
		return nil, invalid("Invalid order status %q", status)
	}

	q := scopeOrders(preloadOrder(s.db), viewer)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	if err := q.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list orders")
	}
	return orders, nil
}

// Mine returns the viewer's own orders, newest first.
func (s *OrderService) Mine(viewer models.Viewer) ([]models.Order, error) {
	var orders []models.Order
	err := preloadOrder(s.db).
		Where("user_id = ?", viewer.UserID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list orders")
	}
	return orders, nil
}

// UpdateStatus moves an order forward (or cancels it) on behalf of staff.
func (s *OrderService) UpdateStatus(viewer models.Viewer, id uint, target models.OrderStatus) (*models.Order, error) {
	if !target.Valid() {
		return nil, invalid("Invalid order status %q", target)
	}
	if !viewer.Role.IsStaff() {
		return nil, forbidden("Customers cannot change order status")
	}
	if !models.RoleMayTransition(viewer.Role, target) {
		return nil, forbidden(fmt.Sprintf("%s cannot set orders to %s", viewer.Role, target))
	}
	return s.transition(viewer, id, target)
}

// Cancel cancels an order. Owners may cancel until the kitchen starts;
// staff may cancel any order that is not finished.
func (s *OrderService) Cancel(viewer models.Viewer, id uint) (*models.Order, error) {
	order, err := s.Get(viewer, id)
	if err != nil {
		return nil, err
	}
	if viewer.Role.IsStaff() {
		if !models.RoleMayTransition(viewer.Role, models.OrderCancelled) {
			return nil, forbidden(fmt.Sprintf("%s cannot cancel orders", viewer.Role))
		}
	} else if !models.CustomerMayCancel(order.Status) {
		return nil, conflict("Order can no longer be cancelled")
	}
	return s.transition(viewer, id, models.OrderCancelled)
}

func (s *OrderService) transition(viewer models.Viewer, id uint, target models.OrderStatus) (*models.Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return lookup(err, "Order")
		}
		if !viewer.CanSeeOrder(order.UserID, order.BranchID) {
			return utils.ErrNoPermission
		}
		if !models.CanTransition(order.Status, target) {
			return conflict("Cannot change order status from %s to %s", order.Status, target)
		}

		// Conditional on the status we read, so a concurrent change wins cleanly.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, order.Status).
			Update("status", target)
		if res.Error != nil {
			return utils.WrapAppError(utils.CodeInternal, res.Error, "update order status")
		}
		if res.RowsAffected == 0 {
			return conflict("Order status changed concurrently")
		}

		order.Status = target
		return tx.Create(models.NewOrderEvent(&order, models.EventOrderStatus)).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithField("order_id", id).WithField("status", target).Info("order status changed")
	return s.load(id)
}

// Events returns events after since that viewer may see, oldest first.
func (s *OrderService) Events(viewer models.Viewer, since uint64, limit int) ([]models.OrderEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	var events []models.OrderEvent
	err := scopeOrders(s.db.Model(&models.OrderEvent{}), viewer).
		Where("id > ?", since).
		Order("id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "list order events")
	}
	return events, nil
}
