package checkout

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/pricing"
)

type TerminalAPI interface {
	Menu(ctx context.Context, availableOnly bool) ([]models.MenuItem, error)
	Orders(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
	AddToCart(ctx context.Context, menuItemID uint, quantity int) (*models.Cart, error)
	Checkout(ctx context.Context, req api.CheckoutRequest) (*models.Order, error)
}

type UserSource interface {
	User() *models.User
}

// Terminal is the point-of-sale checkout. Selections stay local until
// Checkout copies them into the operator's server cart.
type Terminal struct {
	api   TerminalAPI
	users UserSource
	log   logrus.FieldLogger

	mu           sync.Mutex
	menu         []models.MenuItem
	recent       []models.Order
	selections   map[uint]int
	discount     float64
	discountType models.DiscountType
	payment      models.PaymentMethod
	walkInName   string
	walkInPhone  string
}

func NewTerminal(a TerminalAPI, users UserSource, log logrus.FieldLogger) *Terminal {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Terminal{
		api:          a,
		users:        users,
		log:          log,
		selections:   make(map[uint]int),
		discountType: models.DiscountAmount,
		payment:      models.PaymentCash,
	}
}

// Load fetches the menu and the recent orders.
func (t *Terminal) Load(ctx context.Context) error {
	menu, err := t.api.Menu(ctx, false)
	if err != nil {
		return err
	}
	orders, err := t.api.Orders(ctx, "")
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.menu = menu
	t.recent = orders
	t.mu.Unlock()
	return nil
}

func (t *Terminal) Menu() []models.MenuItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.MenuItem(nil), t.menu...)
}

func (t *Terminal) RecentOrders() []models.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Order(nil), t.recent...)
}

func (t *Terminal) Add(menuItemID uint) {
	t.mu.Lock()
	t.selections[menuItemID]++
	t.mu.Unlock()
}

// RemoveOne takes one unit off a selection, dropping it at zero.
func (t *Terminal) RemoveOne(menuItemID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.selections[menuItemID] <= 1 {
		delete(t.selections, menuItemID)
		return
	}
	t.selections[menuItemID]--
}

// SetQuantity sets a selection; negative counts as zero and zero removes it.
func (t *Terminal) SetQuantity(menuItemID uint, quantity int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if quantity <= 0 {
		delete(t.selections, menuItemID)
		return
	}
	t.selections[menuItemID] = quantity
}

func (t *Terminal) Quantity(menuItemID uint) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.selections[menuItemID]
}

func (t *Terminal) SetDiscount(value float64, kind models.DiscountType) {
	t.mu.Lock()
	t.discount = value
	t.discountType = kind
	t.mu.Unlock()
}

func (t *Terminal) SetPaymentMethod(m models.PaymentMethod) {
	t.mu.Lock()
	t.payment = m
	t.mu.Unlock()
}

func (t *Terminal) SetWalkIn(name, phone string) {
	t.mu.Lock()
	t.walkInName = strings.TrimSpace(name)
	t.walkInPhone = strings.TrimSpace(phone)
	t.mu.Unlock()
}

// BranchID is the operator's assigned branch, if any.
func (t *Terminal) BranchID() *uint {
	if u := t.users.User(); u != nil && u.BranchID != nil {
		id := *u.BranchID
		return &id
	}
	return nil
}

func (t *Terminal) linesLocked() []pricing.Line {
	lines := make([]pricing.Line, 0, len(t.selections))
	for _, item := range t.menu {
		if qty := t.selections[item.ID]; qty > 0 {
			lines = append(lines, pricing.Line{UnitPrice: item.Price, Quantity: qty})
		}
	}
	return lines
}

func (t *Terminal) Subtotal() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return pricing.Float(pricing.Subtotal(t.linesLocked()))
}

// DisplayedTotal is the selection total after the discount. The server
// computes the stored total on its own.
func (t *Terminal) DisplayedTotal() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := pricing.Discount{Value: t.discount, Type: t.discountType}
	return pricing.Float(pricing.Total(t.linesLocked(), d))
}

type selectedLine struct {
	menuItemID uint
	quantity   int
}

// Checkout validates the selection, syncs it into the server cart, checks it
// out and resets the terminal. Validation failures make no server call.
func (t *Terminal) Checkout(ctx context.Context) (*models.Order, error) {
	t.mu.Lock()
	lines := make([]selectedLine, 0, len(t.selections))
	for id, qty := range t.selections {
		if qty > 0 {
			lines = append(lines, selectedLine{menuItemID: id, quantity: qty})
		}
	}
	req := api.CheckoutRequest{PaymentMethod: t.payment}
	if t.walkInName != "" || t.walkInPhone != "" {
		req.WalkInCustomer = &api.WalkInCustomer{Name: t.walkInName, Phone: t.walkInPhone}
	}
	if t.discount > 0 {
		req.Discount = t.discount
		req.DiscountType = t.discountType
	}
	t.mu.Unlock()

	if len(lines) == 0 {
		return nil, invalid(MsgSelectItems)
	}
	if req.WalkInCustomer == nil {
		return nil, invalid(MsgWalkInRequired)
	}
	req.BranchID = t.BranchID()
	if req.BranchID == nil {
		return nil, invalid(MsgNoBranchAssigned)
	}
	if !req.PaymentMethod.Valid() {
		return nil, invalid(MsgSelectPayment)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].menuItemID < lines[j].menuItemID })
	if _, err := t.api.ClearCart(ctx); err != nil {
		t.log.WithError(err).Error("Error syncing cart")
		return nil, err
	}
	for _, l := range lines {
		if _, err := t.api.AddToCart(ctx, l.menuItemID, l.quantity); err != nil {
			t.log.WithError(err).WithField("menu_item_id", l.menuItemID).Error("Error syncing cart")
			return nil, err
		}
	}

	order, err := t.api.Checkout(ctx, req)
	if err != nil {
		t.log.WithError(err).Error("Error processing order")
		return nil, err
	}

	t.mu.Lock()
	t.selections = make(map[uint]int)
	t.discount = 0
	t.discountType = models.DiscountAmount
	t.walkInName = ""
	t.walkInPhone = ""
	t.mu.Unlock()

	if err := t.Load(ctx); err != nil {
		t.log.WithError(err).Warn("refresh after checkout")
	}
	return order, nil
}
