package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/yeremiapane/steakz-restaurant/models"
)

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type WalkInCustomer struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type CheckoutRequest struct {
	BranchID       *uint                `json:"branchId,omitempty"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	WalkInCustomer *WalkInCustomer      `json:"walkInCustomer,omitempty"`
	Discount       float64              `json:"discount,omitempty"`
	DiscountType   models.DiscountType  `json:"discountType,omitempty"`
}

type ReservationRequest struct {
	Date          string               `json:"date"`
	Time          string               `json:"time"`
	PartySize     int                  `json:"partySize"`
	BranchID      *uint                `json:"branchId,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod,omitempty"`
	DepositAmount float64              `json:"depositAmount,omitempty"`
}

// ---- auth ----

func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/signup", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	var out AuthResult
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- menu and branches ----

func (c *Client) Menu(ctx context.Context, availableOnly bool) ([]models.MenuItem, error) {
	v := url.Values{}
	if availableOnly {
		v.Set("available", "true")
	}
	var out []models.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu"+query(v), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var out models.MenuItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/menu/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Branches(ctx context.Context) ([]models.Branch, error) {
	var out []models.Branch
	if err := c.do(ctx, http.MethodGet, "/api/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- cart ----

func (c *Client) Cart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/api/cart", nil)
}

func (c *Client) AddToCart(ctx context.Context, menuItemID uint, quantity int) (*models.Cart, error) {
	body := map[string]interface{}{"menuItemId": menuItemID, "quantity": quantity}
	return c.cartCall(ctx, http.MethodPost, "/api/cart/add", body)
}

func (c *Client) UpdateCartItem(ctx context.Context, cartItemID uint, quantity int) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, fmt.Sprintf("/api/cart/items/%d", cartItemID), map[string]int{"quantity": quantity})
}

func (c *Client) RemoveCartItem(ctx context.Context, cartItemID uint) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", cartItemID), nil)
}

func (c *Client) ClearCart(ctx context.Context) (*models.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/clear", nil)
}

func (c *Client) cartCall(ctx context.Context, method, path string, body interface{}) (*models.Cart, error) {
	var out models.Cart
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout turns the caller's server cart into an order.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPost, "/api/cart/checkout", req)
}

// ---- orders ----

// Orders lists the orders staff can see; an empty status lists all.
func (c *Client) Orders(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	v := url.Values{}
	if status != "" {
		v.Set("status", string(status))
	}
	return c.orderList(ctx, "/api/orders"+query(v))
}

func (c *Client) MyOrders(ctx context.Context) ([]models.Order, error) {
	return c.orderList(ctx, "/api/orders/my")
}

func (c *Client) Order(ctx context.Context, id uint) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/status", id), map[string]models.OrderStatus{"status": status})
}

func (c *Client) CancelOrder(ctx context.Context, id uint) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/cancel", id), nil)
}

func (c *Client) CompletePayment(ctx context.Context, id uint) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPatch, fmt.Sprintf("/api/orders/%d/payment-completed", id), nil)
}

func (c *Client) orderList(ctx context.Context, path string) ([]models.Order, error) {
	var out []models.Order
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) orderCall(ctx context.Context, method, path string, body interface{}) (*models.Order, error) {
	var out models.Order
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateReceipt(ctx context.Context, orderID uint) (*models.Receipt, error) {
	var out models.Receipt
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/orders/%d/receipt", orderID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReceiptPDF downloads the printable PDF of an issued receipt.
func (c *Client) ReceiptPDF(ctx context.Context, orderID uint) ([]byte, error) {
	data, _, err := c.raw(ctx, fmt.Sprintf("/api/orders/%d/receipt.pdf", orderID))
	return data, err
}

// OrderEvents returns the events after since, oldest first. A zero limit uses
// the server default.
func (c *Client) OrderEvents(ctx context.Context, since uint64, limit int) ([]models.OrderEvent, error) {
	v := url.Values{}
	v.Set("since", strconv.FormatUint(since, 10))
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	var out []models.OrderEvent
	if err := c.do(ctx, http.MethodGet, "/api/orders/events"+query(v), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- reservations ----

func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPost, "/api/reservations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyReservations(ctx context.Context) ([]models.Reservation, error) {
	var out []models.Reservation
	if err := c.do(ctx, http.MethodGet, "/api/reservations/my", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	var out models.Reservation
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/reservations/%d/cancel", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
