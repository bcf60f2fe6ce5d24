package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/internal/apptest"
	"github.com/yeremiapane/steakz-restaurant/models"
)

func TestCartRequiresAuth(t *testing.T) {
	app := apptest.New(t)
	w, env := doRequest(t, app.Router, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Status)
}

func TestCartLifecycle(t *testing.T) {
	app := apptest.New(t)
	alice := app.CreateCustomer(t, "alice")
	token := app.Token(t, alice.Username)
	burger := app.MenuItem(t, "Steakz Burger")
	lemonade := app.MenuItem(t, "Lemonade")

	w, env := doRequest(t, app.Router, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart models.Cart
	decode(t, env, &cart)
	assert.Empty(t, cart.CartItems)
	start := cart.Version

	w, _ = doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": burger.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w, env = doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": burger.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &cart)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 3, cart.CartItems[0].Quantity)
	assert.Equal(t, 36.0, cart.Total)
	assert.Greater(t, cart.Version, start)

	w, env = doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": lemonade.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &cart)
	require.Len(t, cart.CartItems, 2)
	assert.Equal(t, 4, cart.ItemCount)

	var burgerLine uint
	for _, item := range cart.CartItems {
		if item.MenuItemID == burger.ID {
			burgerLine = item.ID
		}
	}
	w, env = doRequest(t, app.Router, http.MethodPut, fmt.Sprintf("/api/cart/items/%d", burgerLine), token, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &cart)
	assert.Equal(t, 15.0, cart.Total)

	w, env = doRequest(t, app.Router, http.MethodDelete, fmt.Sprintf("/api/cart/items/%d", burgerLine), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &cart)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, lemonade.ID, cart.CartItems[0].MenuItemID)

	w, env = doRequest(t, app.Router, http.MethodDelete, "/api/cart/clear", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &cart)
	assert.Empty(t, cart.CartItems)
	assert.Zero(t, cart.Total)
}

func TestCartRejectsBadInput(t *testing.T) {
	app := apptest.New(t)
	token := app.Token(t, app.CreateCustomer(t, "alice").Username)
	burger := app.MenuItem(t, "Steakz Burger")

	w, env := doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": burger.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quantity must be at least 1", env.Error)

	w, _ = doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, app.Router, http.MethodPut, "/api/cart/items/9999", token, map[string]int{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doRequest(t, app.Router, http.MethodPost, "/api/cart/checkout", token, map[string]string{"paymentMethod": "CASH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", env.Error)
}

func TestCustomerCheckout(t *testing.T) {
	app := apptest.New(t)
	token := app.Token(t, app.CreateCustomer(t, "alice").Username)
	burger := app.MenuItem(t, "Steakz Burger")
	central := app.Branch(t, "Steakz Central")

	doRequest(t, app.Router, http.MethodPost, "/api/cart/add", token, map[string]interface{}{"menuItemId": burger.ID, "quantity": 2})

	w, env := doRequest(t, app.Router, http.MethodPost, "/api/cart/checkout", token, map[string]interface{}{
		"paymentMethod": "DIGITAL_WALLET", "branchId": central.ID, "discount": 50, "discountType": "PERCENTAGE",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, env, &order)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 24.0, order.Total, "customer discounts are ignored")
	require.NotNil(t, order.BranchID)
	assert.Equal(t, central.ID, *order.BranchID)

	w, env = doRequest(t, app.Router, http.MethodGet, "/api/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart models.Cart
	decode(t, env, &cart)
	assert.Empty(t, cart.CartItems)
}

func TestCashierWalkInCheckout(t *testing.T) {
	app := apptest.New(t)
	cashier := app.Token(t, "cashier")
	ribeye := app.MenuItem(t, "Ribeye 300g")
	lemonade := app.MenuItem(t, "Lemonade")

	doRequest(t, app.Router, http.MethodPost, "/api/cart/add", cashier, map[string]interface{}{"menuItemId": ribeye.ID, "quantity": 1})

	w, env := doRequest(t, app.Router, http.MethodPost, "/api/cart/checkout", cashier, map[string]interface{}{"paymentMethod": "CASH"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Walk-in customer name or phone is required", env.Error)

	doRequest(t, app.Router, http.MethodPost, "/api/cart/add", cashier, map[string]interface{}{"menuItemId": lemonade.ID, "quantity": 1})
	w, env = doRequest(t, app.Router, http.MethodPost, "/api/cart/checkout", cashier, map[string]interface{}{
		"paymentMethod":  "CASH",
		"walkInCustomer": map[string]string{"name": "Dana"},
		"discount":       10,
		"discountType":   "PERCENTAGE",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, env, &order)
	assert.Nil(t, order.UserID)
	require.NotNil(t, order.WalkInName)
	assert.Equal(t, "Dana", *order.WalkInName)
	assert.Equal(t, 27.0, order.Subtotal)
	assert.InDelta(t, 24.3, order.Total, 0.001)
	assert.Equal(t, app.User(t, "cashier").BranchID, order.BranchID)
}

func TestChefCannotCheckout(t *testing.T) {
	app := apptest.New(t)
	chef := app.Token(t, "chef")
	burger := app.MenuItem(t, "Steakz Burger")

	doRequest(t, app.Router, http.MethodPost, "/api/cart/add", chef, map[string]interface{}{"menuItemId": burger.ID})
	w, _ := doRequest(t, app.Router, http.MethodPost, "/api/cart/checkout", chef, map[string]interface{}{
		"paymentMethod": "CASH", "walkInCustomer": map[string]string{"name": "Dana"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
