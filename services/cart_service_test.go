package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

func TestCartGetCreatesEmptyCart(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.Get(f.customer.UserID)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.Zero(t, cart.Total)
	assert.True(t, cart.IsEmpty())

	again, err := f.carts.Get(f.customer.UserID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartAddMergesAndBumpsVersion(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	cart, err := f.carts.AddItem(uid, f.steak.ID, 1)
	require.NoError(t, err)
	v1 := cart.Version

	cart, err = f.carts.AddItem(uid, f.steak.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 3, cart.CartItems[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount)
	assert.Equal(t, 30.0, cart.Total)
	assert.Greater(t, cart.Version, v1)
}

func TestCartAddRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	_, err := f.carts.AddItem(uid, f.steak.ID, 0)
	requireCode(t, err, utils.CodeValidation)

	_, err = f.carts.AddItem(uid, 9999, 1)
	requireCode(t, err, utils.CodeNotFound)

	_, err = f.carts.AddItem(uid, f.soup.ID, 1)
	requireCode(t, err, utils.CodeValidation)
}

func TestCartUpdateToZeroRemovesLine(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	cart, err := f.carts.AddItem(uid, f.steak.ID, 2)
	require.NoError(t, err)
	lineID := cart.CartItems[0].ID

	cart, err = f.carts.UpdateItem(uid, lineID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.CartItems[0].Quantity)

	cart, err = f.carts.UpdateItem(uid, lineID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
}

func TestCartLinesAreOwnedByTheirCart(t *testing.T) {
	f := newFixture(t)

	cart, err := f.carts.AddItem(f.customer.UserID, f.steak.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.RemoveItem(f.other.UserID, cart.CartItems[0].ID)
	requireCode(t, err, utils.CodeNotFound)
}

func TestCartClear(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	_, err := f.carts.AddItem(uid, f.steak.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(uid, f.fries.ID, 1)
	require.NoError(t, err)

	cart, err := f.carts.Clear(uid)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.Zero(t, cart.ItemCount)
}

func TestCheckoutCreatesOrderAndEmptiesCart(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	_, err := f.carts.AddItem(uid, f.steak.ID, 2)
	require.NoError(t, err)
	before, err := f.carts.AddItem(uid, f.fries.ID, 1)
	require.NoError(t, err)

	branchID := f.branch.ID
	order, err := f.carts.Checkout(f.customer, PlaceOptions{BranchID: &branchID, PaymentMethod: models.PaymentCreditCard, Discount: 50, DiscountType: models.DiscountPercentage})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.PaymentPending, order.PaymentStatus)
	assert.Equal(t, 25.0, order.Total, "customer discounts are ignored")
	assert.Zero(t, order.Discount)
	require.NotNil(t, order.UserID)
	assert.Equal(t, uid, *order.UserID)
	assert.Len(t, order.OrderItems, 2)

	cart, err := f.carts.Get(uid)
	require.NoError(t, err)
	assert.Empty(t, cart.CartItems)
	assert.Greater(t, cart.Version, before.Version)

	var events []models.OrderEvent
	require.NoError(t, f.db.Where("order_id = ?", order.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventOrderCreated, events[0].Type)
}

func TestCheckoutSnapshotsPrices(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	_, err := f.carts.AddItem(uid, f.steak.ID, 1)
	require.NoError(t, err)
	order, err := f.carts.Checkout(f.customer, PlaceOptions{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&f.steak).Update("price", 99).Error)

	reloaded, err := f.orders.Get(f.customer, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, reloaded.OrderItems[0].Price)
	assert.Equal(t, 10.0, reloaded.Total)
}

func TestCheckoutRejections(t *testing.T) {
	f := newFixture(t)
	uid := f.customer.UserID

	_, err := f.carts.Checkout(f.customer, PlaceOptions{PaymentMethod: models.PaymentCash})
	requireCode(t, err, utils.CodeValidation)

	_, err = f.carts.AddItem(uid, f.steak.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.Checkout(f.customer, PlaceOptions{PaymentMethod: "BITCOIN"})
	requireCode(t, err, utils.CodeValidation)

	missing := uint(999)
	_, err = f.carts.Checkout(f.customer, PlaceOptions{PaymentMethod: models.PaymentCash, BranchID: &missing})
	requireCode(t, err, utils.CodeNotFound)

	cart, err := f.carts.Get(uid)
	require.NoError(t, err)
	assert.Len(t, cart.CartItems, 1, "failed checkout leaves the cart intact")

	var count int64
	f.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestCounterCheckoutForWalkIn(t *testing.T) {
	f := newFixture(t)
	uid := f.cashier.UserID

	_, err := f.carts.AddItem(uid, f.steak.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(uid, f.fries.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.Checkout(f.cashier, PlaceOptions{PaymentMethod: models.PaymentCash})
	requireCode(t, err, utils.CodeValidation)

	order, err := f.carts.Checkout(f.cashier, PlaceOptions{
		PaymentMethod: models.PaymentCash,
		WalkInName:    "Dana",
		Discount:      10,
		DiscountType:  models.DiscountPercentage,
	})
	require.NoError(t, err)
	assert.Nil(t, order.UserID)
	require.NotNil(t, order.WalkInName)
	assert.Equal(t, "Dana", *order.WalkInName)
	assert.Nil(t, order.WalkInPhone)
	require.NotNil(t, order.BranchID)
	assert.Equal(t, f.branch.ID, *order.BranchID, "defaults to the cashier's branch")
	assert.Equal(t, 25.0, order.Subtotal)
	assert.Equal(t, 22.5, order.Total)
	assert.Equal(t, "Dana", order.CustomerLabel())
}

func TestCounterCheckoutOtherBranchForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.carts.AddItem(f.cashier.UserID, f.steak.ID, 1)
	require.NoError(t, err)
	other := f.otherBranch.ID
	_, err = f.carts.Checkout(f.cashier, PlaceOptions{PaymentMethod: models.PaymentCash, WalkInPhone: "555", BranchID: &other})
	requireCode(t, err, utils.CodeForbidden)
}
