package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/client/api"
	"github.com/yeremiapane/steakz-restaurant/internal/apptest"
	"github.com/yeremiapane/steakz-restaurant/models"
)

func serve(t *testing.T) (*apptest.App, string) {
	t.Helper()
	app := apptest.New(t)
	return app, app.Serve(t).URL
}

func clientFor(t *testing.T, app *apptest.App, url, username string) *api.Client {
	t.Helper()
	token := app.Token(t, username)
	return api.New(url, api.WithTokenSource(api.TokenSourceFunc(func() string { return token })))
}

// placeWalkIn rings up one item at the cashier's branch.
func placeWalkIn(t *testing.T, app *apptest.App, url, item string) *models.Order {
	t.Helper()
	ctx := context.Background()
	cashier := clientFor(t, app, url, "cashier")
	_, err := cashier.AddToCart(ctx, app.MenuItem(t, item).ID, 1)
	require.NoError(t, err)
	order, err := cashier.Checkout(ctx, api.CheckoutRequest{
		PaymentMethod:  models.PaymentCash,
		WalkInCustomer: &api.WalkInCustomer{Name: "Dana"},
	})
	require.NoError(t, err)
	return order
}
