package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/internal/apptest"
)

func TestParseLines(t *testing.T) {
	lines, err := parseLines([]string{"3", "5:2"})
	require.NoError(t, err)
	assert.Equal(t, []orderLine{{menuItemID: 3, quantity: 1}, {menuItemID: 5, quantity: 2}}, lines)

	for _, bad := range []string{"abc", "0:1", "3:0", "3:-1", "3:x"} {
		_, err := parseLines([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, rest, err := LoadConfig([]string{"-server", "http://pos.test", "-walk-in-name", "Dana", "checkout", "3:2"})
	require.NoError(t, err)
	assert.Equal(t, "http://pos.test", cfg.Server)
	assert.Equal(t, "Dana", cfg.WalkInName)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "CASH", cfg.Payment)
	assert.NotEmpty(t, cfg.TokenFile)
	assert.Equal(t, []string{"checkout", "3:2"}, rest)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("username: cashier\ntimeout: 3s\n"), 0o600))

	cfg, rest, err := LoadConfig([]string{"-config", path, "menu"})
	require.NoError(t, err)
	assert.Equal(t, "cashier", cfg.Username)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"menu"}, rest)
}

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestCounterSession(t *testing.T) {
	app := apptest.New(t)
	srv := app.Serve(t)
	ctx := context.Background()
	lemonade := app.MenuItem(t, "Lemonade")

	cfg := &Config{
		Server:       srv.URL,
		Username:     "cashier",
		Password:     apptest.StaffPassword,
		TokenFile:    filepath.Join(t.TempDir(), "token"),
		Timeout:      5 * time.Second,
		Payment:      "CASH",
		DiscountType: "AMOUNT",
		WalkInName:   "Dana",
	}
	exec := func(args ...string) (string, error) {
		var buf bytes.Buffer
		err := run(ctx, cfg, args, &buf, quietLog())
		return buf.String(), err
	}

	out, err := exec("checkout", fmt.Sprintf("%d:2", lemonade.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal €6.00, total €6.00")
	assert.Contains(t, out, "placed for Dana: €6.00 (PENDING)")

	// The saved token is used from here on.
	cfg.Username, cfg.Password = "", ""

	out, err = exec("orders")
	require.NoError(t, err)
	assert.Contains(t, out, "Dana")
	assert.Contains(t, out, "Confirm [CONFIRMED]")

	_, err = exec("status", "1", "preparing")
	assert.EqualError(t, err, "order #1 cannot be set to PREPARING")

	out, err = exec("status", "1", "confirmed")
	require.NoError(t, err)
	assert.Equal(t, "Order #1 is now CONFIRMED\n", out)

	out, err = exec("pay", "1")
	require.NoError(t, err)
	assert.Equal(t, "Order #1 payment COMPLETED\n", out)

	out, err = exec("receipt", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Receipt #")
	assert.Contains(t, out, "Thank you for your purchase!")

	out, err = exec("logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out\n", out)

	_, err = exec("orders")
	assert.ErrorContains(t, err, "not logged in")
}

func TestCustomerCheckout(t *testing.T) {
	app := apptest.New(t)
	srv := app.Serve(t)
	app.CreateCustomer(t, "alice")
	burger := app.MenuItem(t, "Steakz Burger")

	cfg := &Config{
		Server:    srv.URL,
		Username:  "alice",
		Password:  apptest.StaffPassword,
		TokenFile: filepath.Join(t.TempDir(), "token"),
		Timeout:   5 * time.Second,
		Payment:   "debit_card",
		Branch:    app.Branch(t, "Steakz Central").ID,
	}
	var buf bytes.Buffer
	err := run(context.Background(), cfg, []string{"checkout", fmt.Sprintf("%d:3", burger.ID)}, &buf, quietLog())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Cart: 3 items, €36.00")
	assert.Contains(t, buf.String(), "placed for alice: €36.00 (PENDING)")
}

func TestRunNeedsCommand(t *testing.T) {
	err := run(context.Background(), &Config{Server: "http://127.0.0.1:1"}, nil, io.Discard, quietLog())
	assert.ErrorIs(t, err, errUsage)
}
