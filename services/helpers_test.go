package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/steakz-restaurant/database"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	carts    *CartService
	payments *PaymentService
	receipts *ReceiptService

	branch, otherBranch models.Branch
	steak, fries, soup  models.MenuItem

	customer, other, cashier, chef, manager, hq models.Viewer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	utils.SilenceLoggers()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	f := &fixture{db: db}
	f.branch = models.Branch{Name: "Central", IsActive: true}
	f.otherBranch = models.Branch{Name: "Riverside", IsActive: true}
	require.NoError(t, db.Create(&f.branch).Error)
	require.NoError(t, db.Create(&f.otherBranch).Error)

	f.steak = models.MenuItem{Name: "Steak", Price: 10, Category: models.CategoryMain, IsAvailable: true}
	f.fries = models.MenuItem{Name: "Fries", Price: 5, Category: models.CategoryAppetizer, IsAvailable: true}
	f.soup = models.MenuItem{Name: "Soup", Price: 4, Category: models.CategoryAppetizer, IsAvailable: true}
	for _, m := range []*models.MenuItem{&f.steak, &f.fries, &f.soup} {
		require.NoError(t, db.Create(m).Error)
	}
	require.NoError(t, db.Model(&f.soup).Update("is_available", false).Error)

	mk := func(name string, role models.Role, branch *models.Branch) models.Viewer {
		u := models.User{Username: name, Password: "x", Role: role}
		if branch != nil {
			id := branch.ID
			u.BranchID = &id
		}
		require.NoError(t, db.Create(&u).Error)
		return models.Viewer{UserID: u.ID, Role: u.Role, BranchID: u.BranchID}
	}
	f.customer = mk("alice", models.RoleCustomer, nil)
	f.other = mk("bob", models.RoleCustomer, nil)
	f.cashier = mk("cashier", models.RoleCashier, &f.branch)
	f.chef = mk("chef", models.RoleChef, &f.branch)
	f.manager = mk("manager", models.RoleBranchManager, &f.branch)
	f.hq = mk("hq", models.RoleHeadquarterManager, nil)

	f.orders = NewOrderService(db)
	f.orders.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	f.carts = NewCartService(db, f.orders)
	f.payments = NewPaymentService(f.orders)
	f.receipts = NewReceiptService(f.orders, models.RestaurantInfo{Name: "Steakz", Address: "1 Main St", Phone: "123"})
	return f
}

// placeFor creates a PENDING order for a customer at the fixture branch.
func (f *fixture) placeFor(t *testing.T, viewer models.Viewer) *models.Order {
	t.Helper()
	branchID := f.branch.ID
	order, err := f.orders.Create(viewer, []LineRequest{{MenuItemID: f.steak.ID, Quantity: 2}, {MenuItemID: f.fries.ID, Quantity: 1}},
		PlaceOptions{BranchID: &branchID, PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	return order
}

func requireCode(t *testing.T, err error, code utils.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code, appErr.Message)
}
