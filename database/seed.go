package database

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedOptions struct {
	AdminPassword string
	// StaffPassword is used for the demo branch staff accounts.
	StaffPassword string
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

var seedBranches = []models.Branch{
	{Name: "Steakz Central", Address: "12 High Street", City: "London", District: "Westminster", Phone: "+44 20 7946 0001", Email: "central@steakz.test", IsActive: true},
	{Name: "Steakz Riverside", Address: "4 Quay Road", City: "London", District: "Southwark", Phone: "+44 20 7946 0002", Email: "riverside@steakz.test", IsActive: true},
}

var seedMenu = []models.MenuItem{
	{Name: "Garlic Prawns", Description: "Pan-fried prawns, garlic butter", Price: 8.50, Category: models.CategoryAppetizer, IsAvailable: true},
	{Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Price: 6.00, Category: models.CategoryAppetizer, IsAvailable: true},
	{Name: "Ribeye 300g", Description: "Dry-aged ribeye, peppercorn sauce", Price: 24.00, Category: models.CategoryMain, IsAvailable: true},
	{Name: "Sirloin 250g", Description: "Grass-fed sirloin, chips", Price: 19.50, Category: models.CategoryMain, IsAvailable: true},
	{Name: "Steakz Burger", Description: "Brisket patty, cheddar, brioche", Price: 12.00, Category: models.CategoryMain, IsAvailable: true},
	{Name: "Sticky Toffee Pudding", Description: "With vanilla ice cream", Price: 6.50, Category: models.CategoryDessert, IsAvailable: true},
	{Name: "Lemonade", Description: "House-made", Price: 3.00, Category: models.CategoryBeverage, IsAvailable: true},
	{Name: "Red Wine (glass)", Description: "Malbec", Price: 7.00, Category: models.CategoryBeverage, IsAvailable: true},
}

type seedUser struct {
	username string
	role     models.Role
	branch   int // index into seedBranches, -1 for none
}

var seedUsers = []seedUser{
	{"admin", models.RoleAdmin, -1},
	{"hq", models.RoleHeadquarterManager, -1},
	{"manager", models.RoleBranchManager, 0},
	{"cashier", models.RoleCashier, 0},
	{"chef", models.RoleChef, 0},
}

// Seed inserts branches, menu items and staff accounts that do not exist yet.
// Running it twice leaves the database unchanged.
func Seed(db *gorm.DB, opts SeedOptions) error {
	if opts.AdminPassword == "" {
		return errors.New("seed: admin password is required")
	}
	if opts.StaffPassword == "" {
		opts.StaffPassword = opts.AdminPassword
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	return db.Transaction(func(tx *gorm.DB) error {
		branchIDs := make([]uint, len(seedBranches))
		for i, b := range seedBranches {
			branch := b
			if err := tx.Where(models.Branch{Name: b.Name}).FirstOrCreate(&branch).Error; err != nil {
				return fmt.Errorf("seed branch %s: %w", b.Name, err)
			}
			branchIDs[i] = branch.ID
		}

		for _, m := range seedMenu {
			item := m
			if err := tx.Where(models.MenuItem{Name: m.Name}).FirstOrCreate(&item).Error; err != nil {
				return fmt.Errorf("seed menu %s: %w", m.Name, err)
			}
		}

		for _, u := range seedUsers {
			var count int64
			if err := tx.Model(&models.User{}).Where("username = ?", u.username).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			password := opts.StaffPassword
			if u.role == models.RoleAdmin {
				password = opts.AdminPassword
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), opts.BcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			user := models.User{
				Username: u.username,
				Email:    u.username + "@steakz.test",
				Password: string(hash),
				Role:     u.role,
			}
			if u.branch >= 0 {
				id := branchIDs[u.branch]
				user.BranchID = &id
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
			utils.InfoLogger.WithField("username", u.username).Info("seeded user")
		}
		return nil
	})
}
