package services

import (
	"errors"

	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/pricing"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

// CartService owns the one cart each user has. Every mutation bumps the
// cart's version so clients can discard responses older than what they hold.
type CartService struct {
	db     *gorm.DB
	orders *OrderService
}

func NewCartService(db *gorm.DB, orders *OrderService) *CartService {
	return &CartService{db: db, orders: orders}
}

// Get returns the user's cart, creating an empty one on first use.
func (s *CartService) Get(userID uint) (*models.Cart, error) {
	cart, err := getOrCreateCart(s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.load(cart.ID)
}

func getOrCreateCart(tx *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error
	if err != nil {
		return nil, utils.WrapAppError(utils.CodeInternal, err, "load cart")
	}
	return &cart, nil
}

func (s *CartService) load(cartID uint) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("CartItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("cart_items.id ASC")
	}).Preload("CartItems.MenuItem").First(&cart, cartID).Error
	if err != nil {
		return nil, lookup(err, "Cart")
	}
	summarize(&cart)
	return &cart, nil
}

func summarize(cart *models.Cart) {
	cart.ItemCount = 0
	for _, item := range cart.CartItems {
		cart.ItemCount += item.Quantity
	}
	cart.Total = pricing.Float(pricing.Subtotal(pricing.CartLines(cart.CartItems)))
}

func bumpVersion(tx *gorm.DB, cartID uint) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).
		UpdateColumn("version", gorm.Expr("version + ?", 1)).Error
}

// mutate runs fn against the user's cart in a transaction and bumps the version.
func (s *CartService) mutate(userID uint, fn func(tx *gorm.DB, cart *models.Cart) error) (*models.Cart, error) {
	var cartID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID
		if err := fn(tx, cart); err != nil {
			return err
		}
		return bumpVersion(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.load(cartID)
}

// AddItem adds quantity of a menu item, merging with an existing line.
func (s *CartService) AddItem(userID, menuItemID uint, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, invalid("Quantity must be at least 1")
	}
	return s.mutate(userID, func(tx *gorm.DB, cart *models.Cart) error {
		var item models.MenuItem
		if err := tx.First(&item, menuItemID).Error; err != nil {
			return lookup(err, "Menu item")
		}
		if !item.IsAvailable {
			return invalid("%s is not available", item.Name)
		}

		var line models.CartItem
		err := tx.Where("cart_id = ? AND menu_item_id = ?", cart.ID, menuItemID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartItem{CartID: cart.ID, MenuItemID: menuItemID, Quantity: quantity}
			return tx.Create(&line).Error
		case err != nil:
			return err
		}
		return tx.Model(&line).UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity)).Error
	})
}

// UpdateItem sets a line's quantity. Zero or less removes the line.
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*models.Cart, error) {
	return s.mutate(userID, func(tx *gorm.DB, cart *models.Cart) error {
		line, err := findLine(tx, cart.ID, itemID)
		if err != nil {
			return err
		}
		if quantity <= 0 {
			return tx.Delete(line).Error
		}
		return tx.Model(line).Update("quantity", quantity).Error
	})
}

func (s *CartService) RemoveItem(userID, itemID uint) (*models.Cart, error) {
	return s.mutate(userID, func(tx *gorm.DB, cart *models.Cart) error {
		line, err := findLine(tx, cart.ID, itemID)
		if err != nil {
			return err
		}
		return tx.Delete(line).Error
	})
}

func (s *CartService) Clear(userID uint) (*models.Cart, error) {
	return s.mutate(userID, func(tx *gorm.DB, cart *models.Cart) error {
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
}

// findLine loads a cart line, refusing lines of other users' carts.
func findLine(tx *gorm.DB, cartID, itemID uint) (*models.CartItem, error) {
	var line models.CartItem
	if err := tx.Where("id = ? AND cart_id = ?", itemID, cartID).First(&line).Error; err != nil {
		return nil, lookup(err, "Cart item")
	}
	return &line, nil
}

// Checkout turns the cart into one order and empties it, atomically.
func (s *CartService) Checkout(viewer models.Viewer, opts PlaceOptions) (*models.Order, error) {
	var orderID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := getOrCreateCart(tx, viewer.UserID)
		if err != nil {
			return err
		}
		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		cart.CartItems = items
		if cart.IsEmpty() {
			return invalid("Cart is empty")
		}

		lines := make([]LineRequest, 0, len(items))
		for _, item := range items {
			lines = append(lines, LineRequest{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
		}
		order, err := placeOrder(tx, viewer, lines, opts)
		if err != nil {
			return err
		}
		orderID = order.ID

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return bumpVersion(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.WithField("order_id", orderID).WithField("user_id", viewer.UserID).Info("checkout completed")
	return s.orders.load(orderID)
}
