package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Price       *float64             `json:"price"`
	Category    *models.MenuCategory `json:"category"`
	ImageURL    *string              `json:"imageUrl"`
	IsAvailable *bool                `json:"isAvailable"`
}

func (r menuRequest) validate(creating bool) error {
	if creating && (r.Name == nil || r.Price == nil || r.Category == nil) {
		return errors.New("name, price and category are required")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Price != nil && *r.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if r.Category != nil && !r.Category.Valid() {
		return errors.New("invalid category")
	}
	return nil
}

// updates lists the columns the request sets, including false and zero values.
func (r menuRequest) updates() map[string]interface{} {
	out := map[string]interface{}{}
	if r.Name != nil {
		out["name"] = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Price != nil {
		out["price"] = *r.Price
	}
	if r.Category != nil {
		out["category"] = *r.Category
	}
	if r.ImageURL != nil {
		out["image_url"] = *r.ImageURL
	}
	if r.IsAvailable != nil {
		out["is_available"] = *r.IsAvailable
	}
	return out
}

func (mc *MenuController) GetMenu(c *gin.Context) {
	var items []models.MenuItem
	q := mc.DB.Order("category, name")
	if c.Query("available") == "true" {
		q = q.Where("is_available = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	category := models.MenuCategory(strings.ToUpper(c.Param("category")))
	if !category.Valid() {
		utils.Abort(c, utils.CodeValidation, "invalid category")
		return
	}
	var items []models.MenuItem
	if err := mc.DB.Where("category = ?", category).Order("name").Find(&items).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

func (mc *MenuController) GetMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, ok := mc.find(c, id)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item", item)
}

func (mc *MenuController) find(c *gin.Context, id uint) (*models.MenuItem, bool) {
	var item models.MenuItem
	if err := mc.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Abort(c, utils.CodeNotFound, "Menu item not found")
		} else {
			utils.RespondAppError(c, err)
		}
		return nil, false
	}
	return &item, true
}

func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req menuRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(true); err != nil {
		utils.Abort(c, utils.CodeValidation, err.Error())
		return
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(*req.Name),
		Price:       *req.Price,
		Category:    *req.Category,
		IsAvailable: true,
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		// gorm skips false on insert because the column defaults to true
		if req.IsAvailable != nil && !*req.IsAvailable {
			return tx.Model(&item).Update("is_available", false).Error
		}
		return nil
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	mc.DB.First(&item, item.ID)

	utils.InfoLogger.WithField("menu_item_id", item.ID).Info("menu item created")
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req menuRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.validate(false); err != nil {
		utils.Abort(c, utils.CodeValidation, err.Error())
		return
	}

	item, ok := mc.find(c, id)
	if !ok {
		return
	}
	if updates := req.updates(); len(updates) > 0 {
		if err := mc.DB.Model(item).Updates(updates).Error; err != nil {
			utils.RespondAppError(c, err)
			return
		}
	}
	mc.DB.First(item, id)
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem removes an item nobody has ordered yet; ordered items are
// marked unavailable instead so order history keeps its references.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, ok := mc.find(c, id)
	if !ok {
		return
	}

	var ordered int64
	if err := mc.DB.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&ordered).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if ordered > 0 {
			return tx.Model(item).Update("is_available", false).Error
		}
		return tx.Delete(item).Error
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	message := "Menu item deleted"
	if ordered > 0 {
		message = "Menu item has orders and was marked unavailable"
	}
	utils.RespondJSON(c, http.StatusOK, message, nil)
}
