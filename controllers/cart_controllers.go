package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

type CartController struct {
	Carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{Carts: carts}
}

func (cc *CartController) GetCart(c *gin.Context) {
	cart, err := cc.Carts.Get(middlewares.Viewer(c).UserID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart", cart)
}

func (cc *CartController) AddItem(c *gin.Context) {
	var req struct {
		MenuItemID uint `json:"menuItemId" binding:"required"`
		Quantity   *int `json:"quantity"`
	}
	if !bindJSON(c, &req) {
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := cc.Carts.AddItem(middlewares.Viewer(c).UserID, req.MenuItemID, quantity)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item added to cart", cart)
}

func (cc *CartController) UpdateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	cart, err := cc.Carts.UpdateItem(middlewares.Viewer(c).UserID, id, *req.Quantity)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart item updated", cart)
}

func (cc *CartController) RemoveItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cart, err := cc.Carts.RemoveItem(middlewares.Viewer(c).UserID, id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", cart)
}

func (cc *CartController) Clear(c *gin.Context) {
	cart, err := cc.Carts.Clear(middlewares.Viewer(c).UserID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", cart)
}

type walkInCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type checkoutRequest struct {
	BranchID       *uint                `json:"branchId"`
	PaymentMethod  models.PaymentMethod `json:"paymentMethod"`
	WalkInCustomer *walkInCustomer      `json:"walkInCustomer"`
	Discount       float64              `json:"discount"`
	DiscountType   models.DiscountType  `json:"discountType"`
}

func (r checkoutRequest) options() services.PlaceOptions {
	opts := services.PlaceOptions{
		BranchID:      r.BranchID,
		PaymentMethod: r.PaymentMethod,
		Discount:      r.Discount,
		DiscountType:  r.DiscountType,
	}
	if r.WalkInCustomer != nil {
		opts.WalkInName = r.WalkInCustomer.Name
		opts.WalkInPhone = r.WalkInCustomer.Phone
	}
	return opts
}

func (cc *CartController) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := cc.Carts.Checkout(middlewares.Viewer(c), req.options())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}
