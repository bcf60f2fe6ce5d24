package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

type OrderController struct {
	Orders   *services.OrderService
	Payments *services.PaymentService
}

func NewOrderController(orders *services.OrderService, payments *services.PaymentService) *OrderController {
	return &OrderController{Orders: orders, Payments: payments}
}

func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req struct {
		checkoutRequest
		Items []services.LineRequest `json:"items" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.Create(middlewares.Viewer(c), req.Items, req.options())
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetOrders lists orders for staff, optionally filtered by ?status=.
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.Orders.List(middlewares.Viewer(c), models.OrderStatus(c.Query("status")))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrdersByStatus(c *gin.Context) {
	status := models.OrderStatus(c.Param("status"))
	if !status.Valid() {
		utils.Abort(c, utils.CodeValidation, "invalid status")
		return
	}
	orders, err := oc.Orders.List(middlewares.Viewer(c), status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := oc.Orders.Mine(middlewares.Viewer(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	order, err := oc.Orders.UpdateStatus(middlewares.Viewer(c), id, req.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

func (oc *OrderController) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Cancel(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

func (oc *OrderController) MarkPaymentCompleted(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Payments.CompleteOrderPayment(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment completed", order)
}

// GetEvents serves order events after ?since= for clients catching up.
func (oc *OrderController) GetEvents(c *gin.Context) {
	var since uint64
	if raw := c.Query("since"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.Abort(c, utils.CodeValidation, "invalid since")
			return
		}
		since = v
	}
	events, err := oc.Orders.Events(middlewares.Viewer(c), since, queryInt(c, "limit", 0))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order events", events)
}
