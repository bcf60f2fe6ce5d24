package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
}

func NewReservationController(reservations *services.ReservationService) *ReservationController {
	return &ReservationController{Reservations: reservations}
}

func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var req services.ReservationRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.Reservations.Create(middlewares.Viewer(c), req)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", r)
}

func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	list, err := rc.Reservations.Mine(middlewares.Viewer(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

func (rc *ReservationController) GetReservations(c *gin.Context) {
	page, err := rc.Reservations.List(middlewares.Viewer(c), services.ReservationFilter{
		BranchID: queryUint(c, "branchId"),
		Status:   models.ReservationStatus(c.Query("status")),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 0),
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", page)
}

func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}
	r, err := rc.Reservations.UpdateStatus(middlewares.Viewer(c), id, req.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", r)
}

func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := rc.Reservations.Cancel(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", r)
}

func (rc *ReservationController) GetBranchOverview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := rc.Reservations.BranchOverview(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch orders and reservations", view)
}
