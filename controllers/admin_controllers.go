package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

// AdminController serves the headquarters and branch manager dashboards.
type AdminController struct {
	Analytics *services.AnalyticsService
}

func NewAdminController(analytics *services.AnalyticsService) *AdminController {
	return &AdminController{Analytics: analytics}
}

func (ac *AdminController) GetAnalytics(c *gin.Context) {
	summary, err := ac.Analytics.Summary(middlewares.Viewer(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Analytics", summary)
}

func (ac *AdminController) GetRevenueChart(c *gin.Context) {
	summary, err := ac.Analytics.Summary(middlewares.Viewer(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.WriteRevenueChart(&buf, summary); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
