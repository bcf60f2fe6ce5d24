package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/services"
	"github.com/yeremiapane/steakz-restaurant/utils"
)

type ReceiptController struct {
	Receipts *services.ReceiptService
}

func NewReceiptController(receipts *services.ReceiptService) *ReceiptController {
	return &ReceiptController{Receipts: receipts}
}

// GenerateReceipt issues the order's receipt, or returns the one already issued.
func (rc *ReceiptController) GenerateReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := rc.Receipts.Issue(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt generated", receipt)
}

func (rc *ReceiptController) DownloadPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := rc.Receipts.Existing(middlewares.Viewer(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WritePDF(&buf, receipt); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	filename := strings.ReplaceAll(receipt.ReceiptNumber, "/", "-") + ".pdf"
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
