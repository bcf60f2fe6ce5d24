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

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

func (bc *BranchController) GetBranches(c *gin.Context) {
	var branches []models.Branch
	q := bc.DB.Order("name")
	if c.Query("all") != "true" {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&branches).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of branches", branches)
}

func (bc *BranchController) GetBranch(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var branch models.Branch
	if err := bc.DB.First(&branch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Abort(c, utils.CodeNotFound, "Branch not found")
			return
		}
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Branch", branch)
}

func (bc *BranchController) CreateBranch(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Address     string `json:"address"`
		City        string `json:"city"`
		District    string `json:"district"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Description string `json:"description"`
	}
	if !bindJSON(c, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.Abort(c, utils.CodeValidation, "name is required")
		return
	}

	var count int64
	bc.DB.Model(&models.Branch{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		utils.Abort(c, utils.CodeConflict, "A branch with this name already exists")
		return
	}

	branch := models.Branch{
		Name:        name,
		Address:     req.Address,
		City:        req.City,
		District:    req.District,
		Phone:       req.Phone,
		Email:       req.Email,
		Description: req.Description,
		IsActive:    true,
	}
	if err := bc.DB.Create(&branch).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Branch created", branch)
}
