package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/steakz-restaurant/middlewares"
	"github.com/yeremiapane/steakz-restaurant/models"
	"github.com/yeremiapane/steakz-restaurant/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenIssuer
}

func NewUserController(db *gorm.DB, tokens *utils.TokenIssuer) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Signup creates a customer account and logs it in.
func (uc *UserController) Signup(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if !bindJSON(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var count int64
	if err := uc.DB.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if count > 0 {
		utils.Abort(c, utils.CodeConflict, "Username is already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	user := models.User{
		Username: req.Username,
		Email:    strings.TrimSpace(req.Email),
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("username", user.Username).Info("new customer signed up")
	uc.respondWithToken(c, http.StatusCreated, "Signup successful", user)
}

func (uc *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	err := uc.DB.Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, err)
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		utils.Abort(c, utils.CodeUnauthorized, "Invalid username or password")
		return
	}

	utils.InfoLogger.WithField("username", user.Username).WithField("role", user.Role).Info("login successful")
	uc.respondWithToken(c, http.StatusOK, "Login successful", user)
}

func (uc *UserController) respondWithToken(c *gin.Context, status int, message string, user models.User) {
	token, err := uc.Tokens.GenerateToken(user.ID, string(user.Role), user.BranchID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if user.BranchID != nil {
		var branch models.Branch
		if uc.DB.First(&branch, *user.BranchID).Error == nil {
			user.Branch = &branch
		}
	}
	utils.RespondJSON(c, status, message, authResponse{Token: token, User: user})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	uc.Tokens.Revoke(c.GetString(middlewares.ContextToken))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) Me(c *gin.Context) {
	var user models.User
	if err := uc.DB.Preload("Branch").First(&user, middlewares.Viewer(c).UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Abort(c, utils.CodeNotFound, "User not found")
			return
		}
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Current user", user)
}
