package controllers

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/middleware"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/models"
	"github.com/Hapidzfadli/web-desa-sakerta-barat-sub000/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	NIK      string `json:"nik" binding:"required"`
}

// Register creates a WARGA account with an empty resident profile the
// user completes afterwards.
func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if !utils.ValidateNIK(req.NIK) {
		respondError(c, utils.NewValidationError("Invalid request body", "nik: must be 16 digits"))
		return
	}

	var existing int64
	ctl.DB.Model(&models.User{}).
		Where("(username = ? OR email = ?) AND delete_at IS NULL", req.Username, req.Email).
		Count(&existing)
	if existing > 0 {
		respondError(c, utils.NewConflictError("Username or email is already registered"))
		return
	}

	var nikTaken int64
	ctl.DB.Model(&models.Resident{}).
		Where("nik = ? AND delete_at IS NULL", req.NIK).
		Count(&nikTaken)
	if nikTaken > 0 {
		respondError(c, utils.NewConflictError("NIK is already registered"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	user := models.User{
		Name:     utils.SanitizeInput(req.Name),
		Username: utils.SanitizeInput(req.Username),
		Email:    req.Email,
		Password: hashed,
		Role:     models.RoleWarga,
		CreateAt: now,
		UpdateAt: now,
	}

	err = ctl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		resident := models.Resident{
			UserID:   user.UserID,
			NIK:      req.NIK,
			FullName: user.Name,
			CreateAt: now,
			UpdateAt: now,
		}
		return tx.Create(&resident).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, user)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by username or email and issues a JWT.
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	var user models.User
	if err := ctl.DB.
		Where("(username = ? OR email = ?) AND delete_at IS NULL", req.Username, req.Username).
		First(&user).Error; err != nil {
		respondError(c, utils.NewUnauthorizedError("Invalid username or password"))
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, utils.NewUnauthorizedError("Invalid username or password"))
		return
	}

	token, err := generateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// RefreshToken reissues a token for a still-valid bearer token.
func (ctl *AuthController) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := ""
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	}
	if tokenString == "" {
		respondError(c, utils.NewUnauthorizedError("Authorization header is required"))
		return
	}

	token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		respondError(c, utils.NewUnauthorizedError("Invalid or expired token"))
		return
	}
	claims, ok := token.Claims.(*middleware.Claims)
	if !ok {
		respondError(c, utils.NewUnauthorizedError("Invalid token claims"))
		return
	}

	var user models.User
	if err := ctl.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
		respondError(c, utils.NewUnauthorizedError("User not found"))
		return
	}

	fresh, err := generateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"token": fresh})
}

// GetProfile returns the caller's account with resident profile.
func (ctl *AuthController) GetProfile(c *gin.Context) {
	actor := currentActor(c)

	var user models.User
	if err := ctl.DB.
		Preload("Resident").
		Preload("Resident.Documents", "delete_at IS NULL").
		Where("user_id = ?", actor.UserID).
		First(&user).Error; err != nil {
		respondError(c, utils.NewNotFoundError("User not found"))
		return
	}

	respondData(c, http.StatusOK, user)
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	actor := currentActor(c)

	var user models.User
	if err := ctl.DB.Where("user_id = ?", actor.UserID).First(&user).Error; err != nil {
		respondError(c, utils.NewNotFoundError("User not found"))
		return
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.Password) {
		respondError(c, utils.NewUnauthorizedError("Current password is incorrect"))
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.DB.Model(&user).
		Updates(map[string]interface{}{"password": hashed, "update_at": time.Now()}).Error; err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Password changed successfully")
}

type SetPINRequest struct {
	Password string `json:"password" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

// SetPIN configures the village head's 6-digit signing PIN. The route
// is KADES-gated; the account password re-confirms the change.
func (ctl *AuthController) SetPIN(c *gin.Context) {
	var req SetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if !utils.ValidatePIN(req.PIN) {
		respondError(c, utils.NewValidationError("Invalid request body", "pin: must be 6 digits"))
		return
	}

	actor := currentActor(c)

	var user models.User
	if err := ctl.DB.Where("user_id = ?", actor.UserID).First(&user).Error; err != nil {
		respondError(c, utils.NewNotFoundError("User not found"))
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		respondError(c, utils.NewUnauthorizedError("Password is incorrect"))
		return
	}

	hashed, err := utils.HashPassword(req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.DB.Model(&user).
		Updates(map[string]interface{}{"pin_hash": hashed, "update_at": time.Now()}).Error; err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Signing PIN updated")
}

// generateToken creates a signed JWT for the user.
func generateToken(user models.User) (string, error) {
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24
	}

	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", errors.New("failed to sign token")
	}
	return signed, nil
}
