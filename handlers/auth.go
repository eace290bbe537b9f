package handlers

import (
	"errors"
	"net/http"

	"barangaylink/middleware"
	"barangaylink/models"
	profileSvc "barangaylink/services/profile"
	"barangaylink/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves signup and staff sign-in.
type AuthHandler struct {
	Profiles profileSvc.ProfileService
}

func NewAuthHandler(profiles profileSvc.ProfileService) *AuthHandler {
	return &AuthHandler{Profiles: profiles}
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// SignupHandler creates a pending resident profile for the authenticated
// identity session. The profile id is the session uid.
func (h *AuthHandler) SignupHandler(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if !sess.Resolved || !sess.Authenticated {
		utils.JSONError(c, http.StatusUnauthorized, "Sign in before creating a profile", "")
		return
	}

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, fields, err := h.Profiles.Signup(c.Request.Context(), models.Profile{
		ID:       sess.UID,
		Email:    sess.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if fields != nil {
		utils.JSONFieldErrors(c, fields)
		return
	}
	if errors.Is(err, profileSvc.ErrProfileExists) {
		utils.JSONError(c, http.StatusConflict, "Profile already exists", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to create profile", err.Error())
		return
	}

	c.JSON(http.StatusCreated, created)
}

type staffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffLoginHandler exchanges admin credentials for a staff session token.
func (h *AuthHandler) StaffLoginHandler(c *gin.Context) {
	var req staffLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	token, err := h.Profiles.AuthenticateStaff(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, profileSvc.ErrInvalidCredentials) {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", "")
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Sign-in failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type fcmTokenRequest struct {
	Token string `json:"token"`
}

// UpdateFCMTokenHandler records a device push token on the profile.
func (h *AuthHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req fcmTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.JSONError(c, http.StatusBadRequest, "Missing token", "")
		return
	}
	if err := h.Profiles.UpdateFCMToken(c.Request.Context(), middleware.ProfileIDFrom(c), req.Token); err != nil {
		utils.JSONError(c, http.StatusBadGateway, "Failed to update token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
