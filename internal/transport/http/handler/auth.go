package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/app"
	"tripcraft/internal/model"
	"tripcraft/internal/transport/http/middleware"
	"tripcraft/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.authService.Register(app.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailExists):
			response.Detail(c, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, app.ErrInvalidInput):
			response.Detail(c, http.StatusBadRequest, err.Error())
		default:
			response.Detail(c, http.StatusInternalServerError, "register failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	token, err := h.authService.Login(app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidCredential), errors.Is(err, app.ErrInvalidInput):
			response.Unauthorized(c, "Incorrect email or password")
		default:
			response.Detail(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Unauthorized(c, response.CredentialsMessage)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

func currentUser(c *gin.Context) (*model.User, bool) {
	userAny, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := userAny.(*model.User)
	return user, ok
}
