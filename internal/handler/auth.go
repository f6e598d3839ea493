package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": "User already registered."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email/Mobile number and password are required!"})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found! Please check your credentials."})
		case errors.Is(err, service.ErrIncorrectPassword):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Incorrect password!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
