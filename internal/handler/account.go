package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
	uploadDir      string
}

func NewAccountHandler(accountService *service.AccountService, uploadDir string) *AccountHandler {
	return &AccountHandler{accountService: accountService, uploadDir: uploadDir}
}

func (h *AccountHandler) UpdateShippingAddress(c *gin.Context) {
	var req dto.ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
		return
	}

	if err := h.accountService.UpdateAddress(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Address added successfully."})
}

func (h *AccountHandler) GetShippingAddress(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "User ID is required."})
		return
	}

	addr, err := h.accountService.Address(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Address not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
		return
	}
	c.JSON(http.StatusOK, addr)
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	resp, err := h.accountService.Profile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	if err := h.accountService.UpdateProfile(c.Request.Context(), userID, req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User profile updated successfully"})
}

// UpdateProfilePic stores the uploaded image in the upload directory under a
// generated name and records that name on the user row.
func (h *AccountHandler) UpdateProfilePic(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	file, err := c.FormFile("profile_pic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded."})
		return
	}

	filename := "profile-" + uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to store file"})
		return
	}

	if err := h.accountService.SetProfilePic(c.Request.Context(), userID, filename); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated successfully"})
}

func (h *AccountHandler) GetEmail(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	resp, err := h.accountService.EmailAndDiscount(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountHandler) SaveCardDetails(c *gin.Context) {
	var req dto.CardDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All card fields are required"})
		return
	}

	if err := h.accountService.SaveCard(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card details updated successfully"})
}
