package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/service"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) Add(c *gin.Context) {
	var req dto.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductEntryID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing productEntryId or userId"})
		return
	}

	if err := h.wishlistService.Add(c.Request.Context(), req.UserID, req.ProductEntryID); err != nil {
		if errors.Is(err, service.ErrAlreadyInWishlist) {
			c.JSON(http.StatusConflict, gin.H{"message": "Product already in wishlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product added to wishlist"})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	var req dto.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductEntryID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing productEntryId or userId"})
		return
	}

	if err := h.wishlistService.Remove(c.Request.Context(), req.UserID, req.ProductEntryID); err != nil {
		if errors.Is(err, service.ErrNotInWishlist) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found in wishlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}

func (h *WishlistHandler) List(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId"})
		return
	}

	items, err := h.wishlistService.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *WishlistHandler) Check(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId or productId"})
		return
	}
	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing userId or productId"})
		return
	}

	exists, err := h.wishlistService.Contains(c.Request.Context(), userID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, dto.WishlistCheckResponse{IsInWishlist: exists})
}
