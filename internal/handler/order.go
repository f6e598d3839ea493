package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid order request"})
		return
	}

	code, err := h.orderService.PlaceOrder(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "orderId": code})
}

func (h *OrderHandler) PlaceCartOrders(c *gin.Context) {
	var req dto.CartOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Orders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No orders found in request"})
		return
	}

	ids, err := h.orderService.PlaceCartOrders(c.Request.Context(), req.Orders)
	if err != nil {
		if errors.Is(err, service.ErrNoOrders) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "No orders found in request"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orders placed successfully", "orderIds": ids})
}

func (h *OrderHandler) History(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid user ID"})
		return
	}

	orders, err := h.orderService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database Error"})
		return
	}

	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, items)
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	// The address snapshot is stored as raw JSON text; an empty column
	// renders as null rather than invalid JSON.
	address := json.RawMessage(o.Address)
	if len(address) == 0 {
		address = json.RawMessage("null")
	}
	return dto.OrderResponse{
		ID:         o.ID,
		OrderCode:  o.OrderCode,
		UserID:     o.UserID,
		ProductID:  o.ProductID,
		Quantity:   o.Quantity,
		Price:      o.Price,
		FinalPrice: o.FinalPrice,
		Address:    address,
		ColorName:  o.ColorName,
		ColorImage: o.ColorImage,
		Name:       o.Name,
		CreatedAt:  o.CreatedAt,
	}
}
