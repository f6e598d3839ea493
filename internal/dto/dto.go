package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltkart/storefront-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobileNumber" binding:"required,len=10,numeric"`
	Password     string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
	IsEmail    bool   `json:"isEmail"`
}

type AuthUser struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type AuthResponse struct {
	Message string   `json:"message"`
	User    AuthUser `json:"user"`
	Token   string   `json:"token"`
}

// --- Catalog ---

type ProductResponse struct {
	ID             int64            `json:"id"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Brand          string           `json:"brand"`
	ColorName      string           `json:"color_name"`
	ActualPrice    decimal.Decimal  `json:"actual_price"`
	StrikePrice    decimal.Decimal  `json:"strike_price"`
	TrendingScore  int              `json:"trending_score"`
	ViewsCount     int              `json:"views_count"`
	Ratings        float64          `json:"ratings"`
	Reviews        int              `json:"reviews"`
	Description    string           `json:"description"`
	InBoxContent   string           `json:"in_box_content"`
	Specifications model.SpecMap    `json:"product_specifications"`
	Offers         model.StringList `json:"offers"`
	Stocks         int              `json:"stocks"`
	ColorImage     string           `json:"product_color_img"`
}

type WishlistProductResponse struct {
	ProductResponse
	IsInWishlist bool `json:"isInWishlist"`
}

// FiltersResponse carries the derived facet sets: distinct brands, floored
// rating buckets, and the price breakpoints.
type FiltersResponse struct {
	Brands      []string  `json:"brands"`
	Ratings     []int     `json:"ratings"`
	PriceRanges []float64 `json:"priceRanges"`
}

type CategoryNameResponse struct {
	CategoryName *string `json:"categoryName"`
}

// --- Account ---

type ShippingAddressRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Zip     string `json:"zip" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// UpdateProfileRequest is a full-row overwrite: omitted fields are written
// as empty, so callers submit the complete merged state.
type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
	ProfilePic   string `json:"profile_pic"`
}

type UserProfileResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip"`
	Country      string `json:"country"`
	ProfilePic   string `json:"profile_pic"`
	SpDiscount   int    `json:"sp_discount"`
}

type UserEmailResponse struct {
	Email      string `json:"email"`
	SpDiscount int    `json:"sp_discount"`
}

type CardDetailsRequest struct {
	ID          int64  `json:"id" binding:"required"`
	CardNumber  string `json:"cardNumber" binding:"required"`
	ExpiryMonth string `json:"expiryMonth" binding:"required"`
	ExpiryYear  string `json:"expiryYear" binding:"required"`
	CVV         string `json:"cvv" binding:"required"`
}

// --- Orders ---

type PlaceOrderRequest struct {
	UserID     int64           `json:"userId" binding:"required"`
	ProductID  int64           `json:"productId" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	Price      decimal.Decimal `json:"price"`
	Address    json.RawMessage `json:"address"`
	ColorName  string          `json:"color_name"`
	ColorImage string          `json:"product_color_img"`
	Name       string          `json:"name"`
}

type CartOrderItem struct {
	UserID     int64           `json:"userId" binding:"required"`
	ProductID  int64           `json:"productId" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Address    json.RawMessage `json:"address"`
	ColorName  string          `json:"color_name"`
	ColorImage string          `json:"product_color_img"`
	Name       string          `json:"name"`
}

type CartOrdersRequest struct {
	Orders []CartOrderItem `json:"orders"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	OrderCode  string              `json:"order_id"`
	UserID     int64               `json:"user_id"`
	ProductID  int64               `json:"product_id"`
	Quantity   int                 `json:"quantity"`
	Price      decimal.NullDecimal `json:"price"`
	FinalPrice decimal.NullDecimal `json:"final_price"`
	Address    json.RawMessage     `json:"address"`
	ColorName  string              `json:"color_name"`
	ColorImage string              `json:"product_color_img"`
	Name       string              `json:"name"`
	CreatedAt  time.Time           `json:"created_at"`
}

// --- Wishlist ---

type WishlistRequest struct {
	ProductEntryID int64 `json:"productEntryId"`
	UserID         int64 `json:"userId"`
}

type WishlistCheckResponse struct {
	IsInWishlist bool `json:"isInWishlist"`
}
