package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SpecMap holds the product_specifications column, a flat string-to-string
// document stored as JSON.
type SpecMap map[string]string

// StringList holds the offers column, a JSON array of strings.
type StringList []string

// DecodeSpecs decodes a serialized specifications column. NULL, empty, or
// malformed input decodes to an empty map, never an error.
func DecodeSpecs(raw []byte) SpecMap {
	if len(raw) == 0 {
		return SpecMap{}
	}
	var m SpecMap
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return SpecMap{}
	}
	return m
}

// DecodeOffers decodes a serialized offers column with the same tolerance
// as DecodeSpecs.
func DecodeOffers(raw []byte) StringList {
	if len(raw) == 0 {
		return StringList{}
	}
	var l StringList
	if err := json.Unmarshal(raw, &l); err != nil || l == nil {
		return StringList{}
	}
	return l
}

// Product is one row of allproducts. Rows sharing the same Name are color
// variants of one logical product; grouping is by exact name match only.
type Product struct {
	ID             int64
	Name           string
	Category       string
	Brand          string
	ColorName      string
	ActualPrice    decimal.Decimal
	StrikePrice    decimal.Decimal
	TrendingScore  int
	ViewsCount     int
	Ratings        float64
	Reviews        int
	Description    string
	InBoxContent   string
	Specifications SpecMap
	Offers         StringList
	Stocks         int
	ColorImage     string
}

// FacetRow is the brand/ratings/price projection facet derivation works on.
type FacetRow struct {
	Brand       string
	Ratings     float64
	ActualPrice decimal.Decimal
}

type User struct {
	ID           int64
	Name         string
	Email        string
	MobileNumber string
	PasswordHash string
	Street       string
	City         string
	State        string
	Zip          string
	Country      string
	ProfilePic   string
	SpDiscount   int
	CardNumber   string // AES-GCM ciphertext
	CVV          string // AES-GCM ciphertext
	ExpiryMonth  string
	ExpiryYear   string
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Order is one row of orders. Address is the raw JSON snapshot supplied at
// placement time, stored byte-for-byte. ColorName, ColorImage and Name are
// denormalized product display fields frozen at order time. Price is set by
// buy-now placement, FinalPrice by cart placement.
type Order struct {
	ID         int64
	OrderCode  string
	UserID     int64
	ProductID  int64
	Quantity   int
	Price      decimal.NullDecimal
	FinalPrice decimal.NullDecimal
	Address    string
	ColorName  string
	ColorImage string
	Name       string
	CreatedAt  time.Time
}

type WishlistEntry struct {
	ID             int64
	UserID         int64
	ProductEntryID int64
}

// OrderPlacedEvent is published after a placement commits and consumed by
// the stock worker.
type OrderPlacedEvent struct {
	EventID    string           `json:"event_id"`
	UserID     int64            `json:"user_id"`
	OrderCodes []string         `json:"order_codes"`
	Items      []OrderEventItem `json:"items"`
}

type OrderEventItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
