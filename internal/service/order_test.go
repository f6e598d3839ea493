package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
)

type mockOrderRepo struct {
	orders []*model.Order
	nextID int64
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{nextID: 1}
}

func (m *mockOrderRepo) Insert(_ context.Context, order *model.Order) error {
	order.ID = m.nextID
	m.nextID++
	order.CreatedAt = time.Now()
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) InsertBatch(ctx context.Context, orders []*model.Order) error {
	for _, o := range orders {
		if err := m.Insert(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID int64) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) BeginTx(_ context.Context) (pgx.Tx, error) {
	return nil, nil
}

var orderCodePattern = regexp.MustCompile(`^ORD-\d{6}$`)

func TestOrderService_PlaceOrder(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil, slog.Default())

	address := json.RawMessage(`{"street":"12 Hill Rd","city":"Pune","state":"MH","zip":"411001","country":"India"}`)
	code, err := svc.PlaceOrder(context.Background(), dto.PlaceOrderRequest{
		UserID: 1, ProductID: 42, Quantity: 2,
		Price:   decimal.RequireFromString("279.99"),
		Address: address, ColorName: "Graphite", Name: "Galaxy Watch 5",
	})
	require.NoError(t, err)
	assert.Regexp(t, orderCodePattern, code)

	require.Len(t, repo.orders, 1)
	stored := repo.orders[0]
	assert.Equal(t, code, stored.OrderCode)
	assert.True(t, stored.Price.Valid)
	assert.False(t, stored.FinalPrice.Valid)
	// The address snapshot is stored byte for byte.
	assert.Equal(t, string(address), stored.Address)
}

func TestOrderService_PlaceCartOrders(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil, slog.Default())

	items := []dto.CartOrderItem{
		{UserID: 1, ProductID: 10, Quantity: 1, FinalPrice: decimal.RequireFromString("49.99")},
		{UserID: 1, ProductID: 11, Quantity: 2, FinalPrice: decimal.RequireFromString("279.99")},
		{UserID: 1, ProductID: 12, Quantity: 1, FinalPrice: decimal.RequireFromString("349.99")},
	}
	ids, err := svc.PlaceCartOrders(context.Background(), items)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	require.Len(t, repo.orders, 3)
	codes := make(map[string]bool)
	for _, o := range repo.orders {
		assert.Regexp(t, orderCodePattern, o.OrderCode)
		assert.True(t, o.FinalPrice.Valid)
		assert.False(t, o.Price.Valid)
		codes[o.OrderCode] = true
	}
	// Each line item gets its own code.
	assert.Len(t, codes, 3)
}

func TestOrderService_PlaceCartOrders_Empty(t *testing.T) {
	svc := NewOrderService(newMockOrderRepo(), nil, slog.Default())

	_, err := svc.PlaceCartOrders(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoOrders)
}

func TestOrderService_History(t *testing.T) {
	repo := newMockOrderRepo()
	svc := NewOrderService(repo, nil, slog.Default())

	_, err := svc.PlaceOrder(context.Background(), dto.PlaceOrderRequest{
		UserID: 1, ProductID: 42, Quantity: 1,
		Price: decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)

	orders, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	// A user with no orders gets an empty list, not an error.
	orders, err = svc.History(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
