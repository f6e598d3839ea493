package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/voltkart/storefront-api/internal/dto"
	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/repository"
)

var ErrNoOrders = errors.New("no orders in request")

type OrderService struct {
	orderRepo repository.OrderRepository
	amqpCh    *amqp.Channel
	log       *slog.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, amqpCh *amqp.Channel, log *slog.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, amqpCh: amqpCh, log: log}
}

// newOrderCode generates the human-readable tracking code: "ORD-" plus six
// random digits. No uniqueness check is made against existing codes;
// collision probability is accepted at expected scale.
func newOrderCode() string {
	return fmt.Sprintf("ORD-%d", 100000+rand.IntN(900000))
}

// PlaceOrder persists one buy-now line item and returns its generated code.
// The address arrives as a JSON document and is stored byte-for-byte as the
// row's snapshot.
func (s *OrderService) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (string, error) {
	order := &model.Order{
		OrderCode:  newOrderCode(),
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		Price:      decimal.NullDecimal{Decimal: req.Price, Valid: true},
		Address:    string(req.Address),
		ColorName:  req.ColorName,
		ColorImage: req.ColorImage,
		Name:       req.Name,
	}
	if err := s.orderRepo.Insert(ctx, order); err != nil {
		return "", fmt.Errorf("place order: %w", err)
	}

	s.publishOrderPlaced(ctx, order.UserID, []string{order.OrderCode}, []model.OrderEventItem{
		{ProductID: order.ProductID, Quantity: order.Quantity},
	})
	return order.OrderCode, nil
}

// PlaceCartOrders converts each cart line item into its own order row with
// its own generated code and commits all rows in a single transaction:
// either the whole cart is placed or nothing is. Returns the persisted row
// ids in item order.
func (s *OrderService) PlaceCartOrders(ctx context.Context, items []dto.CartOrderItem) ([]int64, error) {
	if len(items) == 0 {
		return nil, ErrNoOrders
	}

	orders := make([]*model.Order, 0, len(items))
	for _, item := range items {
		orders = append(orders, &model.Order{
			OrderCode:  newOrderCode(),
			UserID:     item.UserID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			FinalPrice: decimal.NullDecimal{Decimal: item.FinalPrice, Valid: true},
			Address:    string(item.Address),
			ColorName:  item.ColorName,
			ColorImage: item.ColorImage,
			Name:       item.Name,
		})
	}

	if err := s.orderRepo.InsertBatch(ctx, orders); err != nil {
		return nil, fmt.Errorf("place cart orders: %w", err)
	}

	ids := make([]int64, 0, len(orders))
	codes := make([]string, 0, len(orders))
	eventItems := make([]model.OrderEventItem, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		codes = append(codes, o.OrderCode)
		eventItems = append(eventItems, model.OrderEventItem{ProductID: o.ProductID, Quantity: o.Quantity})
	}

	s.publishOrderPlaced(ctx, orders[0].UserID, codes, eventItems)
	return ids, nil
}

func (s *OrderService) History(ctx context.Context, userID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// publishOrderPlaced hands the committed placement to the stock worker.
// Publish failures are logged and never fail the request.
func (s *OrderService) publishOrderPlaced(ctx context.Context, userID int64, codes []string, items []model.OrderEventItem) {
	if s.amqpCh == nil {
		return
	}

	event := model.OrderPlacedEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		OrderCodes: codes,
		Items:      items,
	}
	body, err := json.Marshal(event)
	if err != nil {
		s.log.Error("marshal order event", "error", err)
		return
	}

	err = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		s.log.Error("publish order event", "event_id", event.EventID, "error", err)
	}
}
