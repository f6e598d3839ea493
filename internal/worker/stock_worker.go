package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/voltkart/storefront-api/internal/model"
	"github.com/voltkart/storefront-api/internal/repository"
)

const (
	orderQueueName = "orders"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.dlq"
	idempotencyTTL = 24 * time.Hour
)

// StockWorker consumes order-placed events and decrements product stock in
// one transaction per event.
type StockWorker struct {
	channel     *amqp.Channel
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewStockWorker(
	ch *amqp.Channel,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	redisClient *redis.Client,
	log *slog.Logger,
) *StockWorker {
	return &StockWorker{
		channel:     ch,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares exchanges, queues, and bindings (DLX/DLQ).
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *StockWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("stock worker started")
	return nil
}

func (w *StockWorker) Stop() { close(w.done) }

func (w *StockWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderPlacedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.EventID, "user_id", event.UserID)

	// Idempotency check via Redis
	idempotencyKey := "order_event:" + event.EventID
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("event already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.decrementStocks(ctx, event.Items); err != nil {
		log.Error("decrement stocks failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("stock adjusted", "items", len(event.Items))
}

func (w *StockWorker) decrementStocks(ctx context.Context, items []model.OrderEventItem) error {
	tx, err := w.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, item := range items {
		if err = w.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
