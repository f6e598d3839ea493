package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/voltkart/storefront-api/internal/config"
	"github.com/voltkart/storefront-api/internal/crypt"
	"github.com/voltkart/storefront-api/internal/handler"
	"github.com/voltkart/storefront-api/internal/middleware"
	"github.com/voltkart/storefront-api/internal/repository"
	"github.com/voltkart/storefront-api/internal/service"
	"github.com/voltkart/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns
	if cfg.DB.CACert != "" {
		pem, err := os.ReadFile(cfg.DB.CACert)
		if err != nil {
			log.Error("read db CA certificate", "error", err)
			os.Exit(1)
		}
		roots := x509.NewCertPool()
		if !roots.AppendCertsFromPEM(pem) {
			log.Error("parse db CA certificate", "path", cfg.DB.CACert)
			os.Exit(1)
		}
		poolCfg.ConnConfig.TLSConfig = &tls.Config{RootCAs: roots, ServerName: cfg.DB.Host}
	}

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Card-field cipher
	cardCipher, err := crypt.New(cfg.Card.EncryptionKey)
	if err != nil {
		log.Error("init card cipher", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Error("create upload dir", "error", err)
		os.Exit(1)
	}

	// Repositories
	productRepo := repository.NewProductRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)

	// Services
	catalogSvc := service.NewCatalogService(productRepo, redisClient)
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	accountSvc := service.NewAccountService(userRepo, cardCipher)
	orderSvc := service.NewOrderService(orderRepo, amqpCh, log)
	wishlistSvc := service.NewWishlistService(wishlistRepo)

	// Handlers
	catalogH := handler.NewCatalogHandler(catalogSvc)
	authH := handler.NewAuthHandler(authSvc)
	accountH := handler.NewAccountHandler(accountSvc, cfg.Upload.Dir)
	orderH := handler.NewOrderHandler(orderSvc)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	stockWorker := worker.NewStockWorker(amqpCh, orderRepo, productRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.Metrics())

	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)
	router.GET("/metrics", middleware.MetricsHandler())
	router.Static("/uploads", cfg.Upload.Dir)

	router.GET("/popular-products", catalogH.Popular)
	router.GET("/category-products", catalogH.ByCategory)
	router.GET("/weekly-deals", catalogH.WeeklyDeals)
	router.GET("/filters", catalogH.Filters)
	router.GET("/filters-category-name", catalogH.FiltersCategoryName)
	router.GET("/products", catalogH.Search)
	router.GET("/products/:id", catalogH.GetByID)
	router.GET("/product-details/:id", catalogH.GetByID)
	router.GET("/product-variants/:name", catalogH.Variants)
	router.GET("/similar-products", catalogH.Similar)

	router.POST("/signup-register", authH.Register)
	router.POST("/login-user", authH.Login)

	router.POST("/shipping-address", accountH.UpdateShippingAddress)
	router.GET("/shipping-address/:userId", accountH.GetShippingAddress)
	router.GET("/users/:userId", accountH.GetProfile)
	router.PUT("/users/:userId", accountH.UpdateProfile)
	router.PUT("/users/:userId/profile_pic", accountH.UpdateProfilePic)
	router.GET("/users-email/:userId", accountH.GetEmail)
	router.POST("/card-details", accountH.SaveCardDetails)

	router.POST("/orders", orderH.PlaceOrder)
	router.POST("/orders-cart", orderH.PlaceCartOrders)
	router.GET("/orders/:userId", orderH.History)

	router.POST("/wishlist/add", wishlistH.Add)
	router.POST("/wishlist/remove", wishlistH.Remove)
	router.GET("/wishlist", wishlistH.List)
	router.GET("/wishlist/check", wishlistH.Check)

	if err := stockWorker.Start(ctx); err != nil {
		log.Error("start stock worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	stockWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
