package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"storefront-service/internal/cache"
	httpctrl "storefront-service/internal/controllers/http"
	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	mmysql "storefront-service/internal/infra/mysql"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/payment"
	mysqlrepo "storefront-service/internal/repository/mysql"
	"storefront-service/internal/repository/redisstore"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const defaultShippingSurcharge = domain.Cents(599)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "storefront.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	catalog := infra.NewCatalogClient(os.Getenv("CATALOG_URL"), os.Getenv("CATALOG_API_KEY"), 2*time.Second)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	userCartRepo := mysqlrepo.NewCartRepository(db)
	deviceCartRepo := redisstore.NewDeviceCartRepository(redisClient)
	txnStore := redisstore.NewTransactionStore(redisClient)
	intentStore := redisstore.NewIntentStore(redisClient)

	bus := cache.NewRedisBus(redisClient)

	signer := payment.NewSigner(os.Getenv("GATEWAY_SECRET"))
	gateway := payment.NewGatewayClient(
		os.Getenv("GATEWAY_FORM_URL"),
		os.Getenv("GATEWAY_STATUS_URL"),
		10*time.Second,
	)
	relay := payment.NewRelay(signer, gateway, txnStore,
		os.Getenv("GATEWAY_PRODUCT_CODE"),
		os.Getenv("CHECKOUT_FAILURE_URL"),
	)
	relay.SetPublisher(publisher)

	surcharge := defaultShippingSurcharge
	if raw := os.Getenv("SHIPPING_SURCHARGE_CENTS"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			surcharge = domain.Cents(n)
		}
	}

	userCarts := services.NewCartService(userCartRepo, catalog, bus)
	userCarts.SetRedisClient(redisClient)
	deviceCarts := services.NewCartService(deviceCartRepo, catalog, bus)
	deviceCarts.SetRedisClient(redisClient)

	checkout := services.NewCheckoutService(relay, intentStore, surcharge,
		os.Getenv("CHECKOUT_SUCCESS_URL"),
		os.Getenv("CHECKOUT_FAILURE_URL"),
	)
	orders := services.NewOrderService(orderRepo, txnStore, intentStore, userCartRepo, deviceCartRepo, publisher, bus, surcharge)
	guests := services.NewGuestAccessService(orderRepo)

	handler := httpctrl.NewHandler(userCarts, deviceCarts, checkout, orders, guests, redisClient)
	relayHandler := httpctrl.NewRelayHandler(relay, os.Getenv("CHECKOUT_FAILURE_URL"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)
	relayHandler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting storefront service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}
