package main

import (
	"log"
	"os"
	"time"

	httpctrl "storefront-service/internal/controllers/http"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/payment"
	"storefront-service/internal/repository/redisstore"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// The relay runs as its own process in front of the payment gateway.
// It shares the redis transaction store with the storefront server and
// keeps no other state.
func main() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     50,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	txnStore := redisstore.NewTransactionStore(redisClient)
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

	if amqpURL := os.Getenv("RABBITMQ_URL"); amqpURL != "" {
		publisher, err := rabbitmq.NewPublisher(amqpURL, "storefront.exchange")
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer publisher.Close()
		relay.SetPublisher(publisher)
	}

	handler := httpctrl.NewRelayHandler(relay, os.Getenv("CHECKOUT_FAILURE_URL"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handler.RegisterRoutes(r)

	port := os.Getenv("RELAY_PORT")
	if port == "" {
		port = "8081"
	}

	log.Printf("Starting payment relay on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("relay run: %v", err)
	}
}
