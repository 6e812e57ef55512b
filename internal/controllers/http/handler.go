package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront-service/internal/cache"
	"storefront-service/internal/domain"
	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

const (
	userHeader   = "X-User-ID"
	deviceHeader = "X-Device-ID"
)

// Handler serves the storefront API. Cart requests are routed to one of
// two cart services depending on identity: authenticated sessions carry
// X-User-ID, guest sessions X-Device-ID.
type Handler struct {
	userCarts   *services.CartService
	deviceCarts *services.CartService
	checkout    *services.CheckoutService
	orders      *services.OrderService
	guests      *services.GuestAccessService
	rdb         *redis.Client
}

func NewHandler(
	userCarts *services.CartService,
	deviceCarts *services.CartService,
	checkout *services.CheckoutService,
	orders *services.OrderService,
	guests *services.GuestAccessService,
	rdb *redis.Client,
) *Handler {
	return &Handler{
		userCarts:   userCarts,
		deviceCarts: deviceCarts,
		checkout:    checkout,
		orders:      orders,
		guests:      guests,
		rdb:         rdb,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items/:productId", h.SetCartQuantity)
	r.DELETE("/cart/items/:productId", h.RemoveCartItem)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/merge", h.MergeCart)

	r.POST("/checkout", h.Checkout)
	r.POST("/orders/finalize", h.FinalizeOrder)
	r.GET("/orders", h.GetUserOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	r.POST("/guest-orders/refresh", h.RefreshGuestOrders)
}

// identity resolves the cart service and owner key for this request.
func (h *Handler) identity(c *gin.Context) (*services.CartService, string, bool) {
	if userID := c.GetHeader(userHeader); userID != "" {
		return h.userCarts, userID, true
	}
	if deviceID := c.GetHeader(deviceHeader); deviceID != "" {
		return h.deviceCarts, deviceID, true
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-User-ID or X-Device-ID header"})
	return nil, "", false
}

func cartResponse(lines []domain.CartLine) CartResponse {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartResponse{Lines: lines, Total: domain.CartTotal(lines).String()}
}

func (h *Handler) GetCart(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	lines, err := carts.List(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := domain.ProductSnapshot{Name: req.Name, Price: domain.Cents(req.Price), Image: req.Image}
	lines, err := carts.Add(c.Request.Context(), ownerID, req.ProductID, snap)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *Handler) SetCartQuantity(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return
	}
	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := carts.SetQuantity(c.Request.Context(), ownerID, productID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid productId"})
		return
	}

	lines, err := carts.Remove(c.Request.Context(), ownerID, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *Handler) ClearCart(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	if err := carts.Clear(c.Request.Context(), ownerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// MergeCart folds the device cart into the user cart after login. Both
// identity headers are required.
func (h *Handler) MergeCart(c *gin.Context) {
	userID := c.GetHeader(userHeader)
	deviceID := c.GetHeader(deviceHeader)
	if userID == "" || deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merge requires both X-User-ID and X-Device-ID headers"})
		return
	}

	lines, err := h.userCarts.MergeOnLogin(c.Request.Context(), h.deviceCarts.Repository(), deviceID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cartResponse(lines))
}

func (h *Handler) Checkout(c *gin.Context) {
	carts, ownerID, ok := h.identity(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	lines, err := carts.List(ctx, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetHeader(userHeader)
	deviceID := c.GetHeader(deviceHeader)
	result, err := h.checkout.Begin(ctx, lines, req.Contact, req.Shipping, userID, deviceID)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) || errors.Is(err, domain.ErrIncompleteIntent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, CheckoutResponse{
		PaymentURL:      result.PaymentURL,
		TransactionUUID: result.TransactionUUID,
		TotalAmount:     result.TotalAmount.String(),
	})
}

func (h *Handler) FinalizeOrder(c *gin.Context) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orders.Finalize(c.Request.Context(), req.TransactionUUID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTransactionNotFound), errors.Is(err, services.ErrIntentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrPaymentNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, FinalizeResponse{
		Order:            result.Order,
		GuestAccessToken: result.GuestAccessToken,
	})
}

func (h *Handler) GetUserOrders(c *gin.Context) {
	userID := c.GetHeader(userHeader)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing X-User-ID header"})
		return
	}

	orders, err := h.orders.GetOrdersByUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusOK, []domain.Order{})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	ctx := context.Background()
	field := c.Param("id")
	if h.rdb != nil {
		if raw, err := h.rdb.HGet(ctx, cache.CollectionKey("orders"), field).Result(); err == nil {
			var order domain.Order
			if json.Unmarshal([]byte(raw), &order) == nil {
				c.JSON(http.StatusOK, order)
				return
			}
		}
	}

	order, err := h.orders.GetOrderById(id)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if h.rdb != nil {
		if data, err := json.Marshal(order); err == nil {
			h.rdb.HSet(ctx, cache.CollectionKey("orders"), field, data)
		}
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.orders.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) RefreshGuestOrders(c *gin.Context) {
	var req GuestRefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buckets, err := h.guests.Refresh(c.Request.Context(), req.Orders)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, buckets)
}
