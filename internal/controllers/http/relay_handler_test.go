package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"storefront-service/internal/payment"
	"storefront-service/internal/repository/memstore"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const relayFailurePage = "https://shop.example/payment/failure"

func newRelayRouter(gatewayFormURL, gatewayStatusURL string) *gin.Engine {
	signer := payment.NewSigner("test-secret")
	gateway := payment.NewGatewayClient(gatewayFormURL, gatewayStatusURL, 2*time.Second)
	relay := payment.NewRelay(signer, gateway, memstore.NewTransactionStore(), "EPAYTEST", relayFailurePage)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewRelayHandler(relay, relayFailurePage).RegisterRoutes(r)
	return r
}

func TestVerifyPayment_MissingData(t *testing.T) {
	r := newRelayRouter("http://unused", "http://unused")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/verify-payment", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(loc.String(), relayFailurePage))
	assert.Equal(t, "No payment data received.", loc.Query().Get("message"))
}

func TestInitiatePayment_ReturnsGatewayURL(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		require.NoError(t, req.ParseForm())
		assert.Equal(t, "36.97", req.PostForm.Get("total_amount"))
		assert.NotEmpty(t, req.PostForm.Get("signature"))
		w.WriteHeader(http.StatusOK)
	}))
	defer gatewaySrv.Close()

	r := newRelayRouter(gatewaySrv.URL+"/form", gatewaySrv.URL+"/status")

	body := `{"amount":36.97,"productId":7,"successUrl":"https://shop.example/ok","failureUrl":"https://shop.example/fail"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/initiate-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp InitiatePaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.PaymentURL, gatewaySrv.URL)
}

func TestInitiatePayment_UpstreamError(t *testing.T) {
	gatewaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gatewaySrv.Close()

	r := newRelayRouter(gatewaySrv.URL, gatewaySrv.URL)

	body := `{"amount":10,"successUrl":"https://shop.example/ok","failureUrl":"https://shop.example/fail"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/initiate-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestInitiatePayment_BadRequest(t *testing.T) {
	r := newRelayRouter("http://unused", "http://unused")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/initiate-payment", strings.NewReader(`{"amount":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
