package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"storefront-service/internal/domain"
	"storefront-service/internal/mocks"
	"storefront-service/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testProductCode = "EPAYTEST"
	testFailurePage = "https://shop.example/payment/failure"
	testSuccessPage = "https://shop.example/payment/success"
	defaultFailure  = "https://shop.example/payment/failure"
)

func newTestRelay(t *testing.T) (*Relay, *mocks.MockGateway, *memstore.TransactionStore) {
	t.Helper()
	gateway := new(mocks.MockGateway)
	txns := memstore.NewTransactionStore()
	relay := NewRelay(NewSigner(testSecret), gateway, txns, testProductCode, defaultFailure)
	return relay, gateway, txns
}

func encodeCallback(cb GatewayCallback) string {
	raw, _ := json.Marshal(cb)
	return base64.StdEncoding.EncodeToString(raw)
}

// initiateAndCallback runs a full initiate and returns a callback the
// gateway would send for it, signed with the shared secret.
func initiateAndCallback(t *testing.T, relay *Relay, gateway *mocks.MockGateway, amount domain.Cents) GatewayCallback {
	t.Helper()
	gateway.On("SubmitForm", mock.Anything, mock.Anything).Return("https://gateway.example/pay/abc", nil).Once()

	result, err := relay.Initiate(context.Background(), amount, "7", testSuccessPage, testFailurePage)
	require.NoError(t, err)

	cb := GatewayCallback{
		TransactionCode: "000AWEO",
		Status:          "COMPLETE",
		TotalAmount:     amount.String(),
		TransactionUUID: result.TransactionUUID,
		ProductCode:     testProductCode,
	}
	cb.Signature = relay.signer.SignCallback(cb)
	return cb
}

func queryParam(t *testing.T, rawURL, key string) string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query().Get(key)
}

func TestInitiate_SignsFormAndStoresTransaction(t *testing.T) {
	relay, gateway, txns := newTestRelay(t)

	var submitted url.Values
	gateway.On("SubmitForm", mock.Anything, mock.Anything).Return("https://gateway.example/pay/abc", nil).
		Run(func(args mock.Arguments) {
			submitted = args.Get(1).(url.Values)
		})

	result, err := relay.Initiate(context.Background(), domain.Cents(3697), "7", testSuccessPage, testFailurePage)
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example/pay/abc", result.PaymentURL)
	assert.NotEmpty(t, result.TransactionUUID)

	assert.Equal(t, "36.97", submitted.Get("total_amount"))
	assert.Equal(t, "0", submitted.Get("tax_amount"))
	assert.Equal(t, "0", submitted.Get("product_service_charge"))
	assert.Equal(t, "0", submitted.Get("product_delivery_charge"))
	assert.Equal(t, testProductCode, submitted.Get("product_code"))
	assert.Equal(t, result.TransactionUUID, submitted.Get("transaction_uuid"))
	assert.Equal(t, "total_amount,transaction_uuid,product_code", submitted.Get("signed_field_names"))
	expectedSig := NewSigner(testSecret).SignRequest("36.97", result.TransactionUUID, testProductCode)
	assert.Equal(t, expectedSig, submitted.Get("signature"))

	txn, err := txns.Get(context.Background(), result.TransactionUUID)
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, domain.TxnInitiated, txn.State)
	assert.Equal(t, domain.Cents(3697), txn.Amount)
	assert.Equal(t, testSuccessPage, txn.SuccessURL)
	assert.Equal(t, testFailurePage, txn.FailureURL)
}

func TestInitiate_UpstreamFailure(t *testing.T) {
	relay, gateway, _ := newTestRelay(t)
	gateway.On("SubmitForm", mock.Anything, mock.Anything).Return("", errors.New("connection refused"))

	result, err := relay.Initiate(context.Background(), domain.Cents(1000), "", testSuccessPage, testFailurePage)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestVerify_Success(t *testing.T) {
	relay, gateway, txns := newTestRelay(t)
	cb := initiateAndCallback(t, relay, gateway, domain.Cents(3697))

	gateway.On("CheckStatus", mock.Anything, testProductCode, "36.97", cb.TransactionUUID).
		Return(StatusComplete, nil).Once()

	redirect := relay.Verify(context.Background(), encodeCallback(cb))
	assert.True(t, redirect.Succeeded)
	assert.Contains(t, redirect.URL, testSuccessPage)
	assert.Equal(t, "success", queryParam(t, redirect.URL, "status"))
	assert.Equal(t, cb.TransactionUUID, queryParam(t, redirect.URL, "transaction_uuid"))

	txn, err := txns.Get(context.Background(), cb.TransactionUUID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxnConfirmed, txn.State)
}

func TestVerify_InvalidSignature(t *testing.T) {
	relay, gateway, _ := newTestRelay(t)
	cb := initiateAndCallback(t, relay, gateway, domain.Cents(3697))
	cb.TotalAmount = "1.00" // any single mutated field breaks the signature

	redirect := relay.Verify(context.Background(), encodeCallback(cb))
	assert.False(t, redirect.Succeeded)
	assert.Contains(t, redirect.URL, testFailurePage)
	assert.Equal(t, "Invalid signature.", queryParam(t, redirect.URL, "message"))
	gateway.AssertNotCalled(t, "CheckStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// The callback's own status field is never enough; the gateway's status
// endpoint has the final word.
func TestVerify_StatusDoubleCheck(t *testing.T) {
	relay, gateway, _ := newTestRelay(t)
	cb := initiateAndCallback(t, relay, gateway, domain.Cents(3697))

	gateway.On("CheckStatus", mock.Anything, testProductCode, "36.97", cb.TransactionUUID).
		Return("PENDING", nil).Once()

	redirect := relay.Verify(context.Background(), encodeCallback(cb))
	assert.False(t, redirect.Succeeded)
	assert.Equal(t, "PENDING", queryParam(t, redirect.URL, "message"))
}

func TestVerify_StatusEndpointFailure(t *testing.T) {
	relay, gateway, _ := newTestRelay(t)
	cb := initiateAndCallback(t, relay, gateway, domain.Cents(3697))

	gateway.On("CheckStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("gateway timeout")).Once()

	redirect := relay.Verify(context.Background(), encodeCallback(cb))
	assert.False(t, redirect.Succeeded)
	assert.Equal(t, "Payment verification failed.", queryParam(t, redirect.URL, "message"))
}

func TestVerify_ReplayRejected(t *testing.T) {
	relay, gateway, _ := newTestRelay(t)
	cb := initiateAndCallback(t, relay, gateway, domain.Cents(3697))

	gateway.On("CheckStatus", mock.Anything, testProductCode, "36.97", cb.TransactionUUID).
		Return(StatusComplete, nil).Once()

	first := relay.Verify(context.Background(), encodeCallback(cb))
	assert.True(t, first.Succeeded)

	replay := relay.Verify(context.Background(), encodeCallback(cb))
	assert.False(t, replay.Succeeded)
	assert.Equal(t, "Transaction already processed.", queryParam(t, replay.URL, "message"))
	gateway.AssertNumberOfCalls(t, "CheckStatus", 1)
}

func TestVerify_UnknownTransaction(t *testing.T) {
	relay, _, _ := newTestRelay(t)

	signer := NewSigner(testSecret)
	cb := GatewayCallback{
		TransactionCode: "X",
		Status:          "COMPLETE",
		TotalAmount:     "10.00",
		TransactionUUID: "never-initiated",
		ProductCode:     testProductCode,
	}
	cb.Signature = signer.SignCallback(cb)

	redirect := relay.Verify(context.Background(), encodeCallback(cb))
	assert.False(t, redirect.Succeeded)
	assert.Contains(t, redirect.URL, defaultFailure)
	assert.Equal(t, "Unknown transaction.", queryParam(t, redirect.URL, "message"))
}

func TestVerify_MalformedData(t *testing.T) {
	relay, _, _ := newTestRelay(t)

	for _, encoded := range []string{"not-base64!!!", base64.StdEncoding.EncodeToString([]byte("{broken"))} {
		redirect := relay.Verify(context.Background(), encoded)
		assert.False(t, redirect.Succeeded)
		assert.Equal(t, "Invalid payment data.", queryParam(t, redirect.URL, "message"))
	}
}
