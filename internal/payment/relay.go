package payment

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/url"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"

	"github.com/google/uuid"
)

// Relay signs outgoing payment requests and validates the gateway's
// callbacks. It holds no per-request state of its own; every round trip
// lives in a single-use transaction record so a callback can only be
// honored once.
type Relay struct {
	signer      *Signer
	gateway     GatewayAPI
	txns        repository.TransactionStore
	publisher   rabbitmq.PublisherInterface
	productCode string
	// Where to send the browser when the callback is too broken to
	// know which checkout it belonged to.
	defaultFailureURL string
}

func NewRelay(signer *Signer, gateway GatewayAPI, txns repository.TransactionStore, productCode, defaultFailureURL string) *Relay {
	return &Relay{
		signer:            signer,
		gateway:           gateway,
		txns:              txns,
		productCode:       productCode,
		defaultFailureURL: defaultFailureURL,
	}
}

func (r *Relay) SetPublisher(p rabbitmq.PublisherInterface) {
	r.publisher = p
}

type InitiateResult struct {
	PaymentURL      string
	TransactionUUID string
}

// Initiate signs a fresh transaction and forwards the payment form to
// the gateway. The returned URL is the gateway-hosted payment page. No
// retry on upstream failure; the caller surfaces the error.
func (r *Relay) Initiate(ctx context.Context, amount domain.Cents, productRef, successURL, failureURL string) (*InitiateResult, error) {
	txnUUID := uuid.NewString()
	amountStr := amount.String()
	signature := r.signer.SignRequest(amountStr, txnUUID, r.productCode)

	txn := &domain.PaymentTransaction{
		UUID:        txnUUID,
		Amount:      amount,
		ProductCode: r.productCode,
		ProductRef:  productRef,
		SuccessURL:  successURL,
		FailureURL:  failureURL,
		State:       domain.TxnInitiated,
		CreatedAt:   time.Now(),
	}
	if err := r.txns.Create(ctx, txn); err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("amount", amountStr)
	form.Set("tax_amount", "0")
	form.Set("total_amount", amountStr)
	form.Set("transaction_uuid", txnUUID)
	form.Set("product_code", r.productCode)
	form.Set("product_service_charge", "0")
	form.Set("product_delivery_charge", "0")
	form.Set("success_url", successURL)
	form.Set("failure_url", failureURL)
	form.Set("signed_field_names", requestSignedFields)
	form.Set("signature", signature)

	paymentURL, err := r.gateway.SubmitForm(ctx, form)
	if err != nil {
		return nil, err
	}

	return &InitiateResult{PaymentURL: paymentURL, TransactionUUID: txnUUID}, nil
}

// Redirect is where Verify sends the browser. Verification never
// returns an error: every outcome, including upstream failure, is a
// redirect.
type Redirect struct {
	URL       string
	Succeeded bool
}

func successRedirect(base, transactionUUID string) Redirect {
	return Redirect{
		URL:       base + "?status=success&transaction_uuid=" + url.QueryEscape(transactionUUID),
		Succeeded: true,
	}
}

func failureRedirect(base, message string) Redirect {
	return Redirect{URL: base + "?message=" + url.QueryEscape(message)}
}

// Verify decodes the gateway callback, checks its signature, claims the
// single-use transaction, and confirms the reported status against the
// gateway's own status endpoint before trusting it.
func (r *Relay) Verify(ctx context.Context, encoded string) Redirect {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return failureRedirect(r.defaultFailureURL, "Invalid payment data.")
	}

	var cb GatewayCallback
	if err := json.Unmarshal(raw, &cb); err != nil {
		return failureRedirect(r.defaultFailureURL, "Invalid payment data.")
	}

	txn, err := r.txns.Get(ctx, cb.TransactionUUID)
	if err != nil {
		log.Printf("verify: transaction lookup failed: %v", err)
		return failureRedirect(r.defaultFailureURL, "Payment verification failed.")
	}
	if txn == nil {
		return failureRedirect(r.defaultFailureURL, "Unknown transaction.")
	}

	if !r.signer.VerifyCallback(cb) {
		return failureRedirect(txn.FailureURL, "Invalid signature.")
	}

	claimed, err := r.txns.Consume(ctx, cb.TransactionUUID)
	if err != nil {
		log.Printf("verify: claim failed: %v", err)
		return failureRedirect(txn.FailureURL, "Payment verification failed.")
	}
	if !claimed {
		return failureRedirect(txn.FailureURL, "Transaction already processed.")
	}

	// The callback's own status field is never trusted on its own;
	// the gateway's status endpoint must agree.
	status, err := r.gateway.CheckStatus(ctx, cb.ProductCode, cb.TotalAmount, cb.TransactionUUID)
	if err != nil {
		log.Printf("verify: status check failed for %s: %v", cb.TransactionUUID, err)
		r.markState(ctx, cb.TransactionUUID, domain.TxnFailed)
		return failureRedirect(txn.FailureURL, "Payment verification failed.")
	}
	if status != StatusComplete {
		r.markState(ctx, cb.TransactionUUID, domain.TxnFailed)
		return failureRedirect(txn.FailureURL, status)
	}

	r.markState(ctx, cb.TransactionUUID, domain.TxnConfirmed)
	r.publishConfirmed(cb)

	return successRedirect(txn.SuccessURL, cb.TransactionUUID)
}

func (r *Relay) markState(ctx context.Context, txnUUID string, state domain.TransactionState) {
	if err := r.txns.SetState(ctx, txnUUID, state); err != nil {
		log.Printf("verify: state update failed for %s: %v", txnUUID, err)
	}
}

func (r *Relay) publishConfirmed(cb GatewayCallback) {
	if r.publisher == nil {
		return
	}
	evt := domain.PaymentConfirmedEvent{
		TransactionUUID: cb.TransactionUUID,
		TransactionCode: cb.TransactionCode,
		Amount:          cb.TotalAmount,
		ConfirmedAt:     time.Now(),
	}
	go func() {
		if err := r.publisher.Publish(context.Background(), "payment.confirmed", evt); err != nil {
			log.Printf("Failed to publish payment.confirmed: %v", err)
		}
	}()
}
