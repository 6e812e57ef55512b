package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Field order inside the signed messages is part of the gateway
// protocol; reordering any field invalidates the signature.
const (
	requestSignedFields  = "total_amount,transaction_uuid,product_code"
	callbackSignedFields = "transaction_code,status,total_amount,transaction_uuid,product_code"
)

// Signer computes and checks the keyed signatures exchanged with the
// payment gateway: HMAC-SHA256 over a comma-joined key=value string,
// base64 encoded.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// SignRequest signs the three fields sent with an outgoing payment
// form. Amount is the already-formatted decimal string.
func (s *Signer) SignRequest(totalAmount, transactionUUID, productCode string) string {
	payload := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)
	return s.sign(payload)
}

// SignCallback recomputes the signature over the five signed fields of
// a gateway callback, using the callback's own string values.
func (s *Signer) SignCallback(cb GatewayCallback) string {
	payload := fmt.Sprintf("transaction_code=%s,status=%s,total_amount=%s,transaction_uuid=%s,product_code=%s",
		cb.TransactionCode, cb.Status, cb.TotalAmount, cb.TransactionUUID, cb.ProductCode)
	return s.sign(payload)
}

// VerifyCallback reports whether the callback's supplied signature
// matches the recomputed one. Comparison is constant-time.
func (s *Signer) VerifyCallback(cb GatewayCallback) bool {
	expected := s.SignCallback(cb)
	return hmac.Equal([]byte(expected), []byte(cb.Signature))
}
