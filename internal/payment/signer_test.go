package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSecret = "8gBm/:&EnhH.1/q"

func TestSignRequest_Deterministic(t *testing.T) {
	signer := NewSigner(testSecret)

	first := signer.SignRequest("36.97", "11f59e-c-abc1", "EPAYTEST")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, signer.SignRequest("36.97", "11f59e-c-abc1", "EPAYTEST"))
	}

	// Matches an independent HMAC over the documented message format.
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte("total_amount=36.97,transaction_uuid=11f59e-c-abc1,product_code=EPAYTEST"))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	assert.Equal(t, expected, first)
}

func TestSignRequest_DifferentInputsDiffer(t *testing.T) {
	signer := NewSigner(testSecret)
	base := signer.SignRequest("100.00", "uuid-1", "EPAYTEST")

	assert.NotEqual(t, base, signer.SignRequest("100.01", "uuid-1", "EPAYTEST"))
	assert.NotEqual(t, base, signer.SignRequest("100.00", "uuid-2", "EPAYTEST"))
	assert.NotEqual(t, base, signer.SignRequest("100.00", "uuid-1", "EPAYTESX"))
	assert.NotEqual(t, base, NewSigner("other-secret").SignRequest("100.00", "uuid-1", "EPAYTEST"))
}

func validCallback(signer *Signer) GatewayCallback {
	cb := GatewayCallback{
		TransactionCode: "000AWEO",
		Status:          "COMPLETE",
		TotalAmount:     "36.97",
		TransactionUUID: "241028-103005",
		ProductCode:     "EPAYTEST",
	}
	cb.Signature = signer.SignCallback(cb)
	return cb
}

func TestVerifyCallback_AcceptsIdenticallyComputedSignature(t *testing.T) {
	signer := NewSigner(testSecret)
	cb := validCallback(signer)
	assert.True(t, signer.VerifyCallback(cb))
}

func TestVerifyCallback_RejectsAnyFieldMutation(t *testing.T) {
	signer := NewSigner(testSecret)

	mutations := []struct {
		name   string
		mutate func(*GatewayCallback)
	}{
		{"transaction_code", func(cb *GatewayCallback) { cb.TransactionCode = "000AWEP" }},
		{"status", func(cb *GatewayCallback) { cb.Status = "COMPLETX" }},
		{"total_amount", func(cb *GatewayCallback) { cb.TotalAmount = "36.98" }},
		{"transaction_uuid", func(cb *GatewayCallback) { cb.TransactionUUID = "241028-103006" }},
		{"product_code", func(cb *GatewayCallback) { cb.ProductCode = "EPAYTESU" }},
		{"signature", func(cb *GatewayCallback) { cb.Signature = cb.Signature[:len(cb.Signature)-2] + "A=" }},
	}

	for _, tt := range mutations {
		t.Run(tt.name, func(t *testing.T) {
			cb := validCallback(signer)
			tt.mutate(&cb)
			assert.False(t, signer.VerifyCallback(cb))
		})
	}
}

func TestVerifyCallback_FieldOrderSensitive(t *testing.T) {
	signer := NewSigner(testSecret)
	cb := validCallback(signer)

	// Hand-craft a signature over the same five values joined in a
	// different order; it must not verify.
	swapped := fmt.Sprintf("status=%s,transaction_code=%s,total_amount=%s,transaction_uuid=%s,product_code=%s",
		cb.Status, cb.TransactionCode, cb.TotalAmount, cb.TransactionUUID, cb.ProductCode)
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(swapped))
	cb.Signature = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.False(t, signer.VerifyCallback(cb))
}
