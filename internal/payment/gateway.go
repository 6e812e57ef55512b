package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GatewayCallback is the payload the gateway redirects back with,
// base64-encoded in the `data` query parameter. Amounts stay strings:
// verification signs over the exact bytes the gateway sent.
type GatewayCallback struct {
	TransactionCode string `json:"transaction_code"`
	Status          string `json:"status"`
	TotalAmount     string `json:"total_amount"`
	TransactionUUID string `json:"transaction_uuid"`
	ProductCode     string `json:"product_code"`
	Signature       string `json:"signature"`
}

// StatusComplete is the only gateway status that counts as a settled
// payment.
const StatusComplete = "COMPLETE"

type GatewayAPI interface {
	SubmitForm(ctx context.Context, form url.Values) (string, error)
	CheckStatus(ctx context.Context, productCode, totalAmount, transactionUUID string) (string, error)
}

// GatewayClient talks to the external payment processor: the hosted
// form endpoint that issues payment pages, and the status endpoint the
// relay double-checks transactions against.
type GatewayClient struct {
	formURL    string
	statusURL  string
	httpClient *http.Client
}

var _ GatewayAPI = (*GatewayClient)(nil)

func NewGatewayClient(formURL, statusURL string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		formURL:   formURL,
		statusURL: statusURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SubmitForm posts the signed payment form and returns the URL of the
// gateway-hosted payment page, i.e. wherever the gateway's redirects
// land.
func (c *GatewayClient) SubmitForm(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return resp.Request.URL.String(), nil
}

// CheckStatus asks the gateway for its own record of the transaction.
func (c *GatewayClient) CheckStatus(ctx context.Context, productCode, totalAmount, transactionUUID string) (string, error) {
	q := url.Values{}
	q.Set("product_code", productCode)
	q.Set("total_amount", totalAmount)
	q.Set("transaction_uuid", transactionUUID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway status endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Status, nil
}
