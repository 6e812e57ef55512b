package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ProductInfo is the slice of the hosted catalog row the order flow
// needs. Price is in cents.
type ProductInfo struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Image string `json:"image"`
	Stock int64  `json:"stock"`
}

// CatalogClient reads product rows from the hosted data store's REST
// surface. The store authenticates requests with a project API key.
type CatalogClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCatalogClient(baseURL, apiKey string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CatalogClient) GetProductById(ctx context.Context, id uint64) (*ProductInfo, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/%d", c.baseURL, id), nil)
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var p ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
