package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type QRRequest struct {
	Amount         json.Number `json:"amount"`
	Remarks1       string      `json:"remarks1"`
	Remarks2       string      `json:"remarks2"`
	PRN            int64       `json:"prn"`
	MerchantCode   string      `json:"merchantCode"`
	DataValidation string      `json:"dataValidation"`
	Username       string      `json:"username"`
	Password       string      `json:"password"`
}

type QRResponse struct {
	QRMessage            string `json:"qrMessage"`
	MerchantWebSocketURL string `json:"merchantWebSocketUrl"`
	Message              string `json:"message,omitempty"`
}

// Client talks to the merchant QR endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(qrURL string, timeout time.Duration) *Client {
	return &Client{
		url: qrURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) RequestQR(ctx context.Context, qr QRRequest) (*QRResponse, error) {
	body, err := json.Marshal(qr)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("qr request failed with status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var result QRResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}
