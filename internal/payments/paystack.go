package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackClient initializes and verifies checkout transactions.
// The caller supplies the idempotency reference (the purchase UID).
type PaystackClient struct {
	httpClient  *http.Client
	baseURL     string
	secretKey   string
	callbackURL string
}

func NewPaystackClient(secretKey, callbackURL string) *PaystackClient {
	return &PaystackClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     paystackBaseURL,
		secretKey:   secretKey,
		callbackURL: callbackURL,
	}
}

type initializeRequest struct {
	Amount      int64  `json:"amount"`
	Email       string `json:"email"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
		Reference string `json:"reference"`
	} `json:"data"`
}

// Initialize creates a checkout transaction and returns the authorization URL.
// Amount is in minor units (kobo).
func (c *PaystackClient) Initialize(ctx context.Context, amount int64, email, reference string) (string, error) {
	payload, err := json.Marshal(initializeRequest{
		Amount:      amount,
		Email:       email,
		Reference:   reference,
		CallbackURL: c.callbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	var resp initializeResponse
	if err := c.post(ctx, "/transaction/initialize", payload, &resp); err != nil {
		return "", err
	}

	if !resp.Status {
		return "", fmt.Errorf("paystack initialize rejected: %s", resp.Message)
	}

	return resp.Data.AuthorizationURL, nil
}

// Verify reports whether the transaction with the given reference is paid,
// and the settled amount in minor units
func (c *PaystackClient) Verify(ctx context.Context, reference string) (bool, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return false, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return false, 0, fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return false, 0, fmt.Errorf("paystack verify returned %d: %s", res.StatusCode, string(body))
	}

	var resp verifyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, 0, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Data.Status == "success", resp.Data.Amount, nil
}

func (c *PaystackClient) post(ctx context.Context, path string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("paystack returned %d: %s", res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
