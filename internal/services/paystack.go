package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultPaystackBaseURL = "https://api.paystack.co"

type PaystackService struct {
	SecretKey string
	BaseURL   string
	client    *http.Client
}

// TransactionMetadata is attached on initialize and echoed back by verify.
type TransactionMetadata struct {
	UserID uint  `json:"userId"`
	PostID *uint `json:"postId,omitempty"`
}

type InitializeTransactionRequest struct {
	Email       string              `json:"email"`
	Amount      int64               `json:"amount"` // kobo
	CallbackURL string              `json:"callback_url,omitempty"`
	Metadata    TransactionMetadata `json:"metadata"`
}

type InitializePaymentResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type VerifyPaymentResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID              int64           `json:"id"`
		Status          string          `json:"status"`
		Reference       string          `json:"reference"`
		Amount          int64           `json:"amount"` // Amount in kobo (₦1 = 100 kobo)
		GatewayResponse string          `json:"gateway_response"`
		PaidAt          *string         `json:"paid_at"`
		CreatedAt       string          `json:"created_at"`
		Channel         string          `json:"channel"`
		Currency        string          `json:"currency"`
		Metadata        json.RawMessage `json:"metadata"`
		Customer        struct {
			ID           int64  `json:"id"`
			Email        string `json:"email"`
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
	} `json:"data"`
}

// NewPaystackService creates a Paystack client authenticated with secretKey.
// A nil httpClient gets a client with a 15 second timeout.
func NewPaystackService(secretKey, baseURL string, httpClient *http.Client) *PaystackService {
	if baseURL == "" {
		baseURL = DefaultPaystackBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &PaystackService{
		SecretKey: secretKey,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		client:    httpClient,
	}
}

// makeRequest makes HTTP request to Paystack API and decodes the JSON body into out
func (ps *PaystackService) makeRequest(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, ps.BaseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+ps.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ps.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	return nil
}

// InitializeTransaction opens a checkout session and returns the redirect URL in Data.AuthorizationURL
func (ps *PaystackService) InitializeTransaction(ctx context.Context, in InitializeTransactionRequest) (*InitializePaymentResponse, error) {
	var result InitializePaymentResponse
	if err := ps.makeRequest(ctx, http.MethodPost, "/transaction/initialize", in, &result); err != nil {
		return nil, err
	}

	if !result.Status {
		return nil, fmt.Errorf("paystack error: %s", result.Message)
	}

	return &result, nil
}

// VerifyTransaction fetches the authoritative state of a transaction
func (ps *PaystackService) VerifyTransaction(ctx context.Context, reference string) (*VerifyPaymentResponse, error) {
	var result VerifyPaymentResponse
	if err := ps.makeRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &result); err != nil {
		return nil, err
	}

	if !result.Status {
		return nil, fmt.Errorf("paystack error: %s", result.Message)
	}

	return &result, nil
}

// ParseMetadata reads userId/postId back out of a verify response. Paystack
// sends an empty string when no metadata was set, and ids may come back as
// numbers or numeric strings.
func ParseMetadata(raw json.RawMessage) (TransactionMetadata, error) {
	var meta TransactionMetadata

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return meta, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return meta, fmt.Errorf("invalid metadata: %w", err)
	}

	if v, ok := fields["userId"]; ok {
		id, present, err := parseID(v)
		if err != nil {
			return meta, fmt.Errorf("invalid metadata userId: %w", err)
		}
		if present {
			meta.UserID = id
		}
	}
	if v, ok := fields["postId"]; ok {
		id, present, err := parseID(v)
		if err != nil {
			return meta, fmt.Errorf("invalid metadata postId: %w", err)
		}
		if present {
			meta.PostID = &id
		}
	}

	return meta, nil
}

// parseID accepts 42, "42", null and "". The second result is false when
// the value is empty.
func parseID(raw json.RawMessage) (uint, bool, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, err
	}

	switch x := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		if x <= 0 || x != float64(uint(x)) {
			return 0, false, fmt.Errorf("%v is not a valid id", x)
		}
		return uint(x), true, nil
	case string:
		if x == "" {
			return 0, false, nil
		}
		n, err := strconv.ParseUint(x, 10, 64)
		if err != nil || n == 0 {
			return 0, false, fmt.Errorf("%q is not a valid id", x)
		}
		return uint(n), true, nil
	default:
		return 0, false, fmt.Errorf("unexpected id type %T", v)
	}
}
