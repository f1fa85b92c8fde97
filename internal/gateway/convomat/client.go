package convomat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"reviewback/internal/platform/config"
)

// Gateway rejection conditions the order flow recovers from. Every other
// gateway failure propagates unchanged.
var (
	ErrInvalidOrder     = errors.New("Invalid Order ID")
	ErrIncorrectDetails = errors.New("Incorrect order details found.")
)

type Campaign struct {
	ID            int64    `json:"id"`
	CampaignName  string   `json:"campaign_name"`
	CampaignType  string   `json:"campaign_type"`
	FeedbackBonus float64  `json:"feedback_bonus"`
	AsinData      AsinData `json:"asin_data"`
}

type AsinData struct {
	ASIN     string `json:"ASIN"`
	Brand    string `json:"brand"`
	ImageURL string `json:"image_url"`
}

type OrderData struct {
	OrderID     string      `json:"order_id"`
	OrderStatus string      `json:"order_status"`
	OrderItems  []OrderItem `json:"order_items"`
}

type OrderItem struct {
	ASIN string `json:"ASIN"`
}

type AmazonProfile struct {
	UserID string `json:"user_id"`
}

type PayoutResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference,omitempty"`
	Message   string `json:"message,omitempty"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.ConvomatConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetCampaign(ctx context.Context, id int64) (*Campaign, error) {
	var campaign Campaign
	err := c.call(ctx, http.MethodGet, "/campaigns/"+strconv.FormatInt(id, 10), nil, &campaign)
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) GetCampaigns(ctx context.Context, mode, campaignType string, limit int) ([]*Campaign, error) {
	q := url.Values{}
	q.Set("mode", mode)
	q.Set("type", campaignType)
	q.Set("active", "true")
	q.Set("limit", strconv.Itoa(limit))

	var campaigns []*Campaign
	if err := c.call(ctx, http.MethodGet, "/campaigns?"+q.Encode(), nil, &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetOrder validates order ownership by the (campaign, order, email) triple.
// The two known rejection messages surface as sentinel errors.
func (c *Client) GetOrder(ctx context.Context, campaignID int64, orderID, email string) (*OrderData, error) {
	body := map[string]interface{}{
		"campaign_id": campaignID,
		"order_id":    orderID,
		"email":       email,
	}

	var order OrderData
	if err := c.call(ctx, http.MethodPost, "/orders/lookup", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetAmazonProfileByURL(ctx context.Context, profileURL string) (*AmazonProfile, error) {
	body := map[string]interface{}{"url": profileURL}

	var profile AmazonProfile
	if err := c.call(ctx, http.MethodPost, "/amazon/profile", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) SendVenmoPayout(ctx context.Context, campaignID int64, orderID, email, phoneNumber string) (*PayoutResult, error) {
	body := map[string]interface{}{
		"campaign_id":  campaignID,
		"order_id":     orderID,
		"email":        email,
		"phone_number": phoneNumber,
	}
	return c.payout(ctx, "/payouts/venmo", body)
}

func (c *Client) SendGiftCardByOrderID(ctx context.Context, campaignID int64, orderID, email, cardType string) (*PayoutResult, error) {
	body := map[string]interface{}{
		"campaign_id": campaignID,
		"order_id":    orderID,
		"by_order_id": true,
		"email":       email,
		"card_type":   cardType,
	}
	return c.payout(ctx, "/payouts/gift-card", body)
}

func (c *Client) SendPaypalPayout(ctx context.Context, campaignID int64, orderID, email string) (*PayoutResult, error) {
	body := map[string]interface{}{
		"campaign_id": campaignID,
		"order_id":    orderID,
		"email":       email,
	}
	return c.payout(ctx, "/payouts/paypal", body)
}

func (c *Client) GetEmailVerification(ctx context.Context, email string) error {
	body := map[string]interface{}{"email": email}
	return c.call(ctx, http.MethodPost, "/verification/email", body, nil)
}

// SetVerificationCode submits the customer's 2FA code for the gateway
// session ahead of a payout dispatch.
func (c *Client) SetVerificationCode(ctx context.Context, code string) error {
	body := map[string]interface{}{"code": code}
	return c.call(ctx, http.MethodPost, "/verification/code", body, nil)
}

func (c *Client) payout(ctx context.Context, path string, body map[string]interface{}) (*PayoutResult, error) {
	var result PayoutResult
	if err := c.call(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) call(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("convomat: decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		switch envelope.Message {
		case ErrInvalidOrder.Error():
			return ErrInvalidOrder
		case ErrIncorrectDetails.Error():
			return ErrIncorrectDetails
		}
		return fmt.Errorf("convomat: %s (HTTP %d)", envelope.Message, resp.StatusCode)
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("convomat: decoding payload: %w", err)
		}
	}
	return nil
}
