package convomat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewback/internal/platform/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(config.ConvomatConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})
	return client, server
}

func TestGetOrder_Success(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/lookup" {
			t.Errorf("Expected /orders/lookup, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", got)
		}

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["order_id"] != "114-0001" {
			t.Errorf("Expected order_id in body, got %v", body["order_id"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"order_id":     "114-0001",
				"order_status": "Shipped",
				"order_items":  []map[string]string{{"ASIN": "B0TEST"}},
			},
		})
	})
	defer server.Close()

	order, err := client.GetOrder(context.Background(), 42, "114-0001", "buyer@example.com")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.OrderStatus != "Shipped" {
		t.Errorf("Expected Shipped, got %q", order.OrderStatus)
	}
	if len(order.OrderItems) != 1 || order.OrderItems[0].ASIN != "B0TEST" {
		t.Errorf("Expected one item with ASIN, got %v", order.OrderItems)
	}
}

func TestGetOrder_SentinelMapping(t *testing.T) {
	tests := []struct {
		message string
		want    error
	}{
		{"Invalid Order ID", ErrInvalidOrder},
		{"Incorrect order details found.", ErrIncorrectDetails},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"message": tt.message,
				})
			})
			defer server.Close()

			_, err := client.GetOrder(context.Background(), 42, "bogus", "buyer@example.com")
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected sentinel %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGetOrder_UnknownFailureIsNotSentinel(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "upstream exploded",
		})
	})
	defer server.Close()

	_, err := client.GetOrder(context.Background(), 42, "114-0001", "buyer@example.com")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if errors.Is(err, ErrInvalidOrder) || errors.Is(err, ErrIncorrectDetails) {
		t.Errorf("Generic failures must not map to rejection sentinels: %v", err)
	}
}

func TestGetCampaign(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/campaigns/42" {
			t.Errorf("Expected /campaigns/42, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":             42,
				"campaign_name":  "Widget",
				"feedback_bonus": 7.5,
				"asin_data":      map[string]string{"ASIN": "B0TEST", "brand": "Acme"},
			},
		})
	})
	defer server.Close()

	campaign, err := client.GetCampaign(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if campaign.CampaignName != "Widget" || campaign.FeedbackBonus != 7.5 {
		t.Errorf("Unexpected campaign: %+v", campaign)
	}
	if campaign.AsinData.Brand != "Acme" {
		t.Errorf("Expected brand Acme, got %q", campaign.AsinData.Brand)
	}
}

func TestSendGiftCard_PassesCardType(t *testing.T) {
	var gotCardType string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		gotCardType, _ = body["card_type"].(string)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"success": true},
		})
	})
	defer server.Close()

	result, err := client.SendGiftCardByOrderID(context.Background(), 42, "114-0001", "buyer@example.com", "VISA")
	if err != nil {
		t.Fatalf("SendGiftCardByOrderID failed: %v", err)
	}
	if !result.Success {
		t.Error("Expected success")
	}
	if gotCardType != "VISA" {
		t.Errorf("Expected card type VISA, got %q", gotCardType)
	}
}
