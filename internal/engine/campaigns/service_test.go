package campaigns

import (
	"context"
	"testing"
	"time"

	"reviewback/internal/gateway/convomat"
	"reviewback/internal/platform/models"
)

type stubGateway struct {
	campaigns []*convomat.Campaign
	calls     int
	limit     int
}

func (g *stubGateway) GetCampaign(ctx context.Context, id int64) (*convomat.Campaign, error) {
	g.calls++
	return &convomat.Campaign{ID: id, CampaignName: "Widget"}, nil
}

func (g *stubGateway) GetCampaigns(ctx context.Context, mode, campaignType string, limit int) ([]*convomat.Campaign, error) {
	g.limit = limit
	return g.campaigns, nil
}

func TestGetCampaign_CacheHit(t *testing.T) {
	gateway := &stubGateway{}
	svc := NewService(gateway, NewCache(time.Minute))

	if _, err := svc.GetCampaign(context.Background(), 42); err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if _, err := svc.GetCampaign(context.Background(), 42); err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}

	if gateway.calls != 1 {
		t.Errorf("Expected a single gateway fetch, got %d", gateway.calls)
	}
}

func TestGetCampaign_CacheExpiry(t *testing.T) {
	gateway := &stubGateway{}
	svc := NewService(gateway, NewCache(-time.Second))

	svc.GetCampaign(context.Background(), 42)
	svc.GetCampaign(context.Background(), 42)

	if gateway.calls != 2 {
		t.Errorf("Expected expired entries to refetch, got %d calls", gateway.calls)
	}
}

func TestListForCompany_VisibleLimit(t *testing.T) {
	gateway := &stubGateway{}
	svc := NewService(gateway, NewCache(time.Minute))

	company := &models.Company{IsVisibleLimit: true, ProductsToDisplay: 3}
	if _, err := svc.ListForCompany(context.Background(), company); err != nil {
		t.Fatalf("ListForCompany failed: %v", err)
	}
	if gateway.limit != 3 {
		t.Errorf("Expected products_to_display limit, got %d", gateway.limit)
	}

	company = &models.Company{}
	if _, err := svc.ListForCompany(context.Background(), company); err != nil {
		t.Fatalf("ListForCompany failed: %v", err)
	}
	if gateway.limit != 10 {
		t.Errorf("Expected default limit 10, got %d", gateway.limit)
	}
}

func TestFilterExcludedBrands(t *testing.T) {
	goods := []*convomat.Campaign{
		{ID: 1, AsinData: convomat.AsinData{Brand: "Acme"}},
		{ID: 2, AsinData: convomat.AsinData{Brand: "Globex"}},
		{ID: 3, AsinData: convomat.AsinData{Brand: ""}},
	}

	kept := FilterExcludedBrands(goods, []string{"ACME products"})

	if len(kept) != 2 {
		t.Fatalf("Expected 2 goods kept, got %d", len(kept))
	}
	for _, good := range kept {
		if good.AsinData.Brand == "Acme" {
			t.Error("Acme must be excluded")
		}
	}
}

func TestFilterExcludedBrands_EmptyBrandAlwaysPasses(t *testing.T) {
	goods := []*convomat.Campaign{
		{ID: 1, AsinData: convomat.AsinData{Brand: ""}},
	}

	kept := FilterExcludedBrands(goods, []string{""})
	if len(kept) != 1 {
		t.Errorf("Goods without brand data must pass, got %d kept", len(kept))
	}
}
