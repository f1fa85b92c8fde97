package campaigns

import (
	"context"
	"strings"

	"reviewback/internal/gateway/convomat"
	apperrors "reviewback/internal/pkg/errors"
	"reviewback/internal/platform/models"
)

type Gateway interface {
	GetCampaign(ctx context.Context, id int64) (*convomat.Campaign, error)
	GetCampaigns(ctx context.Context, mode, campaignType string, limit int) ([]*convomat.Campaign, error)
}

type Service struct {
	gateway Gateway
	cache   *Cache
}

func NewService(gateway Gateway, cache *Cache) *Service {
	return &Service{gateway: gateway, cache: cache}
}

func (s *Service) GetCampaign(ctx context.Context, id int64) (*convomat.Campaign, error) {
	if campaign, ok := s.cache.Get(id); ok {
		return campaign, nil
	}

	campaign, err := s.gateway.GetCampaign(ctx, id)
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	s.cache.Set(id, campaign)
	return campaign, nil
}

// ListForCompany fetches the tenant's active giveaway campaigns and drops
// goods whose brand the tenant excludes.
func (s *Service) ListForCompany(ctx context.Context, company *models.Company) ([]*convomat.Campaign, error) {
	limit := 10
	if company.IsVisibleLimit && company.ProductsToDisplay > 0 {
		limit = company.ProductsToDisplay
	}

	goods, err := s.gateway.GetCampaigns(ctx, company.APIMode, "giveaway", limit)
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	if len(company.ExcludeBrands) == 0 {
		return goods, nil
	}

	return FilterExcludedBrands(goods, company.ExcludeBrands), nil
}

// FilterExcludedBrands removes goods whose brand appears inside any exclude
// entry, case-insensitively. Goods without brand data always pass.
func FilterExcludedBrands(goods []*convomat.Campaign, excludes []string) []*convomat.Campaign {
	kept := make([]*convomat.Campaign, 0, len(goods))
	for _, good := range goods {
		brand := strings.ToLower(good.AsinData.Brand)
		if brand == "" {
			kept = append(kept, good)
			continue
		}

		excluded := false
		for _, exclude := range excludes {
			if strings.Contains(strings.ToLower(exclude), brand) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, good)
		}
	}
	return kept
}
