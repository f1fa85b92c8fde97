package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"reviewback/internal/gateway/convomat"
	apperrors "reviewback/internal/pkg/errors"
	"reviewback/internal/platform/models"
	"reviewback/internal/platform/repositories"
)

// Gateway is the slice of the external order API the lifecycle needs.
type Gateway interface {
	GetOrder(ctx context.Context, campaignID int64, orderID, email string) (*convomat.OrderData, error)
	GetCampaign(ctx context.Context, id int64) (*convomat.Campaign, error)
	GetAmazonProfileByURL(ctx context.Context, profileURL string) (*convomat.AmazonProfile, error)
	SendVenmoPayout(ctx context.Context, campaignID int64, orderID, email, phoneNumber string) (*convomat.PayoutResult, error)
	SendGiftCardByOrderID(ctx context.Context, campaignID int64, orderID, email, cardType string) (*convomat.PayoutResult, error)
	SendPaypalPayout(ctx context.Context, campaignID int64, orderID, email string) (*convomat.PayoutResult, error)
	GetEmailVerification(ctx context.Context, email string) error
	SetVerificationCode(ctx context.Context, code string) error
}

type Service struct {
	repo      *Repository
	users     *repositories.UserRepository
	companies *repositories.CompanyRepository
	gateway   Gateway
}

func NewService(repo *Repository, users *repositories.UserRepository, companies *repositories.CompanyRepository, gateway Gateway) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		companies: companies,
		gateway:   gateway,
	}
}

// VerifyOrder validates order ownership with the gateway and upserts the
// order keyed on (campaign_id, order_id). Verifying the same pair twice
// refreshes the row instead of duplicating it.
func (s *Service) VerifyOrder(ctx context.Context, company *models.Company, userID string, campaignID int64, orderID string) (*models.Order, error) {
	customer, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.NotFound("User not found")
	}

	orderData, err := s.gateway.GetOrder(ctx, campaignID, orderID, customer.Email)
	if err != nil {
		if errors.Is(err, convomat.ErrInvalidOrder) || errors.Is(err, convomat.ErrIncorrectDetails) {
			return nil, apperrors.GatewayRejected("Invalid Order ID")
		}
		return nil, apperrors.GatewayUnavailable(err)
	}

	campaign, err := s.gateway.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	var asinID *string
	if len(orderData.OrderItems) > 0 && orderData.OrderItems[0].ASIN != "" {
		asin := orderData.OrderItems[0].ASIN
		asinID = &asin
	}

	order := &models.Order{
		ID:           "ord_" + uuid.NewString(),
		CampaignID:   campaignID,
		OrderID:      orderData.OrderID,
		AsinID:       asinID,
		CompanyID:    company.ID,
		UserID:       userID,
		Status:       orderData.OrderStatus,
		ProductName:  campaign.CampaignName,
		ProductImage: campaign.AsinData.ImageURL,
	}

	if err := s.repo.Upsert(order); err != nil {
		return nil, err
	}

	return s.repo.GetByCampaignAndOrder(campaignID, orderData.OrderID)
}

// SubmitFeedback stores tags and rating, then re-evaluates whether the
// customer may continue to a full review. Ineligible orders go terminal
// immediately and the customer is flagged VIP.
func (s *Service) SubmitFeedback(ctx context.Context, userID, orderID string, tags []string, rating int) (*models.Order, error) {
	order, err := s.repo.GetOpen(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NotFound("Order not found")
	}

	if err := s.repo.SetFeedback(order.ID, tags, rating); err != nil {
		return nil, err
	}

	eligible, err := s.Eligible(userID, orderID)
	if err != nil {
		return nil, err
	}

	if !eligible {
		if err := s.repo.MarkDone(order.ID, time.Now().Unix()); err != nil {
			return nil, err
		}
		if err := s.users.SetVIP(userID, true); err != nil {
			return nil, err
		}
		log.Info().Str("order_id", orderID).Str("user_id", userID).Msg("order closed after feedback, customer flagged vip")
	}

	return s.repo.GetByID(order.ID)
}

// PostReview records the review author. A profile URL is resolved through
// the gateway and stored on the user; resolution failure rejects the request
// without touching has_review.
func (s *Service) PostReview(ctx context.Context, userID, orderID, reviewerName string) (*models.Order, error) {
	order, err := s.repo.GetOpenWithAsin(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NotFound("Order not found")
	}

	if strings.HasPrefix(reviewerName, "http") {
		profile, err := s.gateway.GetAmazonProfileByURL(ctx, reviewerName)
		if err != nil {
			return nil, apperrors.GatewayUnavailable(err)
		}
		if profile.UserID == "" {
			return nil, apperrors.GatewayRejected("Amazon profile not found.")
		}
		if err := s.users.SetAmazonID(userID, profile.UserID); err != nil {
			return nil, err
		}
		reviewerName = ""
	}

	if err := s.repo.MarkReviewed(order.ID, reviewerName); err != nil {
		return nil, err
	}

	return s.repo.GetByID(order.ID)
}

// SendPayout dispatches the reward through the channel selected by the
// customer's stored payment preference, then stamps the order paid.
func (s *Service) SendPayout(ctx context.Context, userID, orderID, verificationCode string) (*models.Order, error) {
	customer, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.NotFound("User not found")
	}

	order, err := s.repo.GetOpenShipped(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NotFound("Order not found")
	}

	if err := s.gateway.SetVerificationCode(ctx, verificationCode); err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	switch customer.PaymentPreference {
	case models.PaymentVenmo:
		_, err = s.gateway.SendVenmoPayout(ctx, order.CampaignID, order.OrderID, customer.Email, customer.PhoneNumber)
	case models.PaymentAmazonGiftCard:
		_, err = s.gateway.SendGiftCardByOrderID(ctx, order.CampaignID, order.OrderID, customer.Email, "Amazon")
	case models.PaymentVisaGiftCard:
		_, err = s.gateway.SendGiftCardByOrderID(ctx, order.CampaignID, order.OrderID, customer.Email, "VISA")
	case models.PaymentMastercardGiftCard:
		_, err = s.gateway.SendGiftCardByOrderID(ctx, order.CampaignID, order.OrderID, customer.Email, "Master Card")
	case models.PaymentPaypal:
		_, err = s.gateway.SendPaypalPayout(ctx, order.CampaignID, order.OrderID, customer.Email)
	default:
		return nil, apperrors.InvalidInput("Unsupported payment preference")
	}
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	campaign, err := s.gateway.GetCampaign(ctx, order.CampaignID)
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}

	if err := s.repo.MarkPaid(order.ID, campaign.FeedbackBonus, customer.PaymentPreference); err != nil {
		return nil, err
	}

	return s.repo.GetByID(order.ID)
}

// Eligible reports whether the customer may continue to a full review:
// the feedback rating meets the company threshold and the company-wide
// order count is still under its review limit.
func (s *Service) Eligible(userID, orderID string) (bool, error) {
	order, err := s.repo.GetByOrderID(orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, apperrors.NotFound("Order not found")
	}

	customer, err := s.users.GetByID(userID)
	if err != nil {
		return false, err
	}
	if customer == nil {
		return false, apperrors.NotFound("User not found")
	}

	company, err := s.companies.GetByID(customer.CompanyID)
	if err != nil {
		return false, err
	}
	if company == nil {
		return false, apperrors.NotFound("Company not found")
	}

	total, err := s.repo.CountByCompany(company.ID)
	if err != nil {
		return false, err
	}

	return order.Rating >= company.ReviewFrom && total < company.ReviewLimit, nil
}

func (s *Service) SendEmailVerification(ctx context.Context, userID string) error {
	customer, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperrors.NotFound("User not found")
	}

	if err := s.gateway.GetEmailVerification(ctx, customer.Email); err != nil {
		return apperrors.GatewayUnavailable(err)
	}
	return nil
}

func (s *Service) ListOpen(userID string) ([]*models.Order, error) {
	return s.repo.ListOpenByUser(userID)
}

func (s *Service) ListAll(userID string, sortAsc bool) ([]*models.Order, error) {
	return s.repo.ListByUser(userID, sortAsc)
}

func (s *Service) GetOpenByCampaign(campaignID int64, userID string) (*models.Order, error) {
	return s.repo.GetOpenByCampaign(campaignID, userID)
}

func (s *Service) GetOpenByOrderID(orderID, userID string) (*models.Order, error) {
	order, err := s.repo.GetOpen(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, nil
}
