package orders

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"reviewback/internal/gateway/convomat"
	apperrors "reviewback/internal/pkg/errors"
	"reviewback/internal/platform/database"
	"reviewback/internal/platform/models"
	"reviewback/internal/platform/repositories"
)

type fakeGateway struct {
	order        *convomat.OrderData
	orderErr     error
	campaign     *convomat.Campaign
	profile      *convomat.AmazonProfile
	payoutCalls  []string
	giftCardType string
}

func (g *fakeGateway) GetOrder(ctx context.Context, campaignID int64, orderID, email string) (*convomat.OrderData, error) {
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return g.order, nil
}

func (g *fakeGateway) GetCampaign(ctx context.Context, id int64) (*convomat.Campaign, error) {
	return g.campaign, nil
}

func (g *fakeGateway) GetAmazonProfileByURL(ctx context.Context, profileURL string) (*convomat.AmazonProfile, error) {
	return g.profile, nil
}

func (g *fakeGateway) SendVenmoPayout(ctx context.Context, campaignID int64, orderID, email, phoneNumber string) (*convomat.PayoutResult, error) {
	g.payoutCalls = append(g.payoutCalls, "venmo")
	return &convomat.PayoutResult{Success: true}, nil
}

func (g *fakeGateway) SendGiftCardByOrderID(ctx context.Context, campaignID int64, orderID, email, cardType string) (*convomat.PayoutResult, error) {
	g.payoutCalls = append(g.payoutCalls, "gift_card")
	g.giftCardType = cardType
	return &convomat.PayoutResult{Success: true}, nil
}

func (g *fakeGateway) SendPaypalPayout(ctx context.Context, campaignID int64, orderID, email string) (*convomat.PayoutResult, error) {
	g.payoutCalls = append(g.payoutCalls, "paypal")
	return &convomat.PayoutResult{Success: true}, nil
}

func (g *fakeGateway) GetEmailVerification(ctx context.Context, email string) error {
	return nil
}

func (g *fakeGateway) SetVerificationCode(ctx context.Context, code string) error {
	return nil
}

func setupOrderTest(t *testing.T) (*Service, *fakeGateway, *sql.DB, *models.Company, *models.User) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	companyRepo := repositories.NewCompanyRepository(db)
	userRepo := repositories.NewUserRepository(db)
	orderRepo := NewRepository(db)

	now := time.Now().Unix()
	company := &models.Company{
		ID:          "cmp_1",
		Domain:      "shop.example.com",
		ReviewFrom:  3,
		ReviewLimit: 5,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := companyRepo.Create(company); err != nil {
		t.Fatalf("Failed to create company: %v", err)
	}

	user := &models.User{
		ID:                "usr_1",
		CompanyID:         company.ID,
		Email:             "buyer@example.com",
		Name:              "Buyer",
		PhoneNumber:       "555-0100",
		PaymentPreference: models.PaymentPaypal,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	gateway := &fakeGateway{
		order: &convomat.OrderData{
			OrderID:     "114-0001",
			OrderStatus: "Shipped",
			OrderItems:  []convomat.OrderItem{{ASIN: "B0TEST"}},
		},
		campaign: &convomat.Campaign{
			ID:            42,
			CampaignName:  "Widget",
			FeedbackBonus: 7.5,
			AsinData:      convomat.AsinData{ASIN: "B0TEST", ImageURL: "https://img.example.com/w.png"},
		},
		profile: &convomat.AmazonProfile{},
	}

	svc := NewService(orderRepo, userRepo, companyRepo, gateway)
	return svc, gateway, db, company, user
}

func verifyTestOrder(t *testing.T, svc *Service, company *models.Company, user *models.User) *models.Order {
	t.Helper()
	order, err := svc.VerifyOrder(context.Background(), company, user.ID, 42, "114-0001")
	if err != nil {
		t.Fatalf("VerifyOrder failed: %v", err)
	}
	return order
}

func TestVerifyOrder_Idempotent(t *testing.T) {
	svc, _, db, company, user := setupOrderTest(t)

	first := verifyTestOrder(t, svc, company, user)
	second := verifyTestOrder(t, svc, company, user)

	if first.ID != second.ID {
		t.Errorf("Expected the same order row on re-verification, got %s and %s", first.ID, second.ID)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 order row, got %d", count)
	}

	if second.ProductName != "Widget" {
		t.Errorf("Expected product name from campaign, got %q", second.ProductName)
	}
	if second.AsinID == nil || *second.AsinID != "B0TEST" {
		t.Errorf("Expected asin B0TEST, got %v", second.AsinID)
	}
}

func TestVerifyOrder_GatewayRejection(t *testing.T) {
	svc, gateway, _, company, user := setupOrderTest(t)
	gateway.orderErr = convomat.ErrInvalidOrder

	_, err := svc.VerifyOrder(context.Background(), company, user.ID, 42, "bogus")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %v", err)
	}
	if appErr.Status != 400 || appErr.Code != apperrors.ErrCodeGatewayRejected {
		t.Errorf("Expected 400 GATEWAY_REJECTED, got %d %s", appErr.Status, appErr.Code)
	}
	if appErr.Message != "Invalid Order ID" {
		t.Errorf("Expected gateway message passthrough, got %q", appErr.Message)
	}
}

func TestSubmitFeedback_EligibleStaysOpen(t *testing.T) {
	svc, _, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	order, err := svc.SubmitFeedback(context.Background(), user.ID, "114-0001", []string{"fast shipping"}, 4)
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	if order.IsDone {
		t.Error("Eligible order must stay open for review")
	}
	if order.Rating != 4 {
		t.Errorf("Expected rating 4, got %d", order.Rating)
	}
}

func TestSubmitFeedback_IneligibleClosesAndFlagsVIP(t *testing.T) {
	svc, _, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	order, err := svc.SubmitFeedback(context.Background(), user.ID, "114-0001", []string{"meh"}, 2)
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	if !order.IsDone {
		t.Error("Low-rated order must close immediately")
	}
	if order.CompletedAt == nil {
		t.Error("Closed order must carry a completion timestamp")
	}

	updated, err := svc.users.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if !updated.IsVIP {
		t.Error("Customer must be flagged VIP when the order closes after feedback")
	}
}

func TestSubmitFeedback_UnknownOrder(t *testing.T) {
	svc, _, _, _, user := setupOrderTest(t)

	_, err := svc.SubmitFeedback(context.Background(), user.ID, "no-such", nil, 4)
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Status != 404 {
		t.Errorf("Expected 404, got %v", err)
	}
}

func TestPostReview_Name(t *testing.T) {
	svc, _, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	order, err := svc.PostReview(context.Background(), user.ID, "114-0001", "Jane D.")
	if err != nil {
		t.Fatalf("PostReview failed: %v", err)
	}

	if !order.HasReview {
		t.Error("Expected has_review set")
	}
	if order.ReviewerName != "Jane D." {
		t.Errorf("Expected reviewer name stored, got %q", order.ReviewerName)
	}
}

func TestPostReview_ProfileURLNotFound(t *testing.T) {
	svc, gateway, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)
	gateway.profile = &convomat.AmazonProfile{UserID: ""}

	_, err := svc.PostReview(context.Background(), user.ID, "114-0001", "https://amazon.com/profile/xyz")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %v", err)
	}
	if appErr.Status != 400 || appErr.Code != apperrors.ErrCodeGatewayRejected {
		t.Errorf("Expected 400 GATEWAY_REJECTED, got %d %s", appErr.Status, appErr.Code)
	}

	// rejection must leave the review state untouched
	order, err := svc.repo.GetByOrderID("114-0001")
	if err != nil {
		t.Fatalf("GetByOrderID failed: %v", err)
	}
	if order.HasReview {
		t.Error("Failed profile resolution must not mark the order reviewed")
	}
}

func TestPostReview_ProfileURLResolved(t *testing.T) {
	svc, gateway, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)
	gateway.profile = &convomat.AmazonProfile{UserID: "amzn-123"}

	order, err := svc.PostReview(context.Background(), user.ID, "114-0001", "https://amazon.com/profile/xyz")
	if err != nil {
		t.Fatalf("PostReview failed: %v", err)
	}
	if !order.HasReview {
		t.Error("Expected has_review set")
	}
	if order.ReviewerName != "" {
		t.Errorf("Profile-based review must not store a reviewer name, got %q", order.ReviewerName)
	}

	updated, err := svc.users.GetByID(user.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if updated.AmazonID == nil || *updated.AmazonID != "amzn-123" {
		t.Errorf("Expected amazon id linked, got %v", updated.AmazonID)
	}
}

func TestSendPayout_PaypalDispatch(t *testing.T) {
	svc, gateway, _, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	order, err := svc.SendPayout(context.Background(), user.ID, "114-0001", "123456")
	if err != nil {
		t.Fatalf("SendPayout failed: %v", err)
	}

	if len(gateway.payoutCalls) != 1 || gateway.payoutCalls[0] != "paypal" {
		t.Errorf("Expected a single paypal dispatch, got %v", gateway.payoutCalls)
	}
	if !order.IsPaid {
		t.Error("Expected order marked paid")
	}
	if order.Reward != 7.5 {
		t.Errorf("Expected reward from campaign bonus, got %v", order.Reward)
	}
	if order.OrderPaymentReference != models.PaymentPaypal {
		t.Errorf("Expected payment reference %q, got %q", models.PaymentPaypal, order.OrderPaymentReference)
	}
}

func TestSendPayout_GiftCardType(t *testing.T) {
	svc, gateway, db, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	if _, err := db.Exec(`UPDATE users SET payment_preference = ? WHERE id = ?`,
		models.PaymentMastercardGiftCard, user.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := svc.SendPayout(context.Background(), user.ID, "114-0001", "123456"); err != nil {
		t.Fatalf("SendPayout failed: %v", err)
	}

	if gateway.giftCardType != "Master Card" {
		t.Errorf("Expected Master Card gift card, got %q", gateway.giftCardType)
	}
}

func TestSendPayout_UnknownPreference(t *testing.T) {
	svc, gateway, db, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	if _, err := db.Exec(`UPDATE users SET payment_preference = 'cheque' WHERE id = ?`, user.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	_, err := svc.SendPayout(context.Background(), user.ID, "114-0001", "123456")
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %v", err)
	}
	if appErr.Status != 400 || appErr.Code != apperrors.ErrCodeInvalidInput {
		t.Errorf("Expected 400 INVALID_INPUT, got %d %s", appErr.Status, appErr.Code)
	}
	if len(gateway.payoutCalls) != 0 {
		t.Errorf("No payout channel may be called for an unknown preference, got %v", gateway.payoutCalls)
	}
}

func TestEligible_LimitBoundary(t *testing.T) {
	svc, _, db, company, user := setupOrderTest(t)
	verifyTestOrder(t, svc, company, user)

	if _, err := svc.SubmitFeedback(context.Background(), user.ID, "114-0001", nil, 5); err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}

	eligible, err := svc.Eligible(user.ID, "114-0001")
	if err != nil {
		t.Fatalf("Eligible failed: %v", err)
	}
	if !eligible {
		t.Error("Expected eligible under the company limit")
	}

	// company order volume at the limit flips eligibility off
	if _, err := db.Exec(`UPDATE companies SET review_limit = 1 WHERE id = ?`, company.ID); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	eligible, err = svc.Eligible(user.ID, "114-0001")
	if err != nil {
		t.Fatalf("Eligible failed: %v", err)
	}
	if eligible {
		t.Error("Expected ineligible once company volume reached review_limit")
	}
}
