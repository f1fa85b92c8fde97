package models

import "encoding/json"

// Company is a tenant. Requests are scoped to one company via host-based
// resolution of the Domain field.
type Company struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
	Name   string `json:"name"`
	Logo   string `json:"logo,omitempty"`

	// Branding/content blobs edited by tenant admins. Opaque to the backend.
	General     json.RawMessage `json:"general,omitempty"`
	HomePage    json.RawMessage `json:"home_page,omitempty"`
	AboutPage   json.RawMessage `json:"about_page,omitempty"`
	ContactPage json.RawMessage `json:"contact_page,omitempty"`

	Payment                 json.RawMessage `json:"payment,omitempty"`
	AvailablePaymentMethods []string        `json:"available_payment_methods,omitempty"`
	ShortFeedbacks          []string        `json:"short_feedbacks,omitempty"`

	Payout1Star float64 `json:"payout_1star"`
	Payout2Star float64 `json:"payout_2star"`
	Payout3Star float64 `json:"payout_3star"`
	Payout4Star float64 `json:"payout_4star"`
	Payout5Star float64 `json:"payout_5star"`

	// ReviewFrom is the minimum feedback rating that keeps a customer
	// eligible for a full review; ReviewLimit caps total paid order volume
	// for the company.
	ReviewFrom  int `json:"review_from"`
	ReviewLimit int `json:"review_limit"`

	ExcludeBrands     []string `json:"exclude_brands,omitempty"`
	APIMode           string   `json:"api_mode"`
	ProductsToDisplay int      `json:"products_to_display"`
	IsVisibleLimit    bool     `json:"is_visible_limit"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`

	Questions []*CompanyQuestion `json:"questions,omitempty"`
}

// Payment preference values accepted on a User.
const (
	PaymentVenmo              = "venmo"
	PaymentAmazonGiftCard     = "amazon_gift_card"
	PaymentVisaGiftCard       = "visa_gift_card"
	PaymentMastercardGiftCard = "mastercard_gift_card"
	PaymentPaypal             = "paypal"
)

type User struct {
	ID                string  `json:"id"`
	CompanyID         string  `json:"company_id"`
	Email             string  `json:"email"`
	Name              string  `json:"name"`
	PhoneNumber       string  `json:"phone_number,omitempty"`
	PasswordHash      string  `json:"-"`
	ConvomatUserID    string  `json:"convomat_user_id,omitempty"`
	AmazonID          *string `json:"amazon_id,omitempty"`
	PaymentPreference string  `json:"payment_preference,omitempty"`
	IsAdmin           bool    `json:"is_admin"`
	IsSuperAdmin      bool    `json:"is_super_admin"`
	IsActive          bool    `json:"is_active"`
	IsBanned          bool    `json:"is_banned"`
	IsVIP             bool    `json:"is_vip"`
	CreatedAt         int64   `json:"created_at"`
	UpdatedAt         int64   `json:"updated_at"`

	// Domain is populated on admin listings joined against companies.
	Domain string `json:"domain,omitempty"`
}

// CompanyQuestion is a screening question shown at registration. Soft
// deleted so answers keep resolving after a question is removed.
type CompanyQuestion struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	DeletedAt     *int64 `json:"deleted_at,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

// IsCorrectAnswer grades a submitted answer. Empty CorrectAnswer means the
// question is informational and any answer qualifies.
func (q *CompanyQuestion) IsCorrectAnswer(answer string) bool {
	if q.CorrectAnswer == "" {
		return true
	}
	return q.CorrectAnswer == answer
}

// QuestionAnswer records a submitted answer with its correctness at
// submission time. Immutable once created.
type QuestionAnswer struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"is_correct"`
	CreatedAt  int64  `json:"created_at"`
}

// Order tracks a customer's purchase-to-payout journey for one campaign.
// (campaign_id, order_id) is unique; verification upserts on that pair.
type Order struct {
	ID                    string   `json:"id"`
	CampaignID            int64    `json:"campaign_id"`
	OrderID               string   `json:"order_id"`
	AsinID                *string  `json:"asin_id,omitempty"`
	CompanyID             string   `json:"company_id"`
	UserID                string   `json:"user_id"`
	Status                string   `json:"status"`
	Rating                int      `json:"rating"`
	Tags                  []string `json:"tags,omitempty"`
	ReviewerName          string   `json:"reviewer_name,omitempty"`
	Reward                float64  `json:"reward"`
	OrderPaymentReference string   `json:"order_payment_reference,omitempty"`
	ProductName           string   `json:"product_name,omitempty"`
	ProductImage          string   `json:"product_image,omitempty"`
	HasReview             bool     `json:"has_review"`
	IsDone                bool     `json:"is_done"`
	IsPaid                bool     `json:"is_paid"`
	CompletedAt           *int64   `json:"completed_at,omitempty"`
	CreatedAt             int64    `json:"created_at"`
	UpdatedAt             int64    `json:"updated_at"`
}
