package company

import (
	"encoding/json"

	"github.com/google/uuid"

	apperrors "reviewback/internal/pkg/errors"
	"reviewback/internal/pkg/notify"
	"reviewback/internal/platform/models"
	"reviewback/internal/platform/repositories"
)

type Service struct {
	companies *repositories.CompanyRepository
	questions *repositories.QuestionRepository
	users     *repositories.UserRepository
	notifier  notify.Notifier
}

func NewService(companies *repositories.CompanyRepository, questions *repositories.QuestionRepository,
	users *repositories.UserRepository, notifier notify.Notifier) *Service {
	return &Service{
		companies: companies,
		questions: questions,
		users:     users,
		notifier:  notifier,
	}
}

// View returns the full tenant profile with its live screening questions.
func (s *Service) View(company *models.Company) (*models.Company, error) {
	questions, err := s.questions.ListByCompany(company.ID)
	if err != nil {
		return nil, err
	}
	company.Questions = questions
	return company, nil
}

type UpdateInput struct {
	Domain                  *string          `json:"domain"`
	Name                    *string          `json:"name"`
	Logo                    *string          `json:"logo"`
	General                 json.RawMessage  `json:"general"`
	HomePage                json.RawMessage  `json:"home_page"`
	AboutPage               json.RawMessage  `json:"about_page"`
	ContactPage             json.RawMessage  `json:"contact_page"`
	Payment                 json.RawMessage  `json:"payment"`
	AvailablePaymentMethods []string         `json:"available_payment_methods"`
	ShortFeedbacks          []string         `json:"short_feedbacks"`
	Payout1Star             *float64         `json:"payout_1star"`
	Payout2Star             *float64         `json:"payout_2star"`
	Payout3Star             *float64         `json:"payout_3star"`
	Payout4Star             *float64         `json:"payout_4star"`
	Payout5Star             *float64         `json:"payout_5star"`
	ReviewFrom              *int             `json:"review_from"`
	ReviewLimit             *int             `json:"review_limit"`
	ExcludeBrands           []string         `json:"exclude_brands"`
	APIMode                 *string          `json:"api_mode"`
	ProductsToDisplay       *int             `json:"products_to_display"`
	IsVisibleLimit          *bool            `json:"is_visible_limit"`
	Questions               []*QuestionInput `json:"questions"`
}

type QuestionInput struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

// Update applies a partial profile edit. When the payload carries a
// questions array the whole set is replaced; questions are cheap to
// regenerate and nothing references them by identity across an update.
func (s *Service) Update(company *models.Company, input UpdateInput) error {
	applyUpdate(company, input)
	if err := s.companies.Update(company); err != nil {
		return err
	}

	if input.Questions != nil {
		questions := make([]*models.CompanyQuestion, 0, len(input.Questions))
		for _, q := range input.Questions {
			questions = append(questions, &models.CompanyQuestion{
				ID:            "q_" + uuid.NewString(),
				CompanyID:     company.ID,
				Question:      q.Question,
				CorrectAnswer: q.CorrectAnswer,
			})
		}
		if err := s.questions.ReplaceForCompany(company.ID, questions); err != nil {
			return err
		}
	}

	return nil
}

// PublicProfile is the branding/payment subset exposed to unauthenticated
// visitors of the tenant's funnel.
type PublicProfile struct {
	ID                      string          `json:"id"`
	Logo                    string          `json:"logo,omitempty"`
	General                 json.RawMessage `json:"general,omitempty"`
	HomePage                json.RawMessage `json:"home_page,omitempty"`
	AboutPage               json.RawMessage `json:"about_page,omitempty"`
	ContactPage             json.RawMessage `json:"contact_page,omitempty"`
	AvailablePaymentMethods []string        `json:"available_payment_methods,omitempty"`
	Payment                 json.RawMessage `json:"payment,omitempty"`
	ShortFeedbacks          []string        `json:"short_feedbacks,omitempty"`
	Payout1Star             float64         `json:"payout_1star"`
	Payout2Star             float64         `json:"payout_2star"`
	Payout3Star             float64         `json:"payout_3star"`
	Payout4Star             float64         `json:"payout_4star"`
	Payout5Star             float64         `json:"payout_5star"`
}

func (s *Service) PublicProfile(company *models.Company) *PublicProfile {
	return &PublicProfile{
		ID:                      company.ID,
		Logo:                    company.Logo,
		General:                 company.General,
		HomePage:                company.HomePage,
		AboutPage:               company.AboutPage,
		ContactPage:             company.ContactPage,
		AvailablePaymentMethods: company.AvailablePaymentMethods,
		Payment:                 company.Payment,
		ShortFeedbacks:          company.ShortFeedbacks,
		Payout1Star:             company.Payout1Star,
		Payout2Star:             company.Payout2Star,
		Payout3Star:             company.Payout3Star,
		Payout4Star:             company.Payout4Star,
		Payout5Star:             company.Payout5Star,
	}
}

// SimpleQuestion is a screening question stripped of its answer key for the
// public registration form.
type SimpleQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

func (s *Service) Questions(company *models.Company) ([]*SimpleQuestion, error) {
	questions, err := s.questions.ListByCompany(company.ID)
	if err != nil {
		return nil, err
	}

	items := make([]*SimpleQuestion, 0, len(questions))
	for _, q := range questions {
		items = append(items, &SimpleQuestion{ID: q.ID, Question: q.Question})
	}
	return items, nil
}

// SendFeedback forwards a visitor message to the platform admin.
func (s *Service) SendFeedback(company *models.Company, name, email, message string) error {
	admin, err := s.users.GetByEmail("admin@reviewback.io")
	if err != nil {
		return err
	}
	if admin == nil {
		return apperrors.NotFound("Platform admin not found")
	}

	s.notifier.Send(admin, notify.TemplateCompanyFeedback, map[string]string{
		"company": company.ID,
		"name":    name,
		"email":   email,
		"message": message,
	})
	return nil
}

func applyUpdate(company *models.Company, input UpdateInput) {
	if input.Domain != nil {
		company.Domain = *input.Domain
	}
	if input.Name != nil {
		company.Name = *input.Name
	}
	if input.Logo != nil {
		company.Logo = *input.Logo
	}
	if input.General != nil {
		company.General = input.General
	}
	if input.HomePage != nil {
		company.HomePage = input.HomePage
	}
	if input.AboutPage != nil {
		company.AboutPage = input.AboutPage
	}
	if input.ContactPage != nil {
		company.ContactPage = input.ContactPage
	}
	if input.Payment != nil {
		company.Payment = input.Payment
	}
	if input.AvailablePaymentMethods != nil {
		company.AvailablePaymentMethods = input.AvailablePaymentMethods
	}
	if input.ShortFeedbacks != nil {
		company.ShortFeedbacks = input.ShortFeedbacks
	}
	if input.Payout1Star != nil {
		company.Payout1Star = *input.Payout1Star
	}
	if input.Payout2Star != nil {
		company.Payout2Star = *input.Payout2Star
	}
	if input.Payout3Star != nil {
		company.Payout3Star = *input.Payout3Star
	}
	if input.Payout4Star != nil {
		company.Payout4Star = *input.Payout4Star
	}
	if input.Payout5Star != nil {
		company.Payout5Star = *input.Payout5Star
	}
	if input.ReviewFrom != nil {
		company.ReviewFrom = *input.ReviewFrom
	}
	if input.ReviewLimit != nil {
		company.ReviewLimit = *input.ReviewLimit
	}
	if input.ExcludeBrands != nil {
		company.ExcludeBrands = input.ExcludeBrands
	}
	if input.APIMode != nil {
		company.APIMode = *input.APIMode
	}
	if input.ProductsToDisplay != nil {
		company.ProductsToDisplay = *input.ProductsToDisplay
	}
	if input.IsVisibleLimit != nil {
		company.IsVisibleLimit = *input.IsVisibleLimit
	}
}
