package directory

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reviewback/internal/engine/listing"
	"reviewback/internal/engine/orders"
	"reviewback/internal/gateway/convomat"
	apperrors "reviewback/internal/pkg/errors"
	"reviewback/internal/pkg/notify"
	"reviewback/internal/pkg/password"
	"reviewback/internal/platform/models"
	"reviewback/internal/platform/repositories"
)

// Listing whitelists per directory variant. Exact keys match the whole
// value, substring keys match anywhere in it.
var customerWhitelist = listing.Whitelist{
	Exact: map[string]string{
		"id":        "users.id",
		"is_active": "users.is_active",
	},
	Substring: map[string]string{
		"name":         "users.name",
		"phone_number": "users.phone_number",
		"email":        "users.email",
	},
	Search: []string{"users.name", "users.convomat_user_id"},
	Sort: map[string]string{
		"id":         "users.id",
		"name":       "users.name",
		"email":      "users.email",
		"created_at": "users.created_at",
	},
}

var adminWhitelist = listing.Whitelist{
	Exact: map[string]string{
		"id": "users.id",
	},
	Substring: map[string]string{
		"name":             "users.name",
		"convomat_user_id": "users.convomat_user_id",
		"phone_number":     "users.phone_number",
		"email":            "users.email",
		"domain":           "companies.domain",
	},
	Search: []string{"users.name", "users.convomat_user_id"},
	Sort: map[string]string{
		"id":         "users.id",
		"name":       "users.name",
		"email":      "users.email",
		"domain":     "companies.domain",
		"created_at": "users.created_at",
	},
}

type Gateway interface {
	GetAmazonProfileByURL(ctx context.Context, profileURL string) (*convomat.AmazonProfile, error)
}

type Service struct {
	users     *repositories.UserRepository
	companies *repositories.CompanyRepository
	questions *repositories.QuestionRepository
	orders    *orders.Repository
	gateway   Gateway
	notifier  notify.Notifier
}

func NewService(users *repositories.UserRepository, companies *repositories.CompanyRepository,
	questions *repositories.QuestionRepository, orderRepo *orders.Repository,
	gateway Gateway, notifier notify.Notifier) *Service {
	return &Service{
		users:     users,
		companies: companies,
		questions: questions,
		orders:    orderRepo,
		gateway:   gateway,
		notifier:  notifier,
	}
}

// ListCustomers pages through the tenant's non-admin users.
func (s *Service) ListCustomers(companyID string, query url.Values) ([]*models.User, int, error) {
	params, err := listing.ParseParams(query, customerWhitelist)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(err.Error())
	}

	base := listing.Query{
		Select: repositories.UserColumns(),
		From:   "users",
		Where:  []string{"users.is_admin = ?", "users.company_id = ?"},
		Args:   []interface{}{false, companyID},
	}

	built, err := listing.Build(base, customerWhitelist, params)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(err.Error())
	}

	return s.users.RunListing(built, false)
}

// ListAdmins pages through platform admins, enriched with each admin's
// tenant domain.
func (s *Service) ListAdmins(query url.Values) ([]*models.User, int, error) {
	params, err := listing.ParseParams(query, adminWhitelist)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(err.Error())
	}

	base := listing.Query{
		Select: repositories.UserColumns() + ", companies.domain",
		From:   "users JOIN companies ON users.company_id = companies.id",
		Where:  []string{"users.is_admin = ?"},
		Args:   []interface{}{true},
	}

	built, err := listing.Build(base, adminWhitelist, params)
	if err != nil {
		return nil, 0, apperrors.InvalidInput(err.Error())
	}

	return s.users.RunListing(built, true)
}

// CustomerDetail enriches a directory entry with registration answers and
// order activity counts.
type CustomerDetail struct {
	*models.User
	MapQuestions     []*repositories.AnsweredQuestion `json:"map_questions"`
	ProductPurchased int                              `json:"product_purchased"`
	CountFeedbacks   int                              `json:"count_feedbacks"`
}

func (s *Service) GetCustomer(actor Actor, userID string) (*CustomerDetail, error) {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return nil, err
	}

	answers, err := s.questions.ListAnswersForUser(userID)
	if err != nil {
		return nil, err
	}

	purchased, err := s.orders.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	feedbacks, err := s.orders.CountDoneByUser(userID)
	if err != nil {
		return nil, err
	}

	return &CustomerDetail{
		User:             user,
		MapQuestions:     answers,
		ProductPurchased: purchased,
		CountFeedbacks:   feedbacks,
	}, nil
}

type UpdateInput struct {
	Name              *string `json:"name"`
	Email             *string `json:"email"`
	PhoneNumber       *string `json:"phone_number"`
	PaymentPreference *string `json:"payment_preference"`
	IsActive          *bool   `json:"is_active"`
}

func (s *Service) UpdateCustomer(actor Actor, userID string, input UpdateInput) (*models.User, error) {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return nil, err
	}

	applyUpdate(user, input)
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return s.users.GetByID(userID)
}

func (s *Service) UpdateAdmin(userID string, input UpdateInput) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	applyUpdate(user, input)
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return s.users.GetByIDWithDomain(userID)
}

func (s *Service) GetAdmin(userID string) (*models.User, error) {
	user, err := s.users.GetByIDWithDomain(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

type CreateInput struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	PhoneNumber       string `json:"phone_number"`
	Password          string `json:"password"`
	PaymentPreference string `json:"payment_preference"`
}

// CreateCustomer is the admin-created-customer flow: active immediately and
// greeted with the created-by-admin template.
func (s *Service) CreateCustomer(company *models.Company, input CreateInput) (*models.User, error) {
	if err := s.ensureEmailFree(input.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:                "usr_" + uuid.NewString(),
		CompanyID:         company.ID,
		Email:             input.Email,
		Name:              input.Name,
		PhoneNumber:       input.PhoneNumber,
		PasswordHash:      string(hash),
		PaymentPreference: input.PaymentPreference,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.notifier.Send(user, notify.TemplateWelcomeCreatedByAdmin, nil)
	return user, nil
}

// CreateAdmin is the admin self-signup flow: a fresh empty Company is
// provisioned and the admin attached to it.
func (s *Service) CreateAdmin(input CreateInput) (*models.User, error) {
	if err := s.ensureEmailFree(input.Email); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	company := &models.Company{
		ID:        "cmp_" + uuid.NewString(),
		Payment:   []byte("{}"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.Create(company); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           "usr_" + uuid.NewString(),
		CompanyID:    company.ID,
		Email:        input.Email,
		Name:         input.Name,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hash),
		IsActive:     true,
		IsAdmin:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.notifier.Send(user, notify.TemplateAdminCreated, map[string]string{"password": input.Password})
	return user, nil
}

type AnswerInput struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

type RegisterInput struct {
	Name              string        `json:"name"`
	Email             string        `json:"email"`
	PhoneNumber       string        `json:"phone_number"`
	PaymentPreference string        `json:"payment_preference"`
	Answers           []AnswerInput `json:"answers"`
}

// Register is tenant self-signup. The customer starts inactive, answers the
// company's screening questions, and is activated immediately only when
// every answer grades correct. Answers resolve against soft-deleted
// questions so a stale registration form still submits cleanly.
func (s *Service) Register(company *models.Company, input RegisterInput) (*models.User, error) {
	if err := s.ensureEmailFree(input.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password.Random(10)), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:                "usr_" + uuid.NewString(),
		CompanyID:         company.ID,
		Email:             input.Email,
		Name:              input.Name,
		PhoneNumber:       input.PhoneNumber,
		PasswordHash:      string(hash),
		PaymentPreference: input.PaymentPreference,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	qualified := true
	for _, answer := range input.Answers {
		question, err := s.questions.GetWithTrashed(answer.QuestionID)
		if err != nil {
			return nil, err
		}
		if question == nil {
			return nil, apperrors.NotFound("Question not found")
		}

		correct := question.IsCorrectAnswer(answer.Answer)
		if !correct {
			qualified = false
		}

		if err := s.questions.CreateAnswer(&models.QuestionAnswer{
			ID:         "ans_" + uuid.NewString(),
			UserID:     user.ID,
			QuestionID: question.ID,
			Answer:     answer.Answer,
			IsCorrect:  correct,
			CreatedAt:  now,
		}); err != nil {
			return nil, err
		}
	}

	if qualified {
		if err := s.users.SetActive(user.ID, true); err != nil {
			return nil, err
		}
		user.IsActive = true
		s.notifier.Send(user, notify.TemplateWelcomeQualified, nil)
	} else {
		s.notifier.Send(user, notify.TemplateWelcomeNonQualified, nil)
	}

	return user, nil
}

// DeleteCustomer removes the entry; a still-inactive customer gets the
// declined-questionnaire notification first.
func (s *Service) DeleteCustomer(actor Actor, userID string) error {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return err
	}

	if !user.IsActive {
		s.notifier.Send(user, notify.TemplateDeclinedQuestionnaire, nil)
	}

	return s.users.Delete(userID)
}

func (s *Service) DeleteAdmin(userID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User not found")
	}
	return s.users.Delete(userID)
}

// ToggleBan flips the ban flag, no side validation.
func (s *Service) ToggleBan(actor Actor, userID string) (*models.User, error) {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetBanned(userID, !user.IsBanned); err != nil {
		return nil, err
	}
	return s.users.GetByID(userID)
}

// Approve transitions inactive-and-not-banned customers to active and sends
// the approval notification. Anything else is a no-op.
func (s *Service) Approve(actor Actor, userID string) (*models.User, error) {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive && !user.IsBanned {
		if err := s.users.SetActive(userID, true); err != nil {
			return nil, err
		}
		user.IsActive = true
		s.notifier.Send(user, notify.TemplateApprovedQuestionnaire, nil)
	}

	return s.users.GetByID(userID)
}

func (s *Service) ResetCustomerPassword(actor Actor, userID string) error {
	user, err := s.getTenantCustomer(actor, userID)
	if err != nil {
		return err
	}
	return s.resetPassword(user)
}

func (s *Service) ResetAdminPassword(userID string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("User not found")
	}
	return s.resetPassword(user)
}

// LinkAmazon resolves a submitted profile URL through the gateway and stores
// the external id on the user. No id in the response fails the request.
func (s *Service) LinkAmazon(ctx context.Context, userID, profileURL string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	profile, err := s.gateway.GetAmazonProfileByURL(ctx, profileURL)
	if err != nil {
		return nil, apperrors.GatewayUnavailable(err)
	}
	if profile.UserID == "" {
		return nil, apperrors.GatewayRejected("Amazon profile not found.")
	}

	if err := s.users.SetAmazonID(userID, profile.UserID); err != nil {
		return nil, err
	}
	return s.users.GetByID(userID)
}

func (s *Service) GetByID(userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

func (s *Service) resetPassword(user *models.User) error {
	plain := password.Random(20)
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.users.SetPassword(user.ID, string(hash)); err != nil {
		return err
	}

	s.notifier.Send(user, notify.TemplateChangePassword, map[string]string{"password": plain})
	return nil
}

func (s *Service) getTenantCustomer(actor Actor, userID string) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	if !CanAccess(actor, user) {
		return nil, apperrors.Forbidden("Access denied.")
	}
	return user, nil
}

func (s *Service) ensureEmailFree(email string) error {
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Conflict("User " + email + " already exists")
	}
	return nil
}

func applyUpdate(user *models.User, input UpdateInput) {
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.PaymentPreference != nil {
		user.PaymentPreference = *input.PaymentPreference
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
}
