package repositories

import (
	"database/sql"
	"encoding/json"
	"time"

	"reviewback/internal/platform/models"
)

type CompanyRepository struct {
	db *sql.DB
}

func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

const companyColumns = `id, domain, name, logo, general, home_page, about_page, contact_page,
	payment, available_payment_methods, short_feedbacks,
	payout_1star, payout_2star, payout_3star, payout_4star, payout_5star,
	review_from, review_limit, exclude_brands, api_mode,
	products_to_display, is_visible_limit, created_at, updated_at`

func (r *CompanyRepository) Create(company *models.Company) error {
	_, err := r.db.Exec(`
		INSERT INTO companies (`+companyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		company.ID, company.Domain, company.Name, company.Logo,
		rawOrNil(company.General), rawOrNil(company.HomePage), rawOrNil(company.AboutPage), rawOrNil(company.ContactPage),
		rawOrNil(company.Payment), marshalStrings(company.AvailablePaymentMethods), marshalStrings(company.ShortFeedbacks),
		company.Payout1Star, company.Payout2Star, company.Payout3Star, company.Payout4Star, company.Payout5Star,
		company.ReviewFrom, company.ReviewLimit, marshalStrings(company.ExcludeBrands), company.APIMode,
		company.ProductsToDisplay, company.IsVisibleLimit, company.CreatedAt, company.UpdatedAt,
	)
	return err
}

func (r *CompanyRepository) GetByID(id string) (*models.Company, error) {
	row := r.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) GetByDomain(domain string) (*models.Company, error) {
	row := r.db.QueryRow(`SELECT `+companyColumns+` FROM companies WHERE domain = ?`, domain)
	return scanCompany(row)
}

func (r *CompanyRepository) Update(company *models.Company) error {
	_, err := r.db.Exec(`
		UPDATE companies SET
			domain = ?, name = ?, logo = ?, general = ?, home_page = ?, about_page = ?, contact_page = ?,
			payment = ?, available_payment_methods = ?, short_feedbacks = ?,
			payout_1star = ?, payout_2star = ?, payout_3star = ?, payout_4star = ?, payout_5star = ?,
			review_from = ?, review_limit = ?, exclude_brands = ?, api_mode = ?,
			products_to_display = ?, is_visible_limit = ?, updated_at = ?
		WHERE id = ?
	`,
		company.Domain, company.Name, company.Logo,
		rawOrNil(company.General), rawOrNil(company.HomePage), rawOrNil(company.AboutPage), rawOrNil(company.ContactPage),
		rawOrNil(company.Payment), marshalStrings(company.AvailablePaymentMethods), marshalStrings(company.ShortFeedbacks),
		company.Payout1Star, company.Payout2Star, company.Payout3Star, company.Payout4Star, company.Payout5Star,
		company.ReviewFrom, company.ReviewLimit, marshalStrings(company.ExcludeBrands), company.APIMode,
		company.ProductsToDisplay, company.IsVisibleLimit, time.Now().Unix(), company.ID,
	)
	return err
}

func scanCompany(s interface {
	Scan(dest ...interface{}) error
}) (*models.Company, error) {
	var company models.Company
	var general, homePage, aboutPage, contactPage, payment sql.NullString
	var paymentMethods, shortFeedbacks, excludeBrands sql.NullString

	err := s.Scan(
		&company.ID, &company.Domain, &company.Name, &company.Logo,
		&general, &homePage, &aboutPage, &contactPage,
		&payment, &paymentMethods, &shortFeedbacks,
		&company.Payout1Star, &company.Payout2Star, &company.Payout3Star, &company.Payout4Star, &company.Payout5Star,
		&company.ReviewFrom, &company.ReviewLimit, &excludeBrands, &company.APIMode,
		&company.ProductsToDisplay, &company.IsVisibleLimit, &company.CreatedAt, &company.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	company.General = rawFromNull(general)
	company.HomePage = rawFromNull(homePage)
	company.AboutPage = rawFromNull(aboutPage)
	company.ContactPage = rawFromNull(contactPage)
	company.Payment = rawFromNull(payment)
	company.AvailablePaymentMethods = unmarshalStrings(paymentMethods)
	company.ShortFeedbacks = unmarshalStrings(shortFeedbacks)
	company.ExcludeBrands = unmarshalStrings(excludeBrands)

	return &company, nil
}

func rawOrNil(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func rawFromNull(ns sql.NullString) json.RawMessage {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return json.RawMessage(ns.String)
}

func marshalStrings(values []string) interface{} {
	if values == nil {
		return nil
	}
	data, _ := json.Marshal(values)
	return string(data)
}

func unmarshalStrings(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var values []string
	json.Unmarshal([]byte(ns.String), &values)
	return values
}
