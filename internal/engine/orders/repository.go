package orders

import (
	"database/sql"
	"encoding/json"
	"time"

	"reviewback/internal/platform/models"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const orderColumns = `id, campaign_id, order_id, asin_id, company_id, user_id, status, rating, tags,
	reviewer_name, reward, order_payment_reference, product_name, product_image,
	has_review, is_done, is_paid, completed_at, created_at, updated_at`

// Upsert creates or refreshes the order keyed by (campaign_id, order_id).
// Concurrent verifications for the same pair are serialized by the unique
// index, not by application locking.
func (r *Repository) Upsert(order *models.Order) error {
	now := time.Now().Unix()
	_, err := r.db.Exec(`
		INSERT INTO orders (id, campaign_id, order_id, asin_id, company_id, user_id, status,
			product_name, product_image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(campaign_id, order_id) DO UPDATE SET
			status = excluded.status,
			asin_id = excluded.asin_id,
			company_id = excluded.company_id,
			user_id = excluded.user_id,
			product_name = excluded.product_name,
			product_image = excluded.product_image,
			updated_at = excluded.updated_at
	`, order.ID, order.CampaignID, order.OrderID, order.AsinID, order.CompanyID, order.UserID,
		order.Status, order.ProductName, order.ProductImage, now, now)
	return err
}

func (r *Repository) GetByID(id string) (*models.Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

func (r *Repository) GetByCampaignAndOrder(campaignID int64, orderID string) (*models.Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE campaign_id = ? AND order_id = ?`,
		campaignID, orderID)
	return scanOrder(row)
}

func (r *Repository) GetByOrderID(orderID string) (*models.Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID)
	return scanOrder(row)
}

// GetOpen finds the customer's order that has not been reviewed and is not
// terminal yet.
func (r *Repository) GetOpen(orderID, userID string) (*models.Order, error) {
	row := r.db.QueryRow(`
		SELECT `+orderColumns+` FROM orders
		WHERE order_id = ? AND user_id = ? AND has_review = 0 AND is_done = 0
	`, orderID, userID)
	return scanOrder(row)
}

// GetOpenWithAsin additionally requires a resolved product identifier, the
// precondition for posting a review.
func (r *Repository) GetOpenWithAsin(orderID, userID string) (*models.Order, error) {
	row := r.db.QueryRow(`
		SELECT `+orderColumns+` FROM orders
		WHERE order_id = ? AND user_id = ? AND has_review = 0 AND is_done = 0 AND asin_id IS NOT NULL
	`, orderID, userID)
	return scanOrder(row)
}

// GetOpenShipped is the payout precondition: shipped, unreviewed, not done.
func (r *Repository) GetOpenShipped(orderID, userID string) (*models.Order, error) {
	row := r.db.QueryRow(`
		SELECT `+orderColumns+` FROM orders
		WHERE order_id = ? AND user_id = ? AND status = 'Shipped' AND has_review = 0 AND is_done = 0
	`, orderID, userID)
	return scanOrder(row)
}

func (r *Repository) GetOpenByCampaign(campaignID int64, userID string) (*models.Order, error) {
	row := r.db.QueryRow(`
		SELECT `+orderColumns+` FROM orders
		WHERE campaign_id = ? AND user_id = ? AND has_review = 0 AND is_done = 0
	`, campaignID, userID)
	return scanOrder(row)
}

func (r *Repository) ListOpenByUser(userID string) ([]*models.Order, error) {
	return r.list(`
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = ? AND has_review = 0 AND is_done = 0
		ORDER BY id DESC
	`, userID)
}

func (r *Repository) ListByUser(userID string, asc bool) ([]*models.Order, error) {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	return r.list(`
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = ?
		ORDER BY created_at `+dir, userID)
}

// CountByCompany counts every order ever created for a tenant. This feeds
// the review_limit throttle, which caps total company order volume rather
// than per-customer activity.
func (r *Repository) CountByCompany(companyID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE company_id = ?`, companyID).Scan(&count)
	return count, err
}

func (r *Repository) CountDoneByUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE user_id = ? AND is_done = 1`, userID).Scan(&count)
	return count, err
}

func (r *Repository) CountByUser(userID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

// Each lifecycle transition below is a single UPDATE so a crash cannot leave
// an order with half a transition applied.

func (r *Repository) SetFeedback(id string, tags []string, rating int) error {
	tagsJSON, _ := json.Marshal(tags)
	_, err := r.db.Exec(`UPDATE orders SET tags = ?, rating = ?, updated_at = ? WHERE id = ?`,
		string(tagsJSON), rating, time.Now().Unix(), id)
	return err
}

func (r *Repository) MarkDone(id string, completedAt int64) error {
	_, err := r.db.Exec(`UPDATE orders SET is_done = 1, completed_at = ?, updated_at = ? WHERE id = ?`,
		completedAt, time.Now().Unix(), id)
	return err
}

// MarkReviewed flips has_review; reviewer_name is kept untouched when the
// review came from a resolved profile URL rather than a literal name.
func (r *Repository) MarkReviewed(id, reviewerName string) error {
	_, err := r.db.Exec(`
		UPDATE orders SET has_review = 1,
			reviewer_name = CASE WHEN ? != '' THEN ? ELSE reviewer_name END,
			updated_at = ?
		WHERE id = ?
	`, reviewerName, reviewerName, time.Now().Unix(), id)
	return err
}

func (r *Repository) MarkPaid(id string, reward float64, paymentReference string) error {
	_, err := r.db.Exec(`
		UPDATE orders SET reward = ?, order_payment_reference = ?, is_paid = 1, updated_at = ?
		WHERE id = ?
	`, reward, paymentReference, time.Now().Unix(), id)
	return err
}

func (r *Repository) list(query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(s interface {
	Scan(dest ...interface{}) error
}) (*models.Order, error) {
	var order models.Order
	var asinID sql.NullString
	var tagsRaw sql.NullString
	var completedAt sql.NullInt64

	err := s.Scan(
		&order.ID, &order.CampaignID, &order.OrderID, &asinID, &order.CompanyID, &order.UserID,
		&order.Status, &order.Rating, &tagsRaw, &order.ReviewerName, &order.Reward,
		&order.OrderPaymentReference, &order.ProductName, &order.ProductImage,
		&order.HasReview, &order.IsDone, &order.IsPaid, &completedAt,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if asinID.Valid {
		val := asinID.String
		order.AsinID = &val
	}
	if completedAt.Valid {
		val := completedAt.Int64
		order.CompletedAt = &val
	}
	if tagsRaw.Valid && tagsRaw.String != "" {
		json.Unmarshal([]byte(tagsRaw.String), &order.Tags)
	}

	return &order, nil
}
