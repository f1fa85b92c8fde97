package repositories

import (
	"database/sql"
	"time"

	"reviewback/internal/engine/listing"
	"reviewback/internal/platform/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `users.id, users.company_id, users.email, users.name, users.phone_number,
	users.password_hash, users.convomat_user_id, users.amazon_id, users.payment_preference,
	users.is_admin, users.is_super_admin, users.is_active, users.is_banned, users.is_vip,
	users.created_at, users.updated_at`

// UserColumns is the select list listing base queries start from.
func UserColumns() string {
	return userColumns
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, company_id, email, name, phone_number, password_hash, convomat_user_id,
			amazon_id, payment_preference, is_admin, is_super_admin, is_active, is_banned, is_vip,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.CompanyID, user.Email, user.Name, user.PhoneNumber, user.PasswordHash,
		user.ConvomatUserID, user.AmazonID, user.PaymentPreference,
		user.IsAdmin, user.IsSuperAdmin, user.IsActive, user.IsBanned, user.IsVIP,
		user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE users.id = ?`, id)
	return scanUser(row, false)
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE users.email = ?`, email)
	return scanUser(row, false)
}

// GetByIDWithDomain enriches the row with the owning tenant's domain.
func (r *UserRepository) GetByIDWithDomain(id string) (*models.User, error) {
	row := r.db.QueryRow(`
		SELECT `+userColumns+`, companies.domain
		FROM users JOIN companies ON users.company_id = companies.id
		WHERE users.id = ?
	`, id)
	return scanUser(row, true)
}

func (r *UserRepository) Update(user *models.User) error {
	_, err := r.db.Exec(`
		UPDATE users SET email = ?, name = ?, phone_number = ?, payment_preference = ?,
			is_active = ?, is_banned = ?, is_vip = ?, updated_at = ?
		WHERE id = ?
	`, user.Email, user.Name, user.PhoneNumber, user.PaymentPreference,
		user.IsActive, user.IsBanned, user.IsVIP, time.Now().Unix(), user.ID)
	return err
}

func (r *UserRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

func (r *UserRepository) SetPassword(id, passwordHash string) error {
	_, err := r.db.Exec(`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) SetActive(id string, active bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) SetBanned(id string, banned bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_banned = ?, updated_at = ? WHERE id = ?`,
		banned, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) SetVIP(id string, vip bool) error {
	_, err := r.db.Exec(`UPDATE users SET is_vip = ?, updated_at = ? WHERE id = ?`,
		vip, time.Now().Unix(), id)
	return err
}

func (r *UserRepository) SetAmazonID(id, amazonID string) error {
	_, err := r.db.Exec(`UPDATE users SET amazon_id = ?, updated_at = ? WHERE id = ?`,
		amazonID, time.Now().Unix(), id)
	return err
}

// RunListing executes a built listing query pair. withDomain tells the
// scanner whether the select carries the joined companies.domain column.
func (r *UserRepository) RunListing(built *listing.Built, withDomain bool) ([]*models.User, int, error) {
	var count int
	if err := r.db.QueryRow(built.CountSQL, built.CountArgs...).Scan(&count); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(built.ListSQL, built.ListArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows, withDomain)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	return users, count, rows.Err()
}

func scanUser(s interface {
	Scan(dest ...interface{}) error
}, withDomain bool) (*models.User, error) {
	var user models.User
	var amazonID sql.NullString

	dest := []interface{}{
		&user.ID, &user.CompanyID, &user.Email, &user.Name, &user.PhoneNumber,
		&user.PasswordHash, &user.ConvomatUserID, &amazonID, &user.PaymentPreference,
		&user.IsAdmin, &user.IsSuperAdmin, &user.IsActive, &user.IsBanned, &user.IsVIP,
		&user.CreatedAt, &user.UpdatedAt,
	}
	if withDomain {
		dest = append(dest, &user.Domain)
	}

	if err := s.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if amazonID.Valid {
		val := amazonID.String
		user.AmazonID = &val
	}

	return &user, nil
}
