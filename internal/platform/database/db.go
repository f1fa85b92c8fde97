package database

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"reviewback/internal/platform/config"
)

func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.Path+"?cache=shared&mode=rwc&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate bootstraps the schema. The unique index on (campaign_id, order_id)
// is what serializes concurrent order verifications; the upsert in the order
// repository depends on it.
func Migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS companies (
		id TEXT PRIMARY KEY,
		domain TEXT UNIQUE,
		name TEXT NOT NULL DEFAULT '',
		logo TEXT NOT NULL DEFAULT '',
		general TEXT,
		home_page TEXT,
		about_page TEXT,
		contact_page TEXT,
		payment TEXT,
		available_payment_methods TEXT,
		short_feedbacks TEXT,
		payout_1star REAL NOT NULL DEFAULT 0,
		payout_2star REAL NOT NULL DEFAULT 0,
		payout_3star REAL NOT NULL DEFAULT 0,
		payout_4star REAL NOT NULL DEFAULT 0,
		payout_5star REAL NOT NULL DEFAULT 0,
		review_from INTEGER NOT NULL DEFAULT 0,
		review_limit INTEGER NOT NULL DEFAULT 0,
		exclude_brands TEXT,
		api_mode TEXT NOT NULL DEFAULT '',
		products_to_display INTEGER NOT NULL DEFAULT 10,
		is_visible_limit INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL REFERENCES companies(id),
		email TEXT UNIQUE NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		convomat_user_id TEXT NOT NULL DEFAULT '',
		amazon_id TEXT,
		payment_preference TEXT NOT NULL DEFAULT '',
		is_admin INTEGER NOT NULL DEFAULT 0,
		is_super_admin INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 0,
		is_banned INTEGER NOT NULL DEFAULT 0,
		is_vip INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_users_company ON users(company_id);

	CREATE TABLE IF NOT EXISTS company_questions (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL REFERENCES companies(id),
		question TEXT NOT NULL,
		correct_answer TEXT NOT NULL DEFAULT '',
		deleted_at INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_company ON company_questions(company_id);

	CREATE TABLE IF NOT EXISTS question_answers (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		question_id TEXT NOT NULL REFERENCES company_questions(id),
		answer TEXT NOT NULL,
		is_correct INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_answers_user ON question_answers(user_id);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		campaign_id INTEGER NOT NULL,
		order_id TEXT NOT NULL,
		asin_id TEXT,
		company_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		tags TEXT,
		reviewer_name TEXT NOT NULL DEFAULT '',
		reward REAL NOT NULL DEFAULT 0,
		order_payment_reference TEXT NOT NULL DEFAULT '',
		product_name TEXT NOT NULL DEFAULT '',
		product_image TEXT NOT NULL DEFAULT '',
		has_review INTEGER NOT NULL DEFAULT 0,
		is_done INTEGER NOT NULL DEFAULT 0,
		is_paid INTEGER NOT NULL DEFAULT 0,
		completed_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_campaign_order ON orders(campaign_id, order_id);
	CREATE INDEX IF NOT EXISTS idx_orders_company ON orders(company_id);
	CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id);
	`

	_, err := db.Exec(schema)
	return err
}
