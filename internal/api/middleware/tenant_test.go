package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	apiContext "reviewback/internal/api/context"
	"reviewback/internal/platform/models"
	"reviewback/internal/platform/repositories"
)

func companyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "domain", "name", "logo", "general", "home_page", "about_page", "contact_page",
		"payment", "available_payment_methods", "short_feedbacks",
		"payout_1star", "payout_2star", "payout_3star", "payout_4star", "payout_5star",
		"review_from", "review_limit", "exclude_brands", "api_mode",
		"products_to_display", "is_visible_limit", "created_at", "updated_at",
	})
}

func TestTenantMiddleware(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	companyRepo := repositories.NewCompanyRepository(db)
	middleware := NewTenantMiddleware(companyRepo)

	t.Run("Known Domain", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		req.Host = "shop.example.com:8080"

		rows := companyRows().AddRow(
			"cmp_123", "shop.example.com", "Shop", "", nil, nil, nil, nil,
			nil, nil, nil,
			0.0, 0.0, 0.0, 0.0, 0.0,
			3, 10, nil, "live",
			10, false, 1234567890, 1234567890,
		)
		mock.ExpectQuery("SELECT (.+) FROM companies WHERE domain = ?").
			WithArgs("shop.example.com").
			WillReturnRows(rows)

		rr := httptest.NewRecorder()
		handler := middleware.Handle(func(w http.ResponseWriter, r *http.Request) {
			tenant := r.Context().Value(apiContext.Tenant).(*models.Company)
			if tenant.ID != "cmp_123" {
				t.Errorf("Expected company cmp_123, got %s", tenant.ID)
			}
			w.WriteHeader(http.StatusOK)
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
	})

	t.Run("Unknown Domain", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		req.Host = "nobody.example.com"

		mock.ExpectQuery("SELECT (.+) FROM companies WHERE domain = ?").
			WithArgs("nobody.example.com").
			WillReturnRows(companyRows())

		rr := httptest.NewRecorder()
		handler := middleware.Handle(func(w http.ResponseWriter, r *http.Request) {
			t.Error("Handler should not be called")
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusNotFound {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusNotFound)
		}
	})

	t.Run("Host Is Lowercased", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		req.Host = "Shop.Example.COM"

		rows := companyRows().AddRow(
			"cmp_123", "shop.example.com", "Shop", "", nil, nil, nil, nil,
			nil, nil, nil,
			0.0, 0.0, 0.0, 0.0, 0.0,
			3, 10, nil, "live",
			10, false, 1234567890, 1234567890,
		)
		mock.ExpectQuery("SELECT (.+) FROM companies WHERE domain = ?").
			WithArgs("shop.example.com").
			WillReturnRows(rows)

		rr := httptest.NewRecorder()
		handler := middleware.Handle(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}
	})
}
