package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	apiContext "reviewback/internal/api/context"
	"reviewback/internal/pkg/errors"
	"reviewback/internal/platform/repositories"
)

// TenantMiddleware resolves the tenant from the request host. Every route it
// guards sees exactly one company; an unknown host never reaches a handler.
type TenantMiddleware struct {
	companyRepo *repositories.CompanyRepository
}

func NewTenantMiddleware(companyRepo *repositories.CompanyRepository) *TenantMiddleware {
	return &TenantMiddleware{companyRepo: companyRepo}
}

func (m *TenantMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = strings.ToLower(host)

		company, err := m.companyRepo.GetByDomain(host)
		if err != nil {
			errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to resolve tenant", nil)
			return
		}
		if company == nil {
			errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Domain not found", nil)
			return
		}

		ctx := context.WithValue(r.Context(), apiContext.Tenant, company)
		next(w, r.WithContext(ctx))
	}
}
