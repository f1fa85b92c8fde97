package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apiContext "reviewback/internal/api/context"
	"reviewback/internal/engine/directory"
	"reviewback/internal/platform/auth"
	"reviewback/internal/platform/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func routeParams(r *http.Request) httprouter.Params {
	ps, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return ps
}

func tenantCompany(r *http.Request) *models.Company {
	company, _ := r.Context().Value(apiContext.Tenant).(*models.Company)
	return company
}

func requestClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(apiContext.Claims).(*auth.Claims)
	return claims
}

func actorFromClaims(claims *auth.Claims) directory.Actor {
	return directory.Actor{
		ID:           claims.UserID,
		CompanyID:    claims.CompanyID,
		IsAdmin:      claims.IsAdmin,
		IsSuperAdmin: claims.IsSuperAdmin,
	}
}

// listResponse is the page envelope for directory listings.
type listResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}
