package handlers

import (
	"encoding/json"
	"net/http"

	"reviewback/internal/engine/company"
	"reviewback/internal/pkg/errors"
	"reviewback/internal/platform/config"
	"reviewback/internal/platform/models"
)

type CompanyHandler struct {
	companySvc *company.Service
	mailCfg    config.MailConfig
}

func NewCompanyHandler(companySvc *company.Service, mailCfg config.MailConfig) *CompanyHandler {
	return &CompanyHandler{
		companySvc: companySvc,
		mailCfg:    mailCfg,
	}
}

type MailSettings struct {
	AllowedVariables []string `json:"allowed_variables"`
	AllowedActions   []string `json:"allowed_actions"`
}

type CompanyProfileResponse struct {
	Company *models.Company `json:"company"`
	Mail    MailSettings    `json:"mail"`
}

// View is the tenant admin's full profile, questions and the mail template
// placeholders they may use.
func (h *CompanyHandler) View(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	profile, err := h.companySvc.View(tenant)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, CompanyProfileResponse{
		Company: profile,
		Mail: MailSettings{
			AllowedVariables: h.mailCfg.AllowedVariables,
			AllowedActions:   h.mailCfg.AllowedActions,
		},
	})
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	var input company.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if err := h.companySvc.Update(tenant, input); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	profile, err := h.companySvc.View(tenant)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Current is the unauthenticated branding subset for the tenant's funnel.
func (h *CompanyHandler) Current(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)
	writeJSON(w, http.StatusOK, h.companySvc.PublicProfile(tenant))
}

// Questions lists the live screening questions without their answer keys.
func (h *CompanyHandler) Questions(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	questions, err := h.companySvc.Questions(tenant)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

// Upload will accept branding assets once object storage is decided; the
// route is reserved so clients can code against it.
func (h *CompanyHandler) Upload(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (h *CompanyHandler) SendFeedback(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Message == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Message is required", nil)
		return
	}

	if err := h.companySvc.SendFeedback(tenant, req.Name, req.Email, req.Message); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
