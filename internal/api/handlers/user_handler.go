package handlers

import (
	"encoding/json"
	"net/http"

	"reviewback/internal/engine/directory"
	"reviewback/internal/pkg/errors"
)

type UserHandler struct {
	directorySvc *directory.Service
}

func NewUserHandler(directorySvc *directory.Service) *UserHandler {
	return &UserHandler{directorySvc: directorySvc}
}

// Register is the public customer signup with screening answers.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	var input directory.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if input.Email == "" || input.Name == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "name and email are required", nil)
		return
	}

	user, err := h.directorySvc.Register(tenant, input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	users, total, err := h.directorySvc.ListCustomers(tenant.ID, r.URL.Query())
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Data: users, Total: total})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	detail, err := h.directorySvc.GetCustomer(actorFromClaims(claims), userID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	var input directory.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if input.Email == "" || input.Password == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "email and password are required", nil)
		return
	}

	user, err := h.directorySvc.CreateCustomer(tenant, input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	var input directory.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	user, err := h.directorySvc.UpdateCustomer(actorFromClaims(claims), userID, input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	if err := h.directorySvc.DeleteCustomer(actorFromClaims(claims), userID); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) ToggleBan(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	user, err := h.directorySvc.ToggleBan(actorFromClaims(claims), userID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	user, err := h.directorySvc.Approve(actorFromClaims(claims), userID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	userID := routeParams(r).ByName("user_id")

	if err := h.directorySvc.ResetCustomerPassword(actorFromClaims(claims), userID); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Profile is the caller's own directory entry.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	user, err := h.directorySvc.GetByID(claims.UserID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type ProfileUpdateRequest struct {
	Name              *string `json:"name"`
	PhoneNumber       *string `json:"phone_number"`
	PaymentPreference *string `json:"payment_preference"`
}

// UpdateProfile lets a customer edit their own contact and payout details.
// Email and activation state stay admin-only.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	var req ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	input := directory.UpdateInput{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		PaymentPreference: req.PaymentPreference,
	}

	user, err := h.directorySvc.UpdateCustomer(actorFromClaims(claims), claims.UserID, input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type LinkAmazonRequest struct {
	ProfileURL string `json:"profile_url"`
}

func (h *UserHandler) LinkAmazon(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	var req LinkAmazonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ProfileURL == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "profile_url is required", nil)
		return
	}

	user, err := h.directorySvc.LinkAmazon(r.Context(), claims.UserID, req.ProfileURL)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
