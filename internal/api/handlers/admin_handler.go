package handlers

import (
	"encoding/json"
	"net/http"

	"reviewback/internal/engine/directory"
	"reviewback/internal/pkg/errors"
)

// AdminHandler manages platform admin accounts. Super-admin only.
type AdminHandler struct {
	directorySvc *directory.Service
}

func NewAdminHandler(directorySvc *directory.Service) *AdminHandler {
	return &AdminHandler{directorySvc: directorySvc}
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, total, err := h.directorySvc.ListAdmins(r.URL.Query())
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Data: admins, Total: total})
}

func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := routeParams(r).ByName("user_id")

	admin, err := h.directorySvc.GetAdmin(userID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

// Create provisions a fresh tenant with the admin attached to it.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input directory.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if input.Email == "" || input.Password == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "email and password are required", nil)
		return
	}

	admin, err := h.directorySvc.CreateAdmin(input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, admin)
}

func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := routeParams(r).ByName("user_id")

	var input directory.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	admin, err := h.directorySvc.UpdateAdmin(userID, input)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := routeParams(r).ByName("user_id")

	if err := h.directorySvc.DeleteAdmin(userID); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	userID := routeParams(r).ByName("user_id")

	if err := h.directorySvc.ResetAdminPassword(userID); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
