package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"reviewback/internal/engine/orders"
	"reviewback/internal/pkg/errors"
)

type OrderHandler struct {
	orderSvc *orders.Service
}

func NewOrderHandler(orderSvc *orders.Service) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

type VerifyRequest struct {
	CampaignID int64  `json:"campaign_id"`
	OrderID    string `json:"order_id"`
}

// Verify checks order ownership with the gateway and opens (or refreshes)
// the order record for this customer.
func (h *OrderHandler) Verify(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)
	claims := requestClaims(r)

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.CampaignID == 0 || req.OrderID == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "campaign_id and order_id are required", nil)
		return
	}

	order, err := h.orderSvc.VerifyOrder(r.Context(), tenant, claims.UserID, req.CampaignID, req.OrderID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// List shows the caller's still-open orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	items, err := h.orderSvc.ListOpen(claims.UserID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Tasks is the customer's full order history, oldest first on ?sort=asc.
func (h *OrderHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	sortAsc := strings.EqualFold(r.URL.Query().Get("sort"), "asc")

	items, err := h.orderSvc.ListAll(claims.UserID, sortAsc)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	orderID := routeParams(r).ByName("order_id")

	order, err := h.orderSvc.GetOpenByOrderID(orderID, claims.UserID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	orderID := routeParams(r).ByName("order_id")

	eligible, err := h.orderSvc.Eligible(claims.UserID, orderID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"eligible": eligible})
}

type FeedbackSubmission struct {
	Tags   []string `json:"tags"`
	Rating int      `json:"rating"`
}

func (h *OrderHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	orderID := routeParams(r).ByName("order_id")

	var req FeedbackSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Rating must be between 1 and 5", nil)
		return
	}

	order, err := h.orderSvc.SubmitFeedback(r.Context(), claims.UserID, orderID, req.Tags, req.Rating)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type ReviewSubmission struct {
	ReviewerName string `json:"reviewer_name"`
}

func (h *OrderHandler) Review(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	orderID := routeParams(r).ByName("order_id")

	var req ReviewSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ReviewerName == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "reviewer_name is required", nil)
		return
	}

	order, err := h.orderSvc.PostReview(r.Context(), claims.UserID, orderID, req.ReviewerName)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

type PayoutRequest struct {
	VerificationCode string `json:"verification_code"`
}

func (h *OrderHandler) Payout(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)
	orderID := routeParams(r).ByName("order_id")

	var req PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	order, err := h.orderSvc.SendPayout(r.Context(), claims.UserID, orderID, req.VerificationCode)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// SendEmailVerification asks the gateway to send a code to the caller's
// email ahead of a payout.
func (h *OrderHandler) SendEmailVerification(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	if err := h.orderSvc.SendEmailVerification(r.Context(), claims.UserID); err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
