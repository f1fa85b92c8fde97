package handlers

import (
	"net/http"
	"strconv"

	"reviewback/internal/engine/campaigns"
	"reviewback/internal/engine/orders"
	"reviewback/internal/pkg/errors"
)

type CampaignHandler struct {
	campaignSvc *campaigns.Service
	orderSvc    *orders.Service
}

func NewCampaignHandler(campaignSvc *campaigns.Service, orderSvc *orders.Service) *CampaignHandler {
	return &CampaignHandler{
		campaignSvc: campaignSvc,
		orderSvc:    orderSvc,
	}
}

// List shows the tenant's active giveaway goods, minus excluded brands.
func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	goods, err := h.campaignSvc.ListForCompany(r.Context(), tenant)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goods)
}

func (h *CampaignHandler) Get(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	campaign, err := h.campaignSvc.GetCampaign(r.Context(), campaignID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// GetQRCode renders the campaign funnel URL as a PNG for insert cards.
func (h *CampaignHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	tenant := tenantCompany(r)

	campaignID, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		size, _ = strconv.Atoi(s)
	}

	funnelURL := "https://" + tenant.Domain + "/campaigns/" + strconv.FormatInt(campaignID, 10)
	png, err := campaigns.GenerateInsertCardQR(funnelURL, size)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// GetOrder returns the caller's open order on this campaign, if any.
func (h *CampaignHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims := requestClaims(r)

	campaignID, ok := campaignIDParam(w, r)
	if !ok {
		return
	}

	order, err := h.orderSvc.GetOpenByCampaign(campaignID, claims.UserID)
	if err != nil {
		errors.WriteAppError(w, err)
		return
	}
	if order == nil {
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Order not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func campaignIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := routeParams(r).ByName("campaign_id")
	campaignID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid campaign id", nil)
		return 0, false
	}
	return campaignID, true
}
