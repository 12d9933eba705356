package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/findosh/myrecipes/internal/services/subscription"
)

// ListPlans returns the plan catalog
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.subscriptions.Plans())
}

// GetSubscription returns the subscription of ?userId=, or null when the
// user has none
func (h *Handler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		h.jsonError(w, "User ID is required", http.StatusBadRequest)
		return
	}
	sub, err := h.subscriptions.Get(r.Context(), userID)
	if errors.Is(err, subscription.ErrSubscriptionNotFound) {
		h.writeJSON(w, r, http.StatusOK, nil)
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusOK, sub)
}

// Subscribe enrolls userId in planId
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
		PlanID string `json:"planId"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "")
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.PlanID) == "" {
		h.jsonError(w, "User ID and Plan ID are required", http.StatusBadRequest)
		return
	}

	sub, err := h.subscriptions.Subscribe(r.Context(), req.UserID, req.PlanID)
	if errors.Is(err, subscription.ErrPlanNotFound) {
		h.jsonError(w, "Invalid plan ID", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	h.writeJSON(w, r, http.StatusCreated, sub)
}

// CancelSubscription flags a subscription to end with its period
func (h *Handler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptions.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err, "Subscription not found")
		return
	}
	h.writeJSON(w, r, http.StatusOK, sub)
}
