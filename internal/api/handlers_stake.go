package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/onusone/stakeledger/internal/api/respond"
	"github.com/onusone/stakeledger/internal/api/validate"
	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/services"
)

// StakeHandler is a thin HTTP transport over LedgerService.
type StakeHandler struct {
	svc *services.LedgerService
	now func() time.Time
}

func NewStakeHandler(svc *services.LedgerService) *StakeHandler {
	return &StakeHandler{svc: svc, now: time.Now}
}

// CreateStake POST /api/stakes
func (h *StakeHandler) CreateStake(w http.ResponseWriter, r *http.Request) {
	var req model.StakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.StakeRequest(req.User, req.ContentID, req.ContentType, req.Amount); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	rec, err := h.svc.Stake(r.Context(), req, h.now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, rec)
}

// ReleaseStake DELETE /api/stakes/{user}/{contentId}
func (h *StakeHandler) ReleaseStake(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	released, err := h.svc.Unstake(r.Context(), vars["user"], vars["contentId"], h.now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":           vars["user"],
		"contentId":      vars["contentId"],
		"amountReleased": released,
	})
}

// GetEffectiveValue GET /api/stakes/{user}/{contentId}/value
func (h *StakeHandler) GetEffectiveValue(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	asOf := h.now().UTC()
	val, err := h.svc.EffectiveValue(r.Context(), vars["user"], vars["contentId"], asOf)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":           vars["user"],
		"contentId":      vars["contentId"],
		"effectiveValue": val,
		"asOf":           asOf.Format(time.RFC3339),
	})
}

// ListStakes GET /api/stakes/{user}
func (h *StakeHandler) ListStakes(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	if err := validate.UserAddress(user); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	recs, err := h.svc.ListStakes(r.Context(), user)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"stakes": recs, "count": len(recs)})
}

// ListEvents GET /api/stakes/{user}/events
func (h *StakeHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			respond.WriteBadRequest(w, "limit must be an integer between 1 and 1000")
			return
		}
		limit = n
	}
	evts, err := h.svc.ListEvents(r.Context(), user, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": evts, "count": len(evts)})
}
