package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/onusone/stakeledger/internal/api/respond"
	"github.com/onusone/stakeledger/internal/api/validate"
	"github.com/onusone/stakeledger/internal/auth"
	"github.com/onusone/stakeledger/internal/model"
	"github.com/onusone/stakeledger/internal/services"
)

// PolicyHandler is a thin HTTP transport over PolicyService.
type PolicyHandler struct {
	svc   *services.PolicyService
	authz auth.Authorizer
	now   func() time.Time
}

func NewPolicyHandler(svc *services.PolicyService, authz auth.Authorizer) *PolicyHandler {
	return &PolicyHandler{svc: svc, authz: authz, now: time.Now}
}

// InitializePolicy POST /api/policy
func (h *PolicyHandler) InitializePolicy(w http.ResponseWriter, r *http.Request) {
	var req services.InitializePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.InitializePolicy(req.Authority, req.MinStake, req.MaxStake); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.Initialize(r.Context(), req, h.now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetPolicy GET /api/policy
func (h *PolicyHandler) GetPolicy(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// UpdatePolicy PATCH /api/policy
func (h *PolicyHandler) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r, h.authz)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var changes model.PolicyChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.Update(r.Context(), caller.Address, changes, h.now().UTC())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SetEmergency PUT /api/policy/emergency
func (h *PolicyHandler) SetEmergency(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.FromRequest(r, h.authz)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := h.svc.SetEmergency(r.Context(), caller.Address, req.Active, h.now().UTC()); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"emergencyActive": req.Active})
}
