package api

import (
	"github.com/gorilla/mux"

	"github.com/onusone/stakeledger/internal/api/recovery"
	"github.com/onusone/stakeledger/internal/auth"
	"github.com/onusone/stakeledger/internal/events"
	"github.com/onusone/stakeledger/internal/services"
	"github.com/onusone/stakeledger/internal/store"
)

// NewRouter wires all ledger routes over the given store. isHealthy feeds
// the health endpoint and may be nil in tests.
func NewRouter(st store.Store, bus *events.Bus, authz auth.Authorizer, isHealthy func() bool) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	policySvc := services.NewPolicyService(st, bus)
	ledgerSvc := services.NewLedgerService(st, bus)

	policyHandler := NewPolicyHandler(policySvc, authz)
	stakeHandler := NewStakeHandler(ledgerSvc)
	healthHandler := NewHealthHandler(isHealthy)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Policy endpoints
	router.HandleFunc("/api/policy", policyHandler.InitializePolicy).Methods("POST")
	router.HandleFunc("/api/policy", policyHandler.GetPolicy).Methods("GET")
	router.HandleFunc("/api/policy", policyHandler.UpdatePolicy).Methods("PATCH")
	router.HandleFunc("/api/policy/emergency", policyHandler.SetEmergency).Methods("PUT")

	// Stake endpoints
	router.HandleFunc("/api/stakes", stakeHandler.CreateStake).Methods("POST")
	router.HandleFunc("/api/stakes/{user}", stakeHandler.ListStakes).Methods("GET")
	router.HandleFunc("/api/stakes/{user}/events", stakeHandler.ListEvents).Methods("GET")
	router.HandleFunc("/api/stakes/{user}/{contentId}", stakeHandler.ReleaseStake).Methods("DELETE")
	router.HandleFunc("/api/stakes/{user}/{contentId}/value", stakeHandler.GetEffectiveValue).Methods("GET")

	return router
}
