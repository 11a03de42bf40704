package auth

import (
	"context"
	"net/http"
	"strings"
)

// CallerInfo identifies the authenticated principal behind a request.
type CallerInfo struct {
	Address string `json:"address"`
}

// Authorizer resolves a request credential to a caller identity. The host
// environment owns authentication; the ledger only needs a stable address to
// compare against the policy authority.
type Authorizer interface {
	Authorize(ctx context.Context, credential string) (*CallerInfo, error)
}

// FromRequest extracts the bearer credential from the Authorization header
// and resolves it through the authorizer.
func FromRequest(r *http.Request, a Authorizer) (*CallerInfo, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return nil, ErrMissingCaller
	}
	cred := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if cred == "" {
		return nil, ErrMissingCaller
	}
	return a.Authorize(r.Context(), cred)
}
