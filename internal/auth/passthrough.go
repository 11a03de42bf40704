package auth

import "context"

// PassthroughAuthorizer treats the credential as the caller address itself.
// It is the right choice when the ledger sits behind a host that has already
// authenticated the principal (gateway, blockchain runtime, test harness).
type PassthroughAuthorizer struct{}

func NewPassthroughAuthorizer() *PassthroughAuthorizer { return &PassthroughAuthorizer{} }

func (p *PassthroughAuthorizer) Authorize(ctx context.Context, credential string) (*CallerInfo, error) {
	if credential == "" {
		return nil, ErrMissingCaller
	}
	return &CallerInfo{Address: credential}, nil
}
