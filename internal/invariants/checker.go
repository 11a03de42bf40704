// Package invariants exercises the ledger's conservation rules through the
// public REST API only. It treats the service as an external system so the
// checks hold for every storage driver.
package invariants

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Checker drives invariant scenarios against a running ledger instance.
type Checker struct {
	baseURL string
	client  *http.Client
}

func NewChecker(baseURL string) *Checker {
	return &Checker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type policyView struct {
	TotalStaked uint64 `json:"totalStaked"`
}

type stakeView struct {
	Amount   uint64 `json:"amount"`
	IsActive bool   `json:"isActive"`
}

// CheckAggregateConservation verifies totalStaked equals the sum of settled
// principals across the given users' active stakes.
func (c *Checker) CheckAggregateConservation(t *testing.T, users []string) {
	t.Helper()

	var sum uint64
	for _, user := range users {
		var listing struct {
			Stakes []stakeView `json:"stakes"`
		}
		c.getJSON(t, "/api/stakes/"+user, &listing)
		for _, s := range listing.Stakes {
			if s.IsActive {
				sum += s.Amount
			}
		}
	}

	var pol policyView
	c.getJSON(t, "/api/policy", &pol)
	require.Equal(t, sum, pol.TotalStaked,
		"totalStaked must equal the sum of active settled principals")
}

// CheckReleasedStakeIsTerminal verifies a released stake cannot be released
// twice and no longer reports an effective value.
func (c *Checker) CheckReleasedStakeIsTerminal(t *testing.T, user, contentID string) {
	t.Helper()

	path := fmt.Sprintf("/api/stakes/%s/%s", user, contentID)
	resp := c.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "first release must succeed")
	_ = resp.Body.Close()

	resp = c.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "second release must hit a terminal record")
	_ = resp.Body.Close()

	resp = c.do(t, http.MethodGet, path+"/value", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "released stakes have no effective value")
	_ = resp.Body.Close()
}

// CheckReadsDoNotSettle verifies repeated value reads return the same result
// and never mutate the stored principal.
func (c *Checker) CheckReadsDoNotSettle(t *testing.T, user, contentID string) {
	t.Helper()

	var first, second struct {
		EffectiveValue uint64 `json:"effectiveValue"`
	}
	path := fmt.Sprintf("/api/stakes/%s/%s/value", user, contentID)
	c.getJSON(t, path, &first)
	c.getJSON(t, path, &second)
	require.Equal(t, first.EffectiveValue, second.EffectiveValue,
		"back-to-back reads must agree")
}

func (c *Checker) getJSON(t *testing.T, path string, out interface{}) {
	t.Helper()
	resp := c.do(t, http.MethodGet, path, nil)
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: http %d: %s", path, resp.StatusCode, string(body))
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (c *Checker) do(t *testing.T, method, path string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	require.NoError(t, err)
	return resp
}
