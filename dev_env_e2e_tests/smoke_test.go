//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"
)

// TestDevEnv_StakeRoundTrip drives a full stake lifecycle against a running
// dev stack: place a stake, read its value, release it and confirm the
// released amount matches. The policy must already be initialized with a
// minStake at or below 100 and room for the fixture amounts.
func TestDevEnv_StakeRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	base := env("STAKE_LEDGER_URL", "http://localhost:8080")
	if err := ping(base + "/api/health"); err != nil {
		t.Skipf("service %s unreachable: %v", base, err)
	}
	waitForHealthy(t, base, 30*time.Second)

	user := fmt.Sprintf("smoke-%d", time.Now().UnixNano())
	contentID := "smoke-post-1"

	// Place a stake.
	payload, _ := json.Marshal(map[string]interface{}{
		"user":        user,
		"contentId":   contentID,
		"contentType": "article",
		"amount":      100,
	})
	resp, err := http.Post(base+"/api/stakes", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("place stake: %v", err)
	}
	var rec struct {
		Amount   uint64 `json:"amount"`
		IsActive bool   `json:"isActive"`
	}
	mustJSON(t, resp, &rec)
	if !rec.IsActive || rec.Amount != 100 {
		t.Fatalf("unexpected stake record: %+v", rec)
	}

	// Value immediately after staking equals the principal.
	resp, err = http.Get(fmt.Sprintf("%s/api/stakes/%s/%s/value", base, user, contentID))
	if err != nil {
		t.Fatalf("get value: %v", err)
	}
	var value struct {
		EffectiveValue uint64 `json:"effectiveValue"`
	}
	mustJSON(t, resp, &value)
	if value.EffectiveValue != 100 {
		t.Fatalf("expected effective value 100, got %d", value.EffectiveValue)
	}

	// Release and confirm the settled amount comes back.
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/stakes/%s/%s", base, user, contentID), nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("release stake: %v", err)
	}
	var release struct {
		AmountReleased uint64 `json:"amountReleased"`
	}
	mustJSON(t, resp, &release)
	if release.AmountReleased != 100 {
		t.Fatalf("expected 100 released, got %d", release.AmountReleased)
	}
}

// TestDevEnv_EventJournal verifies accepted mutations land in the journal in
// newest-first order.
func TestDevEnv_EventJournal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}

	base := env("STAKE_LEDGER_URL", "http://localhost:8080")
	if err := ping(base + "/api/health"); err != nil {
		t.Skipf("service %s unreachable: %v", base, err)
	}

	user := fmt.Sprintf("journal-%d", time.Now().UnixNano())
	payload, _ := json.Marshal(map[string]interface{}{
		"user":      user,
		"contentId": "journal-post-1",
		"amount":    100,
	})
	resp, err := http.Post(base+"/api/stakes", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("place stake: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(fmt.Sprintf("%s/api/stakes/%s/events", base, user))
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	var journal struct {
		Events []struct {
			Kind   string `json:"kind"`
			Amount uint64 `json:"amount"`
		} `json:"events"`
		Count int `json:"count"`
	}
	mustJSON(t, resp, &journal)
	if journal.Count != 1 || journal.Events[0].Kind != "stake" {
		t.Fatalf("unexpected journal: %+v", journal)
	}

	// Cleanup.
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/stakes/%s/journal-post-1", base, user), nil)
	if resp, err := http.DefaultClient.Do(req); err == nil {
		resp.Body.Close()
	}
}
