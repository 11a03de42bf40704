package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// newClient builds the REST client for a ledger instance. authority, when
// set, is sent as the bearer credential for authority-gated calls.
func newClient(baseURL, authority string) *resty.Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)
	if authority != "" {
		c.SetAuthToken(authority)
	}
	return c
}

// checkResp turns non-2xx responses into errors carrying the server's body.
func checkResp(resp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	return resp.String(), nil
}
