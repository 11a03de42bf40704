package validate

import (
	"strings"
	"testing"
)

func TestUserAddress(t *testing.T) {
	cases := []struct {
		addr string
		ok   bool
	}{
		{"alice", true},
		{"9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", true},
		{"user_1", true},
		{"", false},
		{"has space", false},
		{strings.Repeat("a", 65), false},
	}
	for _, c := range cases {
		err := UserAddress(c.addr)
		if c.ok && err != nil {
			t.Errorf("UserAddress(%q) unexpected error: %v", c.addr, err)
		}
		if !c.ok && err == nil {
			t.Errorf("UserAddress(%q) expected error", c.addr)
		}
	}
}

func TestContentID(t *testing.T) {
	if err := ContentID("post:abc123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ContentID(""); err == nil {
		t.Fatal("empty contentId should be rejected")
	}
	if err := ContentID(strings.Repeat("x", 200)); err != nil {
		t.Fatalf("200 bytes should be accepted: %v", err)
	}
	if err := ContentID(strings.Repeat("x", 201)); err == nil {
		t.Fatal("201 bytes should be rejected")
	}
}

func TestContentType(t *testing.T) {
	if err := ContentType(""); err != nil {
		t.Fatalf("empty contentType is optional: %v", err)
	}
	if err := ContentType(strings.Repeat("t", 50)); err != nil {
		t.Fatalf("50 bytes should be accepted: %v", err)
	}
	if err := ContentType(strings.Repeat("t", 51)); err == nil {
		t.Fatal("51 bytes should be rejected")
	}
}

func TestStakeRequest(t *testing.T) {
	if err := StakeRequest("alice", "post:1", "article", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := StakeRequest("alice", "post:1", "article", 0); err == nil {
		t.Fatal("zero amount should be rejected")
	}
	if err := StakeRequest("", "post:1", "", 1); err == nil {
		t.Fatal("missing user should be rejected")
	}
}

func TestInitializePolicy(t *testing.T) {
	if err := InitializePolicy("auth", 10, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := InitializePolicy("", 10, 100); err == nil {
		t.Fatal("missing authority should be rejected")
	}
	if err := InitializePolicy("auth", 100, 10); err == nil {
		t.Fatal("inverted bounds should be rejected")
	}
}
