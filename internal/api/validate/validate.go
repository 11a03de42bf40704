package validate

import (
	"fmt"
	"regexp"
)

// userAddrRx keeps addresses to the base58 alphabet used on the wire.
// Length bounds are generous so test fixtures stay readable.
var userAddrRx = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z_][1-9A-HJ-NP-Za-km-z_-]{0,63}$`)

const (
	maxContentIDBytes   = 200
	maxContentTypeBytes = 50
)

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d bytes", field, limit)
	}
	return nil
}

// UserAddress validates the address path/body component.
func UserAddress(v string) error {
	if v == "" {
		return fmt.Errorf("user is required")
	}
	if !userAddrRx.MatchString(v) {
		return fmt.Errorf("user must match %s", userAddrRx.String())
	}
	return nil
}

// ContentID validates a content identifier (max 200 bytes).
func ContentID(v string) error {
	if err := NonEmpty("contentId", v); err != nil {
		return err
	}
	return MaxLen("contentId", v, maxContentIDBytes)
}

// ContentType validates the optional content kind label (max 50 bytes).
func ContentType(v string) error {
	return MaxLen("contentType", v, maxContentTypeBytes)
}

// -------- Request specific helpers ----------

// StakeRequest validates input for placing a stake.
func StakeRequest(user, contentID, contentType string, amount uint64) error {
	if err := UserAddress(user); err != nil {
		return err
	}
	if err := ContentID(contentID); err != nil {
		return err
	}
	if err := ContentType(contentType); err != nil {
		return err
	}
	if amount == 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// InitializePolicy validates input for creating the ledger policy.
func InitializePolicy(authority string, minStake, maxStake uint64) error {
	if err := NonEmpty("authority", authority); err != nil {
		return err
	}
	if minStake > maxStake {
		return fmt.Errorf("minStake must not exceed maxStake")
	}
	return nil
}
