package common

import (
	"fmt"
	"strings"
)

// NormalizeAddress canonicalises an account identity for use as a state key.
// Addresses are opaque to the ledger; only emptiness is rejected.
func NormalizeAddress(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", fmt.Errorf("address required")
	}
	return trimmed, nil
}

// NormalizeAssetCode canonicalises an asset code. Codes are upper-cased and
// restricted to [A-Z0-9] so the pool key separator can never collide with a
// code character.
func NormalizeAssetCode(code string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return "", fmt.Errorf("asset code required")
	}
	if len(trimmed) > 12 {
		return "", fmt.Errorf("asset code %q exceeds 12 characters", trimmed)
	}
	for _, r := range trimmed {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("asset code %q contains invalid character %q", trimmed, r)
		}
	}
	return trimmed, nil
}
