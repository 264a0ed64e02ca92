package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewOrderNumber produces a human-readable order number of the form
// ORD-YYYYMMDD-XXXXXX where the suffix is 6 uppercase hex characters drawn
// from crypto/rand. Collisions are possible and handled by the caller
// retrying against the unique constraint.
func NewOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number suffix: %w", err)
	}
	suffix := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix), nil
}
