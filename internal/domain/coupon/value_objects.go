package coupon

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateCode builds a human-shareable coupon code: prefix, issuance
// timestamp, random suffix. Uniqueness rests on generation entropy; there is
// no collision-retry loop.
func GenerateCode(prefix string, now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// Fallback keeps codes unique enough via the nanosecond clock
		return fmt.Sprintf("%s-%s-%08X", prefix, now.Format("20060102150405"), now.UnixNano()%0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102150405"), strings.ToUpper(hex.EncodeToString(suffix)))
}

// RedemptionMetadata is the audit context captured when a supplier redeems a
// coupon at point of sale.
type RedemptionMetadata struct {
	Location  *string
	Notes     *string
	IPAddress *string
	UserAgent *string
}
