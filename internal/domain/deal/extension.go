package deal

import "time"

// ExtensionPricing computes the credit cost of pushing a deal's expiry
// forward. Hot deals cost more per day than regular ones.
type ExtensionPricing struct {
	HotPerDay     int64
	RegularPerDay int64
}

type ExtensionQuote struct {
	ExtraDays     int64
	CreditsPerDay int64
	CreditsNeeded int64
}

// Quote computes the cost of extending from currentExpiresAt to newExpiresAt.
// Partial days round up: extending by 49 hours bills 3 days.
func (p ExtensionPricing) Quote(dealType Type, currentExpiresAt, newExpiresAt time.Time) ExtensionQuote {
	perDay := p.RegularPerDay
	if dealType == TypeHot {
		perDay = p.HotPerDay
	}

	delta := newExpiresAt.Sub(currentExpiresAt)
	extraDays := int64(delta / (24 * time.Hour))
	if delta%(24*time.Hour) > 0 {
		extraDays++
	}
	if extraDays < 0 {
		extraDays = 0
	}

	return ExtensionQuote{
		ExtraDays:     extraDays,
		CreditsPerDay: perDay,
		CreditsNeeded: extraDays * perDay,
	}
}
