package deal

import (
	"strings"

	"business-daily-deals/internal/pkg/errs"
)

var (
	ErrEmptyTitle       = errs.New("deal title cannot be empty")
	ErrTitleTooLong     = errs.New("deal title exceeds maximum length")
	ErrEmptyDescription = errs.New("deal description cannot be empty")
	ErrNegativePrice    = errs.New("deal price cannot be negative")
	ErrInvalidDealType  = errs.New("invalid deal type")
)

const MaxTitleLength = 200

type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Title{}, ErrEmptyTitle
	}
	if len(s) > MaxTitleLength {
		return Title{}, ErrTitleTooLong
	}
	return Title{value: s}, nil
}

func (t Title) String() string {
	return t.value
}

// Money is an amount in cents. Rands are stored as cents to avoid floating
// point arithmetic on prices.
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativePrice
	}
	return Money{cents: cents}, nil
}

func (m Money) Cents() int64 {
	return m.cents
}

// Keywords is the distinct set of match terms attached to a deal. Matching
// against subscriptions is exact and case-sensitive, so normalization only
// trims whitespace and drops empties/duplicates; case is preserved.
type Keywords []string

func NewKeywords(raw []string) Keywords {
	seen := make(map[string]struct{}, len(raw))
	out := make(Keywords, 0, len(raw))
	for _, k := range raw {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
