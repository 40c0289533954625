package credit

type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionSpend    TransactionType = "spend"
	TransactionRefund   TransactionType = "refund"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionPurchase, TransactionSpend, TransactionRefund:
		return true
	default:
		return false
	}
}

// IsCredit reports whether the transaction adds to the balance.
// Purchases and refunds add; spends subtract.
func (t TransactionType) IsCredit() bool {
	return t == TransactionPurchase || t == TransactionRefund
}
