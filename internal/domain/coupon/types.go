package coupon

type Status string

const (
	StatusActive   Status = "active"
	StatusRedeemed Status = "redeemed"
	StatusExpired  Status = "expired"
)

func (s Status) String() string {
	return string(s)
}
