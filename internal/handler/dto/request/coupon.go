package request

type GenerateCouponRequest struct {
	DealID string `json:"deal_id" binding:"required,uuid"`
}

type RedeemCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}
