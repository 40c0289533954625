package request

type PurchaseCreditsRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}
