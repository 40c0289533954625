package request

type SubscribeKeywordRequest struct {
	Keyword string `json:"keyword" binding:"required,max=100"`
}
