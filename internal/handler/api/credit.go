package api

import (
	"errors"
	"net/http"

	reqdto "business-daily-deals/internal/handler/dto/request"
	"business-daily-deals/internal/handler/middleware"
	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditCommands commands.CreditCommands
	creditQueries  queries.CreditQueries
}

func NewCreditHandler(creditCommands commands.CreditCommands, creditQueries queries.CreditQueries) *CreditHandler {
	return &CreditHandler{
		creditCommands: creditCommands,
		creditQueries:  creditQueries,
	}
}

// @Summary Purchase credits
// @Description Top up the supplier's advertising credit balance
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PurchaseCreditsRequest true "Purchase request"
// @Success 200 {object} queries.CreditBalanceView
// @Failure 400 {object} map[string]string
// @Router /credits/purchase [post]
func (h *CreditHandler) PurchaseCredits(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.PurchaseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.creditCommands.PurchaseCredits(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCreditAmount):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Credit amount must be positive",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Get credit balance
// @Description Get the supplier's current credit balance
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} queries.CreditBalanceView
// @Failure 404 {object} map[string]string
// @Router /credits/balance [get]
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	view, err := h.creditQueries.BalanceByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Credit balance not found",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List credit transactions
// @Description List the supplier's credit ledger entries, newest first
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.CreditTransactionView
// @Router /credits/transactions [get]
func (h *CreditHandler) ListTransactions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, offset := parsePage(c)
	views, err := h.creditQueries.TransactionsByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}
