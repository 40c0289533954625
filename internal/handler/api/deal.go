package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "business-daily-deals/internal/handler/dto/request"
	resdto "business-daily-deals/internal/handler/dto/response"
	"business-daily-deals/internal/handler/middleware"
	"business-daily-deals/internal/usecase/commands"
	"business-daily-deals/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DealHandler struct {
	dealCommands commands.DealCommands
	dealQueries  queries.DealQueries
}

func NewDealHandler(dealCommands commands.DealCommands, dealQueries queries.DealQueries) *DealHandler {
	return &DealHandler{
		dealCommands: dealCommands,
		dealQueries:  dealQueries,
	}
}

// @Summary List deals
// @Description List active deals, optionally filtered by category, type or supplier
// @Tags deals
// @Produce json
// @Param category query string false "Category filter, All means any"
// @Param deal_type query string false "hot or regular"
// @Param supplier_id query string false "Supplier ID filter"
// @Param include_expired query bool false "Include expired deals"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.DealListResponse
// @Router /deals [get]
func (h *DealHandler) ListDeals(c *gin.Context) {
	filter := queries.DealFilter{}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if dealType := c.Query("deal_type"); dealType != "" {
		filter.DealType = &dealType
	}
	if supplierStr := c.Query("supplier_id"); supplierStr != "" {
		supplierID, err := uuid.Parse(supplierStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid supplier ID format",
			})
			return
		}
		filter.SupplierID = &supplierID
	}
	if q := c.Query("q"); q != "" {
		filter.Search = &q
	}
	filter.IncludeExpired = c.Query("include_expired") == "true"

	limit, offset := parsePage(c)
	items, err := h.dealQueries.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDealListItems(items))
}

// @Summary List own deals
// @Description List the authenticated supplier's deals, expired ones on request
// @Tags deals
// @Produce json
// @Security BearerAuth
// @Param expired query bool false "Only expired deals"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} resdto.DealListResponse
// @Router /suppliers/me/deals [get]
func (h *DealHandler) ListMyDeals(c *gin.Context) {
	supplierID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	filter := queries.DealFilter{SupplierID: &supplierID}
	if c.Query("expired") == "true" {
		filter.OnlyExpired = true
	} else {
		filter.IncludeExpired = true
	}

	limit, offset := parsePage(c)
	items, err := h.dealQueries.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDealListItems(items))
}

// @Summary Get deal
// @Description Get deal by ID
// @Tags deals
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} resdto.DealResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{id} [get]
func (h *DealHandler) GetDeal(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}

	view, err := h.dealQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Deal not found",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromDealView(view))
}

// @Summary Create deal
// @Description Post a new deal; matching keyword subscribers are notified
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateDealRequest true "Deal request"
// @Success 201 {object} resdto.DealResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /deals [post]
func (h *DealHandler) CreateDeal(c *gin.Context) {
	supplierID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.dealCommands.CreateDeal(c.Request.Context(), req, supplierID)
	if err != nil {
		h.mapDealError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromDealView(view))
}

// @Summary Update deal
// @Description Update the content of an owned deal
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deal ID"
// @Param request body reqdto.UpdateDealRequest true "Fields to update"
// @Success 200 {object} resdto.DealResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{id} [patch]
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.dealCommands.UpdateDeal(c.Request.Context(), req, id, actorID)
	if err != nil {
		h.mapDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDealView(view))
}

// @Summary Delete deal
// @Description Delete an owned deal; issued coupons keep their snapshot
// @Tags deals
// @Security BearerAuth
// @Param id path string true "Deal ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{id} [delete]
func (h *DealHandler) DeleteDeal(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	if err := h.dealCommands.DeleteDeal(c.Request.Context(), id, actorID); err != nil {
		h.mapDealError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Extend deal
// @Description Push an active deal's expiry forward, billed in credit-days
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deal ID"
// @Param request body reqdto.ExtendDealRequest true "New expiry"
// @Success 200 {object} resdto.ExtendDealResponse
// @Failure 400 {object} map[string]string
// @Failure 402 {object} map[string]any
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{id}/extend [post]
func (h *DealHandler) ExtendDeal(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ExtendDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.dealCommands.ExtendDeal(c.Request.Context(), req, id, actorID)
	if err != nil {
		var ice *commands.InsufficientCreditsError
		if errors.As(err, &ice) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":           "Insufficient credits",
				"credits_needed":  ice.CreditsNeeded,
				"current_balance": ice.CurrentBalance,
				"shortfall":       ice.Shortfall,
			})
			return
		}
		h.mapDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromExtendResult(result))
}

// @Summary Reactivate deal
// @Description Bring an expired deal back with a new expiry, free of charge
// @Tags deals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Deal ID"
// @Param request body reqdto.ReactivateDealRequest true "New expiry"
// @Success 200 {object} resdto.DealResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /deals/{id}/reactivate [post]
func (h *DealHandler) ReactivateDeal(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.ReactivateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.dealCommands.ReactivateDeal(c.Request.Context(), req, id, actorID)
	if err != nil {
		h.mapDealError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromDealView(view))
}

// @Summary Record deal view
// @Description Increment the view counter
// @Tags deals
// @Param id path string true "Deal ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /deals/{id}/view [post]
func (h *DealHandler) RecordView(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}

	if err := h.dealCommands.RecordView(c.Request.Context(), id); err != nil {
		h.mapDealError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Record deal click
// @Description Increment the click counter
// @Tags deals
// @Param id path string true "Deal ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /deals/{id}/click [post]
func (h *DealHandler) RecordClick(c *gin.Context) {
	id, ok := parseDealID(c)
	if !ok {
		return
	}

	if err := h.dealCommands.RecordClick(c.Request.Context(), id); err != nil {
		h.mapDealError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *DealHandler) mapDealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrDealNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Deal not found",
		})
	case errors.Is(err, commands.ErrNotDealOwner):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not the owner of this deal",
		})
	case errors.Is(err, commands.ErrDealNotActive):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Deal is not active",
		})
	case errors.Is(err, commands.ErrDealNotExpired):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Deal has not expired",
		})
	case errors.Is(err, commands.ErrInvalidExpiry):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid expiry date",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

func parseDealID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid deal ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parsePage(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
