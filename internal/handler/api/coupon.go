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

type CouponHandler struct {
	couponCommands commands.CouponCommands
	couponQueries  queries.CouponQueries
}

func NewCouponHandler(couponCommands commands.CouponCommands, couponQueries queries.CouponQueries) *CouponHandler {
	return &CouponHandler{
		couponCommands: couponCommands,
		couponQueries:  couponQueries,
	}
}

// @Summary Generate coupon
// @Description Generate a coupon for an active deal
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GenerateCouponRequest true "Coupon request"
// @Success 201 {object} queries.CouponView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /coupons [post]
func (h *CouponHandler) GenerateCoupon(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.GenerateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	view, err := h.couponCommands.GenerateCoupon(c.Request.Context(), req, buyerID)
	if err != nil {
		h.mapCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

// @Summary Redeem coupon
// @Description Redeem a coupon presented at the supplier's point of sale
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemCouponRequest true "Redemption request"
// @Success 200 {object} queries.CouponView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 410 {object} map[string]string
// @Router /coupons/redeem [post]
func (h *CouponHandler) RedeemCoupon(c *gin.Context) {
	supplierID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.RedeemCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	ip := c.ClientIP()
	userAgent := c.Request.UserAgent()
	rc := commands.RedemptionContext{
		Location:  req.Location,
		Notes:     req.Notes,
		IPAddress: &ip,
		UserAgent: &userAgent,
	}

	view, err := h.couponCommands.RedeemCoupon(c.Request.Context(), req, supplierID, rc)
	if err != nil {
		h.mapCouponError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary List my coupons
// @Description List coupons held by the current buyer
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.CouponView
// @Router /coupons [get]
func (h *CouponHandler) ListMyCoupons(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, offset := parsePage(c)
	views, err := h.couponQueries.ListByBuyer(c.Request.Context(), buyerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary List issued coupons
// @Description List coupons issued against the current supplier's deals
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.CouponView
// @Router /coupons/issued [get]
func (h *CouponHandler) ListIssuedCoupons(c *gin.Context) {
	supplierID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	limit, offset := parsePage(c)
	views, err := h.couponQueries.ListBySupplier(c.Request.Context(), supplierID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

// @Summary Get coupon by code
// @Description Look up a coupon by its code
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} queries.CouponView
// @Failure 404 {object} map[string]string
// @Router /coupons/{code} [get]
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	view, err := h.couponQueries.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Validate coupon
// @Description Check whether a coupon code can be redeemed, without touching it
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} queries.CouponValidationView
// @Router /coupons/validate/{code} [get]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	view, err := h.couponQueries.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary Coupon redemption history
// @Description List the redemption audit trail for a coupon
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {array} queries.CouponRedemptionView
// @Failure 404 {object} map[string]string
// @Router /coupons/{code}/history [get]
func (h *CouponHandler) CouponHistory(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.couponQueries.GetByCode(c.Request.Context(), code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
		return
	}

	views, err := h.couponQueries.RedemptionHistory(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *CouponHandler) mapCouponError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Coupon not found",
		})
	case errors.Is(err, commands.ErrDealNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Deal not found",
		})
	case errors.Is(err, commands.ErrDealNotActive):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Deal is not active",
		})
	case errors.Is(err, commands.ErrCouponAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Coupon has already been redeemed",
		})
	case errors.Is(err, commands.ErrCouponExpired):
		c.JSON(http.StatusGone, gin.H{
			"error": "Coupon has expired",
		})
	case errors.Is(err, commands.ErrNotCouponSupplier):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Coupon belongs to another supplier",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
