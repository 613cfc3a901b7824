package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/foodybuddy/payments/internal/app/service/statistics"
	"github.com/foodybuddy/payments/pkg/response"
)

// @Summary      Scan payments
// @Description  Paginated admin listing with column filters.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.ScanPaymentsRequest true "Scan request"
// @Success      200  {object}  response.APIResponse[statistics.ScanPaymentsResponse]
// @Router       /api/v1/admin/payments/scan [post]
func ApiScanPayments(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.ScanPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := stats.ScanPayments(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Payment statistics
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.APIResponse[statistics.Summary]
// @Router       /api/v1/admin/payments/statistics [get]
func ApiPaymentStatistics(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := stats.Summary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Daily completed volume
// @Tags         Admin
// @Produce      json
// @Param        days query int false "Window in days (default 7)"
// @Success      200  {object}  response.APIResponse[[]statistics.DailyVolume]
// @Router       /api/v1/admin/payments/statistics/daily [get]
func ApiDailyVolume(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
		res, err := stats.DailyCompletedVolume(c.Request.Context(), days)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminPaymentRoutes(r gin.IRouter, stats *statistics.Service) {
	r.POST("/payments/scan", ApiScanPayments(stats))
	r.GET("/payments/statistics", ApiPaymentStatistics(stats))
	r.GET("/payments/statistics/daily", ApiDailyVolume(stats))
}
