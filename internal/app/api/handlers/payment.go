package handlers

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/foodybuddy/payments/internal/app/service/payment"
	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/response"
	"github.com/foodybuddy/payments/pkg/types"
)

type processPaymentReq struct {
	OrderID string `json:"order_id" binding:"required"`
	// Amount in decimal currency units; stored as integer minor units.
	Amount float64             `json:"amount"`
	Method types.PaymentMethod `json:"method" binding:"required"`
}

type paymentResp struct {
	ID            int64               `json:"id"`
	PaymentID     string              `json:"payment_id"`
	OrderID       string              `json:"order_id"`
	Amount        float64             `json:"amount"`
	AmountCents   int64               `json:"amount_cents"`
	Method        types.PaymentMethod `json:"method"`
	Status        types.PaymentStatus `json:"status"`
	TransactionID string              `json:"transaction_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func toPaymentResp(p *models.Payment) *paymentResp {
	return &paymentResp{
		ID:            p.ID,
		PaymentID:     p.PaymentID,
		OrderID:       p.OrderID,
		Amount:        float64(p.AmountCents) / 100,
		AmountCents:   p.AmountCents,
		Method:        p.Method,
		Status:        p.Status,
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPaymentResps(ps []*models.Payment) []*paymentResp {
	return lo.Map(ps, func(p *models.Payment, _ int) *paymentResp { return toPaymentResp(p) })
}

// respondError maps the engine error taxonomy to HTTP statuses and envelope
// codes. Each kind gets a distinct outcome; nothing else leaks to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, payment.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	case errors.Is(err, payment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeInvalidTransition, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, "internal error"))
	}
}

// @Summary      Process payment
// @Description  Creates a payment for an order and drives it to a terminal status. A failed gateway decision yields status FAILED, not an HTTP error.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.processPaymentReq true "Payment request"
// @Success      201  {object}  response.APIResponse[paymentResp]
// @Router       /api/v1/payments/process [post]
func ApiProcessPayment(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req processPaymentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "amount must be a finite number"))
			return
		}

		p, err := engine.ProcessPayment(c.Request.Context(), &payment.ProcessPaymentRequest{
			OrderID:     req.OrderID,
			AmountCents: int64(math.Round(req.Amount * 100)),
			Method:      req.Method,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(toPaymentResp(p)))
	}
}

// @Summary      Get payment
// @Tags         Payment
// @Produce      json
// @Param        paymentId path string true "Payment ID"
// @Success      200  {object}  response.APIResponse[paymentResp]
// @Router       /api/v1/payments/{paymentId} [get]
func ApiGetPayment(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := engine.GetPayment(c.Request.Context(), c.Param("paymentId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentResp(p)))
	}
}

// @Summary      List payments for an order
// @Tags         Payment
// @Produce      json
// @Param        orderId path string true "Order ID"
// @Success      200  {object}  response.APIResponse[[]paymentResp]
// @Router       /api/v1/payments/order/{orderId} [get]
func ApiGetPaymentsByOrder(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := engine.GetPaymentsByOrderID(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentResps(ps)))
	}
}

// @Summary      List payments by status
// @Tags         Payment
// @Produce      json
// @Param        status path string true "Payment status"
// @Success      200  {object}  response.APIResponse[[]paymentResp]
// @Router       /api/v1/payments/status/{status} [get]
func ApiGetPaymentsByStatus(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := engine.GetPaymentsByStatus(c.Request.Context(), types.PaymentStatus(c.Param("status")))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentResps(ps)))
	}
}

// @Summary      List all payments
// @Tags         Payment
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]paymentResp]
// @Router       /api/v1/payments [get]
func ApiGetAllPayments(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		ps, err := engine.GetAllPayments(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentResps(ps)))
	}
}

// @Summary      Refund payment
// @Description  Refunds a COMPLETED payment. Any other status is rejected.
// @Tags         Payment
// @Produce      json
// @Param        paymentId path string true "Payment ID"
// @Success      200  {object}  response.APIResponse[paymentResp]
// @Router       /api/v1/payments/{paymentId}/refund [post]
func ApiRefundPayment(engine payment.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := engine.RefundPayment(c.Request.Context(), c.Param("paymentId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentResp(p)))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, engine payment.Engine) {
	r.POST("/process", ApiProcessPayment(engine))
	r.GET("", ApiGetAllPayments(engine))
	r.GET("/:paymentId", ApiGetPayment(engine))
	r.POST("/:paymentId/refund", ApiRefundPayment(engine))
	r.GET("/order/:orderId", ApiGetPaymentsByOrder(engine))
	r.GET("/status/:status", ApiGetPaymentsByStatus(engine))
}
