package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRegisterPaymentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/payments")
	RegisterPaymentRoutes(g, nil)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/payments/process"))
	require.True(t, contains("GET /api/v1/payments"))
	require.True(t, contains("GET /api/v1/payments/:paymentId"))
	require.True(t, contains("POST /api/v1/payments/:paymentId/refund"))
	require.True(t, contains("GET /api/v1/payments/order/:orderId"))
	require.True(t, contains("GET /api/v1/payments/status/:status"))
}
