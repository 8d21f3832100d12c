package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Balance endpoints (public read access)
		v1.GET("/balances/:userId", handler.GetBalance)

		// Vesting endpoints
		v1.GET("/vesting/info", handler.GetVestingInfo)
		v1.POST("/vesting/convert/tokens", handler.ConvertTokens)
		v1.POST("/vesting/convert/shares", handler.ConvertShares)
		v1.GET("/vesting/proposals", handler.GetDelegationProposals)
	}
}
