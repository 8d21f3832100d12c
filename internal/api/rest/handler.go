package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/params"
	"github.com/golos-tools/wallet-indexer/internal/query"
	"github.com/golos-tools/wallet-indexer/internal/vesting"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetBalance returns the composite balance view for an account
	// GET /api/v1/balances/:userId?currencies=a,b|all&type=liquid|vesting&stake=true
	GetBalance(c *gin.Context)

	// GetVestingInfo returns the raw vesting supply document
	// GET /api/v1/vesting/info
	GetVestingInfo(c *gin.Context)

	// ConvertTokens converts a liquid token quantity into vesting shares
	// POST /api/v1/vesting/convert/tokens
	ConvertTokens(c *gin.Context)

	// ConvertShares converts a vesting share quantity into liquid tokens
	// POST /api/v1/vesting/convert/shares
	ConvertShares(c *gin.Context)

	// GetDelegationProposals lists pending delegation proposals for an account
	// GET /api/v1/vesting/proposals?app=<app>&userId=<userId>
	GetDelegationProposals(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	query  *query.Builder
	engine *vesting.Engine
}

// NewHandler creates a new REST API handler
func NewHandler(builder *query.Builder, engine *vesting.Engine) Handler {
	return &handler{
		query:  builder,
		engine: engine,
	}
}

// GetBalance returns the composite balance view for an account
func (h *handler) GetBalance(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		respondError(c, domain.WrongArguments("userId is required"))
		return
	}

	currencies := []string{query.CurrencyAll}
	if raw := c.Query("currencies"); raw != "" {
		currencies = strings.Split(raw, ",")
	}

	view, err := h.query.Balance(c.Request.Context(), query.BalanceRequest{
		UserID:     userID,
		Currencies: currencies,
		Type:       c.DefaultQuery("type", query.TypeAll),
		FetchStake: c.Query("stake") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetVestingInfo returns the raw vesting supply document
func (h *handler) GetVestingInfo(c *gin.Context) {
	info, err := h.engine.Info(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if info == nil {
		respondError(c, domain.DataAbsent("no records about vesting stats in base"))
		return
	}

	c.Data(http.StatusOK, "application/json", info)
}

// ConvertTokens converts a liquid token quantity into vesting shares
func (h *handler) ConvertTokens(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, domain.WrongArguments("invalid request body"))
		return
	}

	tokens, err := params.SingleArgument(body, "tokens")
	if err != nil {
		respondError(c, err)
		return
	}

	shares, err := h.engine.TokenToShares(c.Request.Context(), tokens)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vesting": shares})
}

// ConvertShares converts a vesting share quantity into liquid tokens
func (h *handler) ConvertShares(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, domain.WrongArguments("invalid request body"))
		return
	}

	shares, err := params.SingleArgument(body, "vesting")
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := h.engine.SharesToToken(c.Request.Context(), shares)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// GetDelegationProposals lists pending delegation proposals for an account
func (h *handler) GetDelegationProposals(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		respondError(c, domain.WrongArguments("userId is required"))
		return
	}
	app := c.DefaultQuery("app", query.GolosCommunityID)

	rows, err := h.query.DelegationProposals(c.Request.Context(), app, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
