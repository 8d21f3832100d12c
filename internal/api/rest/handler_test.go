package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/golos-tools/wallet-indexer/internal/api/rest"
	"github.com/golos-tools/wallet-indexer/internal/chain"
	"github.com/golos-tools/wallet-indexer/internal/logger"
	"github.com/golos-tools/wallet-indexer/internal/query"
	"github.com/golos-tools/wallet-indexer/internal/store/schema"
	"github.com/golos-tools/wallet-indexer/internal/store/storetest"
	"github.com/golos-tools/wallet-indexer/internal/vesting"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubChain struct {
	account *chain.Account
}

func (s *stubChain) GetAccount(_ context.Context, _ string) (*chain.Account, error) {
	return s.account, nil
}

func newRouter(t *testing.T) (*gin.Engine, *storetest.Memory) {
	t.Helper()

	st := storetest.NewMemory()
	engine := vesting.NewEngine(vesting.Config{
		PoolAccount:      "gls.vesting",
		TokenSymbol:      "GOLOS",
		ShareSymbol:      "GESTS",
		WithdrawInterval: 7 * 24 * time.Hour,
	}, st)
	builder := query.NewBuilder(st, engine, &stubChain{})

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(builder, engine))
	return router, st
}

func seedLedger(t *testing.T, st *storetest.Memory) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.SaveToken(ctx, &schema.Token{Sym: "GOLOS", Supply: "100000.000 GOLOS"}))
	require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
		Name:     "gls.vesting",
		Balances: []string{"1000.000 GOLOS"},
	}))
	require.NoError(t, st.SaveVestingStat(ctx, &schema.VestingStat{
		Stat: datatypes.JSON(`{"supply":"2000.000000 GESTS"}`),
	}))
	require.NoError(t, st.SaveBalance(ctx, &schema.Balance{
		Name:     "alice",
		Balances: []string{"90.000 GOLOS"},
	}))
	require.NoError(t, st.SaveVestingBalance(ctx, &schema.VestingBalance{
		Account:   "alice",
		Vesting:   "500.000000 GESTS",
		Delegated: "0.000000 GESTS",
		Received:  "0.000000 GESTS",
	}))
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Code
}

func TestHealthCheck(t *testing.T) {
	router, _ := newRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetBalance(t *testing.T) {
	router, st := newRouter(t)
	seedLedger(t, st)

	w := doRequest(router, http.MethodGet, "/api/v1/balances/alice?currencies=all", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view struct {
		UserID string `json:"userId"`
		Liquid struct {
			Balances map[string]string `json:"balances"`
		} `json:"liquid"`
		Vesting struct {
			Total struct {
				Shares string `json:"GESTS"`
				Tokens string `json:"GOLOS"`
			} `json:"total"`
		} `json:"vesting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Equal(t, "alice", view.UserID)
	assert.Equal(t, "90.000", view.Liquid.Balances["GOLOS"])
	assert.Equal(t, "500.000000", view.Vesting.Total.Shares)
	assert.Equal(t, "250.000", view.Vesting.Total.Tokens)
}

func TestGetBalance_TypeLiquid(t *testing.T) {
	router, st := newRouter(t)
	seedLedger(t, st)

	w := doRequest(router, http.MethodGet, "/api/v1/balances/alice?currencies=all&type=liquid", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Contains(t, view, "liquid")
	assert.NotContains(t, view, "vesting")
}

func TestGetVestingInfo(t *testing.T) {
	router, st := newRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/vesting/info", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 811, errorCode(t, w))

	require.NoError(t, st.SaveVestingStat(context.Background(), &schema.VestingStat{
		Stat: datatypes.JSON(`{"supply":"2000.000000 GESTS"}`),
	}))

	w = doRequest(router, http.MethodGet, "/api/v1/vesting/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"supply":"2000.000000 GESTS"}`, w.Body.String())
}

func TestConvertTokens(t *testing.T) {
	router, st := newRouter(t)
	seedLedger(t, st)

	w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `{"tokens":"250.000 GOLOS"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"vesting":"500.000000 GESTS"}`, w.Body.String())

	// positional argument form
	w = doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `["250.000 GOLOS"]`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"vesting":"500.000000 GESTS"}`, w.Body.String())
}

func TestConvertShares(t *testing.T) {
	router, st := newRouter(t)
	seedLedger(t, st)

	w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/shares", `{"vesting":"500.000000 GESTS"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"tokens":"250.000 GOLOS"}`, w.Body.String())
}

func TestConvert_Errors(t *testing.T) {
	router, st := newRouter(t)
	seedLedger(t, st)

	t.Run("missing field", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `{"amount":"250.000 GOLOS"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 805, errorCode(t, w))
	})

	t.Run("malformed asset", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `{"tokens":"not an asset"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 805, errorCode(t, w))
	})

	t.Run("wrong scale", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/shares", `{"vesting":"500.000 GESTS"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 805, errorCode(t, w))
	})

	t.Run("invalid body", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `{not json`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestConvert_DataAbsent(t *testing.T) {
	router, _ := newRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/vesting/convert/tokens", `{"tokens":"250.000 GOLOS"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 811, errorCode(t, w))
}

func TestGetDelegationProposals(t *testing.T) {
	router, st := newRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/vesting/proposals?app=gls", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 805, errorCode(t, w))

	st.Proposals = []schema.DelegateVestingProposal{{
		ProposalID:       "p-1",
		Proposer:         "carol",
		UserID:           "alice",
		ToUserID:         "bob",
		Expiration:       time.Now().Add(24 * time.Hour),
		IsSignedByAuthor: true,
		CommunityID:      "gls",
	}}

	w = doRequest(router, http.MethodGet, "/api/v1/vesting/proposals?app=gls&userId=bob", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []struct {
			ProposalID string `json:"proposalId"`
			Proposer   string `json:"proposer"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "p-1", resp.Items[0].ProposalID)
	assert.Equal(t, "carol", resp.Items[0].Proposer)
}
