package chain_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golos-tools/wallet-indexer/internal/chain"
	"github.com/golos-tools/wallet-indexer/internal/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestGetAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chain/get_account", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req["account_name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"account_name": "alice",
			"created": "2021-05-01T00:00:00.000",
			"stake_info": {"staked": 100, "effective": 80}
		}`))
	}))
	defer server.Close()

	client := chain.NewRPCClient(server.URL, 5*time.Second)

	account, err := client.GetAccount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.AccountName)
	assert.JSONEq(t, `{"staked": 100, "effective": 80}`, string(account.StakeInfo))
}

func TestGetAccount_NodeErrorIsPermanent(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": "unknown account"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := chain.NewRPCClient(server.URL, 5*time.Second)

	_, err := client.GetAccount(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code 500")
	assert.Equal(t, 1, calls)
}

func TestGetAccount_RetriesRateLimit(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"account_name": "alice"}`))
	}))
	defer server.Close()

	client := chain.NewRPCClient(server.URL, 5*time.Second)

	account, err := client.GetAccount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.AccountName)
	assert.Equal(t, 2, calls)
}
