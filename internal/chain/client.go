// Package chain is a thin client for the chain node's HTTP RPC. The indexer
// only needs the account endpoint; everything else is served from its own
// database.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/golos-tools/wallet-indexer/internal/logger"
)

// Account is the slice of the node's get_account response the indexer reads.
// StakeInfo is passed through verbatim; its layout belongs to the node.
type Account struct {
	AccountName string          `json:"account_name"`
	Created     string          `json:"created"`
	StakeInfo   json.RawMessage `json:"stake_info"`
}

// Client fetches account state from a chain node.
type Client interface {
	// GetAccount returns the node's view of an account
	GetAccount(ctx context.Context, account string) (*Account, error)
}

// RPCClient implements Client over the node's HTTP RPC endpoint.
type RPCClient struct {
	endpoint string
	client   *http.Client
}

// NewRPCClient creates a client for the node at endpoint (scheme and host,
// no path).
func NewRPCClient(endpoint string, timeout time.Duration) *RPCClient {
	return &RPCClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type getAccountRequest struct {
	AccountName string `json:"account_name"`
}

// GetAccount posts to /v1/chain/get_account and decodes the reply.
func (c *RPCClient) GetAccount(ctx context.Context, account string) (*Account, error) {
	payload, err := json.Marshal(getAccountRequest{AccountName: account})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, err := c.post(ctx, c.endpoint+"/v1/chain/get_account", payload)
	if err != nil {
		return nil, err
	}

	var result Account
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// post executes the request with exponential backoff. Rate limiting and
// network errors are retried; any other non-OK status is permanent.
func (c *RPCClient) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	var respBody []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to perform request: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err), zap.String("url", url))
			}
		}()

		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("node rate limited, retrying with backoff", zap.String("url", url))
			return fmt.Errorf("rate limited (429), retrying")
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)))
		}

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second
	b.RandomizationFactor = 0.5

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", err)
	}

	return respBody, nil
}
