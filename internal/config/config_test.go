package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *Config)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
database:
  host: localhost
  port: 5433
  user: testuser
  password: testpass
  dbname: wallet
  sslmode: require
nats:
  url: "nats://localhost:4222"
  stream_name: "TEST_STREAM"
  consumer_name: "test-consumer"
  subject: "transactions.golos"
  max_reconnects: 5
  reconnect_wait: "5s"
  ack_wait: "1m"
  max_deliver: 7
server:
  port: 9090
chain:
  rpc_url: "http://localhost:8888"
vesting:
  pool_account: "test.vesting"
  withdraw_interval: "72h"
contracts:
  token: "test.token"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "wallet", cfg.Database.DBName)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "TEST_STREAM", cfg.NATS.StreamName)
				assert.Equal(t, "transactions.golos", cfg.NATS.Subject)
				assert.Equal(t, 5, cfg.NATS.MaxReconnects)
				assert.Equal(t, time.Minute, cfg.NATS.AckWait)
				assert.Equal(t, 7, cfg.NATS.MaxDeliver)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "http://localhost:8888", cfg.Chain.RPCURL)
				assert.Equal(t, "test.vesting", cfg.Vesting.PoolAccount)
				assert.Equal(t, 72*time.Hour, cfg.Vesting.WithdrawInterval)
				assert.Equal(t, "test.token", cfg.Contracts.Token)
				// untouched contract names keep their defaults
				assert.Equal(t, "gls.ctrl", cfg.Contracts.Control)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: wallet
`,
			expectError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "WALLET_TRANSACTIONS", cfg.NATS.StreamName)
				assert.Equal(t, "wallet-indexer", cfg.NATS.ConsumerName)
				assert.Equal(t, "transactions.>", cfg.NATS.Subject)
				assert.Equal(t, 10, cfg.NATS.MaxReconnects)
				assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
				assert.Equal(t, 3, cfg.NATS.MaxDeliver)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10*time.Second, cfg.Chain.Timeout)
				assert.Equal(t, "gls.vesting", cfg.Vesting.PoolAccount)
				assert.Equal(t, "GOLOS", cfg.Vesting.TokenSymbol)
				assert.Equal(t, "GESTS", cfg.Vesting.ShareSymbol)
				assert.Equal(t, 168*time.Hour, cfg.Vesting.WithdrawInterval)
				assert.Equal(t, "cyber.token", cfg.Contracts.Token)
				assert.Equal(t, "gls.vesting", cfg.Contracts.Vesting)
				assert.Equal(t, "gls.social", cfg.Contracts.Social)
			},
		},
		{
			name: "missing database host",
			configFile: `
database:
  dbname: wallet
`,
			expectError: true,
		},
		{
			name: "invalid yaml",
			configFile: `
				database:
				  host: localhost
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			configFile := filepath.Join(tmpDir, "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.configFile), 0600))

			cfg, err := Load(configFile, tmpDir)
			if tt.expectError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	tmpDir := t.TempDir()

	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: wallet
`), 0600))

	t.Setenv("WALLET_INDEXER_DATABASE_PASSWORD", "from-env")
	t.Setenv("WALLET_INDEXER_VESTING_POOL_ACCOUNT", "env.vesting")

	cfg, err := Load(configFile, tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env.vesting", cfg.Vesting.PoolAccount)
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "indexer",
		Password: "secret",
		DBName:   "wallet",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=indexer password=secret dbname=wallet sslmode=disable",
		cfg.DSN())
}
