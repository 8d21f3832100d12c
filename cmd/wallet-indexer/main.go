package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/golos-tools/wallet-indexer/internal/api/server"
	"github.com/golos-tools/wallet-indexer/internal/chain"
	"github.com/golos-tools/wallet-indexer/internal/config"
	"github.com/golos-tools/wallet-indexer/internal/disperser"
	"github.com/golos-tools/wallet-indexer/internal/logger"
	"github.com/golos-tools/wallet-indexer/internal/messaging"
	"github.com/golos-tools/wallet-indexer/internal/query"
	"github.com/golos-tools/wallet-indexer/internal/store"
	"github.com/golos-tools/wallet-indexer/internal/store/schema"
	"github.com/golos-tools/wallet-indexer/internal/vesting"
)

var (
	configPath = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "", "Path to the directory holding .env files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Wallet Indexer")

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.ConfigureConnectionPool(db,
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}
	if err := schema.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Initialize store and domain services
	dataStore := store.NewPGStore(db)

	chainClient := chain.NewRPCClient(cfg.Chain.RPCURL, cfg.Chain.Timeout)

	engine := vesting.NewEngine(vesting.Config{
		PoolAccount:      cfg.Vesting.PoolAccount,
		TokenSymbol:      cfg.Vesting.TokenSymbol,
		ShareSymbol:      cfg.Vesting.ShareSymbol,
		WithdrawInterval: cfg.Vesting.WithdrawInterval,
	}, dataStore)

	builder := query.NewBuilder(dataStore, engine, chainClient)

	d := disperser.New(disperser.Config{
		TokenContract:   cfg.Contracts.Token,
		VestingContract: cfg.Contracts.Vesting,
		ControlContract: cfg.Contracts.Control,
		SocialContract:  cfg.Contracts.Social,
	}, dataStore)

	// Create feed subscriber
	subscriber, err := messaging.NewSubscriber(messaging.Config{
		URL:            cfg.NATS.URL,
		StreamName:     cfg.NATS.StreamName,
		ConsumerName:   cfg.NATS.ConsumerName,
		ConnectionName: cfg.NATS.ConnectionName,
		Subject:        cfg.NATS.Subject,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
		AckWaitTimeout: cfg.NATS.AckWait,
		MaxDeliver:     cfg.NATS.MaxDeliver,
	}, d)
	if err != nil {
		logger.Fatal("Failed to create feed subscriber", zap.Error(err))
	}
	defer subscriber.Close()

	// Create API server
	apiServer := server.New(server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}, builder, engine)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 2)

	// Start the subscriber
	go func() {
		if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	// Start the API server
	go func() {
		if err := apiServer.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error(err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(err)
	}

	logger.Info("Wallet Indexer stopped")
}
