// Package messaging consumes the transaction feed from JetStream and hands
// each batch to the disperser.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/golos-tools/wallet-indexer/internal/disperser"
	"github.com/golos-tools/wallet-indexer/internal/domain"
	"github.com/golos-tools/wallet-indexer/internal/logger"
)

// Config holds the configuration for the feed subscriber.
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	ConnectionName string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	AckWaitTimeout time.Duration
	MaxDeliver     int
}

// Subscriber is a durable JetStream consumer feeding the disperser.
//
// Messages are processed strictly one at a time: per-account upserts must be
// applied in delivery order, so there is no per-message goroutine here.
type Subscriber struct {
	nc        *nats.Conn
	js        jetstream.JetStream
	disperser *disperser.Disperser
	config    Config
}

// NewSubscriber connects to NATS and prepares a subscriber.
func NewSubscriber(cfg Config, d *disperser.Disperser) (*Subscriber, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{
		nc:        nc,
		js:        js,
		disperser: d,
		config:    cfg,
	}, nil
}

// Run consumes the transaction subject until ctx is canceled.
func (s *Subscriber) Run(ctx context.Context) error {
	logger.Info("Starting feed subscriber",
		zap.String("stream", s.config.StreamName),
		zap.String("consumer", s.config.ConsumerName),
		zap.String("subject", s.config.Subject))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       s.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       s.config.AckWaitTimeout,
		MaxDeliver:    s.config.MaxDeliver,
		FilterSubject: s.config.Subject,
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.Info("Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan jetstream.Msg, 100)
	sub, err := consumer.Consume(func(msg jetstream.Msg) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	logger.Info("Started consuming messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down feed subscriber")
			return ctx.Err()
		case msg := <-msgChan:
			s.handleMessage(ctx, msg)
		}
	}
}

// handleMessage processes one feed message. An unparseable payload is
// terminated since redelivery cannot fix it; a dispersal failure is NAKed
// and redelivered up to MaxDeliver times.
func (s *Subscriber) handleMessage(ctx context.Context, msg jetstream.Msg) {
	metadata, _ := msg.Metadata()

	var batch domain.TransactionBatch
	if err := json.Unmarshal(msg.Data(), &batch); err != nil {
		logger.Error(err, zap.String("message", "Failed to unmarshal transaction batch"))
		if err := msg.Term(); err != nil {
			logger.Error(err, zap.String("message", "Failed to terminate message"))
		}
		return
	}

	if metadata != nil {
		logger.Info("Received transaction batch",
			zap.Int("transactions", len(batch.Transactions)),
			zap.Uint64("deliveryCount", metadata.NumDelivered))
	}

	if err := s.disperser.Disperse(ctx, batch.Transactions); err != nil {
		logger.Error(err, zap.String("message", "Failed to disperse transaction batch"))
		if err := msg.Nak(); err != nil {
			logger.Error(err, zap.String("message", "Failed to NAK message"))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		logger.Error(err, zap.String("message", "Failed to ACK message"))
	}
}

// Close closes the NATS connection.
func (s *Subscriber) Close() {
	if s.nc == nil {
		return
	}
	s.nc.Close()
}
