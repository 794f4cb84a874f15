package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/medchain/internal/config"
	"github.com/gabapcia/medchain/internal/handlers/cli"
	"github.com/gabapcia/medchain/internal/infra/notify/kafka"
	"github.com/gabapcia/medchain/internal/infra/notify/redis"
	"github.com/gabapcia/medchain/internal/infra/notify/webhook"
	"github.com/gabapcia/medchain/internal/pkg/logger"
	"github.com/gabapcia/medchain/internal/pkg/resilience/retry"
	"github.com/gabapcia/medchain/internal/pkg/telemetry"
	httptransport "github.com/gabapcia/medchain/internal/pkg/transport/http"
	"github.com/gabapcia/medchain/internal/supplychain"
	"github.com/gabapcia/medchain/internal/txsim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error(ctx, "medchain failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.TelemetryEnabled {
		shutdown, initErr := telemetry.Init(ctx, cfg.ServiceName)
		if initErr != nil {
			return initErr
		}
		defer func() { err = errors.Join(err, shutdown(context.WithoutCancel(ctx))) }()
	}

	sim := txsim.New(simulatorOptions(cfg.Simulator)...)

	notifiers, closers, err := buildNotifiers(ctx, cfg.Notify, cfg.LogLevel == "debug")
	defer func() {
		for _, c := range closers {
			if closeErr := c.Close(); closeErr != nil {
				logger.Warn(ctx, "failed to close notifier", "error", closeErr)
			}
		}
	}()
	if err != nil {
		return err
	}

	sc := supplychain.New(sim,
		supplychain.WithNotifiers(notifiers...),
		supplychain.WithRetry(retry.New(
			retry.WithAttempts(cfg.Notify.RetryAttempts),
			retry.WithDelay(cfg.Notify.RetryDelay),
			retry.WithMaxDelay(cfg.Notify.RetryMaxDelay),
			retry.WithOnRetry(func(attempt uint, err error) {
				logger.Warn(ctx, "retrying notification delivery", "attempt", attempt+1, "error", err)
			}),
		)),
	)

	return cli.Run(ctx, sim, sc)
}

func simulatorOptions(cfg config.Simulator) []txsim.Option {
	opts := []txsim.Option{
		txsim.WithNetwork(txsim.Network{
			ChainID:   cfg.ChainID,
			NetworkID: cfg.NetworkID,
			Name:      cfg.NetworkName,
		}),
		txsim.WithFees(txsim.FeeSchedule{
			GasPrice:             cfg.GasPrice,
			MaxPriorityFeePerGas: cfg.MaxPriorityFeePerGas,
			MaxFeePerGas:         cfg.MaxFeePerGas,
		}),
		txsim.WithConfirmationDelay(cfg.ConfirmationMinDelay, cfg.ConfirmationMaxDelay),
	}

	if cfg.Seed != nil {
		opts = append(opts, txsim.WithRandomness(txsim.NewRandomness(*cfg.Seed)))
	}

	return opts
}

// buildNotifiers connects every configured sink. Closers are returned even
// on error so already opened sinks can be released.
func buildNotifiers(ctx context.Context, cfg config.Notify, debug bool) ([]supplychain.Notifier, []io.Closer, error) {
	var (
		notifiers []supplychain.Notifier
		closers   []io.Closer
	)

	if cfg.RedisAddr != "" {
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB, cfg.RedisChannel)
		if err != nil {
			return nil, closers, err
		}
		notifiers = append(notifiers, client)
		closers = append(closers, client)
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, closers, err
		}
		notifiers = append(notifiers, producer)
		closers = append(closers, producer)
	}

	if cfg.WebhookURL != "" {
		opts := []httptransport.Option{
			httptransport.WithTimeout(cfg.WebhookTimeout),
			httptransport.WithRetryMax(cfg.WebhookRetryMax),
		}
		if debug {
			opts = append(opts, httptransport.WithRequestLogging())
		}
		notifiers = append(notifiers, webhook.NewClient(cfg.WebhookURL, opts...))
	}

	return notifiers, closers, nil
}
