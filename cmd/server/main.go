package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ryandielhenn/gossipcache/internal/config"
	"github.com/ryandielhenn/gossipcache/internal/telemetry"
	"github.com/ryandielhenn/gossipcache/pkg/gossip"
	"github.com/ryandielhenn/gossipcache/pkg/mcache"
	"github.com/ryandielhenn/gossipcache/pkg/node"
)

var (
	version = "dev"
	gitSHA  = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv("GOSSIPCACHE_CONFIG"), "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatal(err)
	}
}

func run(configPath string) error {
	// 1. Load config and build the logger
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer logger.Sync()

	telemetry.SetBuildInfo(version, gitSHA)

	// 2. Initialize the message cache
	cache, err := mcache.New(cfg.MCache(),
		mcache.WithLogger(logger.Named("mcache")),
		mcache.WithMetrics(telemetry.NewCacheCollector(telemetry.Registry)),
	)
	if err != nil {
		return err
	}
	logger.Info("message cache ready",
		zap.Int("gossip_window", cfg.Cache.GossipWindow),
		zap.Int("history_length", cfg.Cache.HistoryLength),
		zap.String("id_strategy", cfg.Cache.IDStrategy))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start the heartbeat. No transport is wired in this binary, so IHAVE
	// batches are only logged.
	hbLog := logger.Named("heartbeat")
	adv := gossip.AdvertiserFunc(func(_ context.Context, ihave gossip.IHave) error {
		hbLog.Debug("ihave", zap.String("topic", ihave.Topic), zap.Strings("ids", ihave.IDs))
		return nil
	})
	topics := cfg.Gossip.Topics
	hb, err := gossip.NewHeartbeat(cache, adv, gossip.HeartbeatConfig{
		Interval: cfg.Gossip.HeartbeatInterval,
		Topics:   func() []string { return topics },
		Logger:   hbLog,
	})
	if err != nil {
		return err
	}
	if err := hb.Start(ctx); err != nil {
		return err
	}
	defer hb.Stop()

	// 4. Wire up HTTP node endpoints
	iwant := gossip.NewIWantHandler(cache, cfg.Gossip.MaxRetransmission, logger.Named("iwant"))
	n := node.NewNode(cache, iwant, cfg.Server.HTTPAddr, logger.Named("node"))
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           n.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gossipcache node listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
