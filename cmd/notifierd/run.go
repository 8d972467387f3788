package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"entity-notifier/internal/catalog"
	"entity-notifier/internal/config"
	"entity-notifier/internal/consumer"
	"entity-notifier/internal/core"
	"entity-notifier/internal/eventbus"
	"entity-notifier/internal/httpapi"
	"entity-notifier/internal/notifier"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the notifier with its HTTP surface and optional Redis bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDaemon(ctx, a.cfg, a.logger)
		},
	}
}

// logEvent is the handler used for configured subscriptions.
func logEvent(logger zerolog.Logger, subscription string) consumer.Handler {
	return func(_ context.Context, ev core.Event) error {
		logger.Info().
			Str("subscription", subscription).
			Str("event", ev.ID).
			Object("topic", notifier.TopicOf(ev)).
			Interface("attribute_value", ev.AttributeValue).
			Msg("event")
		return nil
	}
}

func runDaemon(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	n := notifier.New(
		notifier.WithQueueCapacity(cfg.QueueCapacity),
		notifier.WithLogger(logger),
		notifier.WithMetrics(notifier.NewMetrics(reg)),
	)
	sup := consumer.NewSupervisor(n, logger)

	configured := make(map[string]notifier.Topic, len(cfg.Subscriptions))
	for _, s := range cfg.Subscriptions {
		t, err := s.Topic()
		if err != nil {
			return fmt.Errorf("subscription %s: %w", s.Name, err)
		}
		configured[s.Name] = t
		if _, err := sup.Add(s.Name, t, logEvent(logger, s.Name)); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	muxOpts := []httpapi.Option{httpapi.WithGatherer(reg), httpapi.WithLogger(logger)}
	if cfg.Redis.Addr != "" {
		opts := &redis.Options{Addr: cfg.Redis.Addr}

		store := catalog.NewRedisStore(opts, cfg.Redis.CatalogPrefix, logger)
		defer store.Close()
		if err := syncCatalog(ctx, store, sup, configured, logger); err != nil {
			return err
		}

		bridge := eventbus.NewRedisBridge(opts, cfg.Redis.ChannelPrefix, logger)
		defer bridge.Close()
		for i, p := range cfg.Relay {
			t, err := p.Topic()
			if err != nil {
				return fmt.Errorf("relay[%d]: %w", i, err)
			}
			if err := bridge.Relay(ctx, t, n); err != nil {
				return err
			}
			logger.Info().Object("topic", t).Msg("relaying")
		}
		muxOpts = append(muxOpts, httpapi.WithForwarder(bridge))
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.NewMux(n, muxOpts...)}

	g.Go(func() error { return sup.Run(ctx) })
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("notifierd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// syncCatalog stores configured subscriptions and starts consumers for the
// stored ones that the configuration does not mention.
func syncCatalog(ctx context.Context, store catalog.Store, sup *consumer.Supervisor, configured map[string]notifier.Topic, logger zerolog.Logger) error {
	for name, t := range configured {
		if _, err := store.Put(ctx, name, t); err != nil {
			return err
		}
	}
	registrar := sup.Registrar(func(name string) consumer.Handler { return logEvent(logger, name) })
	restored, err := catalog.Restore(ctx, store, registrar, func(name string) bool {
		_, ok := configured[name]
		return ok
	})
	if err != nil {
		return err
	}
	for name, reg := range restored {
		logger.Info().Str("subscription", name).Object("topic", reg.Topic()).Msg("restored from catalog")
	}
	return nil
}
