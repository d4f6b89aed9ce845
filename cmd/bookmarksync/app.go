package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"bookmarksync/api"
	"bookmarksync/config"
	"bookmarksync/internal/bookmarks"
	"bookmarksync/internal/database"
	"bookmarksync/internal/evaluator"
	"bookmarksync/internal/navigation"
	"bookmarksync/internal/rules"

	"golang.org/x/sync/errgroup"
)

// App wires the store, evaluator, API and navigation sources together.
type App struct {
	cfg       *config.Config
	kv        database.KVStore
	evaluator *evaluator.Evaluator
	server    *http.Server
	sources   []navigation.Source
}

func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Initialize(ctx context.Context) error {
	kv, err := database.Open(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open rule store: %w", err)
	}
	a.kv = kv

	store := rules.NewStore(kv)
	directory := bookmarks.NewChromeDirectory(a.cfg.Bookmarks.Path)
	a.evaluator = evaluator.New(store, directory, evaluator.NewMatcher(a.cfg.Evaluator.PatternTimeout))

	apiInstance := api.NewAPI()
	api.NewRuleHandlers(apiInstance.Huma, store)
	api.NewBookmarkHandlers(apiInstance.Huma, directory, store)
	api.NewNavigationHandlers(apiInstance.Huma, a.evaluator)
	a.server = apiInstance.Server(fmt.Sprintf(":%d", a.cfg.Server.Port))

	if k := a.cfg.Navigation.Kafka; k.Enabled {
		a.sources = append(a.sources, navigation.NewKafkaSource(k.Brokers, k.Topic, k.GroupID))
	}
	if c := a.cfg.Navigation.CDP; c.Enabled {
		a.sources = append(a.sources, navigation.NewBrowserSource(c.Endpoint))
	}
	return nil
}

// Run serves until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	handler := navigation.HandlerFunc(func(ctx context.Context, event navigation.Event) {
		a.evaluator.HandleEvent(ctx, event)
	})
	for _, src := range a.sources {
		g.Go(func() error {
			return src.Run(gCtx, handler)
		})
	}

	err := g.Wait()
	slog.Info("Service shutdown complete")
	return err
}

func (a *App) Close() {
	if a.kv == nil {
		return
	}
	if err := a.kv.Close(context.Background()); err != nil {
		slog.Warn("Failed to close rule store", "error", err)
	}
}
