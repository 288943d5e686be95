// Command goarcd runs the solver HTTP service. It wires the SQLite
// store and Redis solution cache into the API server and shuts down
// cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gitrdm/goarc/pkg/api"
	"github.com/gitrdm/goarc/pkg/storage"
	redisstore "github.com/gitrdm/goarc/pkg/storage/redis"
)

func main() {
	addr := flag.String("addr", ":8090", "HTTP listen address")
	dbPath := flag.String("db", "goarc.db", "SQLite database path, empty disables persistence")
	redisAddr := flag.String("redis", "", "Redis address for the solution cache, empty disables caching")
	cacheTTL := flag.Duration("cache-ttl", time.Hour, "solution cache TTL, 0 keeps entries forever")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	slog.Info("system started", "component", "goarcd")

	var store *storage.Store
	if *dbPath != "" {
		var err error
		store, err = storage.NewStore(*dbPath)
		if err != nil {
			slog.Error("failed to init store", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		slog.Info("store initialized", "path", *dbPath)
	}

	var cache *redisstore.SolutionCache
	if *redisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: *redisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			slog.Error("failed to reach redis", "addr", *redisAddr, "error", err)
			os.Exit(1)
		}
		cache = redisstore.NewSolutionCache(client, *cacheTTL)
		slog.Info("cache initialized", "addr", *redisAddr, "ttl", *cacheTTL)
	}

	server := api.NewServer(*addr, store, cache)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		slog.Info("shutdown initiated", "signal", sig.String())
	case err := <-errChan:
		if err != nil {
			slog.Error("server failed", "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		slog.Error("failed to stop server", "error", err)
	}

	if store != nil {
		if err := store.Close(); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}

	slog.Info("shutdown complete")
}
