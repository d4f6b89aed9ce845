package database

import (
	"context"
	"fmt"
	"log/slog"

	"bookmarksync/config"
)

// Open builds the KVStore selected by the storage configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (KVStore, error) {
	switch cfg.Type {
	case "", "file":
		path := cfg.File.Path
		if path == "" {
			path = "./data" // Default path
		}
		slog.Info("Using file store", "path", path)
		return NewFileStore(path)
	case "mongodb":
		slog.Info("Using MongoDB store", "database", cfg.MongoDB.DatabaseName)
		return NewMongoStore(ctx, cfg.MongoDB.ConnectionString, cfg.MongoDB.DatabaseName)
	case "redis":
		slog.Info("Using Redis store", "addr", cfg.Redis.Addr, "key", cfg.Redis.Key)
		return NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Key)
	case "sqlite":
		slog.Info("Using SQLite store", "path", cfg.SQLite.Path)
		return NewSQLiteStore(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
	}
}
