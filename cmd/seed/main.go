// Command seed loads stores, products and product categories from a YAML
// file into the database.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"linecut/internal/database"
	"linecut/internal/logging"
	"linecut/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	dsn := pflag.StringP("database_uri", "d", os.Getenv("DATABASE_URI"), "database URI")
	file := pflag.StringP("file", "f", "catalog.yaml", "catalog YAML file")
	pflag.Parse()

	closeLog := logging.Setup(logging.Options{Level: "info", Format: "text"})
	defer closeLog()

	data, err := os.ReadFile(*file)
	if err != nil {
		slog.Error("failed to read catalog", "file", *file, "error", err)
		os.Exit(1)
	}
	catalog, err := service.ParseCatalog(data)
	if err != nil {
		slog.Error("invalid catalog", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := database.NewDB(ctx, *dsn)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	if err := database.InitSchema(ctx, db); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}
	if err := service.NewStoreService(db).Import(ctx, catalog); err != nil {
		slog.Error("failed to import catalog", "error", err)
		os.Exit(1)
	}
}
