package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/config"
	"github.com/Veraticus/trendscout/internal/service"
	"github.com/Veraticus/trendscout/internal/sheets"
	"github.com/Veraticus/trendscout/internal/storage"
)

const defaultDatabasePath = "$HOME/.local/share/scout/scout.db"

// Store backends selectable with --store.
const (
	storeSQLite = "sqlite"
	storeSheets = "sheets"
)

// initStorage opens the SQLite database with proper path expansion and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initSheets connects to the configured spreadsheet. It returns nil and no
// error when Sheets is not configured.
func initSheets(ctx context.Context) (*sheets.Store, error) {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if errors.Is(err, common.ErrMissingConfig) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sheets.NewStore(ctx, *cfg, slog.Default())
}

// openProductStore returns the backend named by --store and a cleanup func.
func openProductStore(ctx context.Context, backend string) (service.ProductStore, func(), error) {
	switch backend {
	case storeSQLite, "":
		store, err := initStorage(ctx)
		if err != nil {
			return nil, nil, common.NewUserError("Could not open the product database", err)
		}
		return store, func() { _ = store.Close() }, nil

	case storeSheets:
		store, err := initSheets(ctx)
		if err != nil {
			return nil, nil, common.NewUserError("Could not connect to Google Sheets", err)
		}
		if store == nil {
			return nil, nil, common.NewUserError(
				"Google Sheets is not configured (set sheets.spreadsheet_id or GOOGLE_SHEETS_SPREADSHEET_ID)",
				common.ErrMissingConfig)
		}
		return store, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown store %q (use sqlite or sheets)", common.ErrInvalidConfig, backend)
	}
}
