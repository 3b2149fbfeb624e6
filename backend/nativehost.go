package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"multiplatform-example/backend/extension"
	"multiplatform-example/backend/history"
	"multiplatform-example/backend/settings"
)

// RunNativeMessagingHost serves the browser extension on r/w. Entries go to
// the history inbox in configDir, where the UI process picks them up.
func RunNativeMessagingHost(ctx context.Context, configDir string, r io.Reader, w io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := settings.LoadSettings(configDir)
	if err != nil {
		logger.Warn("Error loading settings, using defaults", "error", err)
		cfg = settings.DefaultSettings()
	}

	db, err := OpenHistoryDB(configDir)
	if err != nil {
		return err
	}
	defer db.Close()

	inbox := history.NewService(db, cfg.HistoryLimit, filepath.Join(configDir, history.SignalFileName))
	if err := inbox.Initialize(); err != nil {
		return fmt.Errorf("initialize history inbox: %w", err)
	}

	logger.Info("Native messaging host started")
	return extension.NewHost(inbox, logger).Serve(ctx, r, w)
}
