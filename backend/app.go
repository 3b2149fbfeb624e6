package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"multiplatform-example/backend/api"
	"multiplatform-example/backend/autofill"
	"multiplatform-example/backend/bridge"
	"multiplatform-example/backend/history"
	"multiplatform-example/backend/settings"
	"multiplatform-example/backend/shared"
)

const historyDBFile = "history.db"

// uiEmitter is an Emitter whose UI surface comes and goes with the window
type uiEmitter interface {
	bridge.Emitter
	Attach(ctx context.Context)
	Detach()
}

// WindowToggle watches for the user's show/hide shortcut until ctx is done
type WindowToggle func(ctx context.Context) error

// App is bound to the frontend. Its exported methods are the commands the
// UI can invoke.
type App struct {
	ctx             context.Context
	cancel          context.CancelFunc
	version         string
	configDir       string
	db              *sql.DB
	startupComplete bool

	emitter        uiEmitter
	windowToggle   WindowToggle
	metrics        *bridge.Metrics
	commands       *bridge.Commands
	dispatcher     *bridge.Dispatcher
	historyService *history.Service
	watcher        *history.Watcher
	autofill       *autofill.Service
	apiServer      *api.Server
}

// NewApp creates a new App application struct
func NewApp() *App {
	slog.Info("Starting application", "app", shared.AppName)
	return newApp(bridge.NewWailsEmitter())
}

func newApp(emitter uiEmitter) *App {
	metrics := bridge.NewMetrics()
	commands := bridge.NewCommands(emitter, bridge.NewStubStore(nil), nil)

	return &App{
		emitter:    emitter,
		metrics:    metrics,
		commands:   commands,
		dispatcher: bridge.NewCommandDispatcher(commands, nil, metrics),
		autofill:   autofill.NewService(emitter, commands, nil),
	}
}

// SetVersion sets the app version
func (a *App) SetVersion(version string) {
	a.version = version
}

// SetWindowToggle installs the global shortcut watcher started on Startup
func (a *App) SetWindowToggle(toggle WindowToggle) {
	a.windowToggle = toggle
}

// Startup is called when the app starts. The page is not loaded yet, so
// events are held back until DomReady attaches the emitter.
func (a *App) Startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)

	configDir, err := settings.GetConfigDir()
	if err != nil {
		slog.Error("Error getting config directory", "error", err)
		return
	}
	a.configDir = configDir
	cfg := settings.InitSettings(configDir)

	a.startHistory(configDir, cfg)

	a.apiServer = api.NewServer(cfg.APIPort, a.metrics.Registry(), nil)
	a.apiServer.Start()

	a.startWindowToggle(cfg)

	a.startupComplete = true
}

// startHistory opens the inbox and starts draining it into report_history
func (a *App) startHistory(configDir string, cfg *settings.Settings) {
	db, err := OpenHistoryDB(configDir)
	if err != nil {
		slog.Error("Error opening history database", "error", err)
		return
	}
	a.db = db

	signal := filepath.Join(configDir, history.SignalFileName)
	a.historyService = history.NewService(db, cfg.HistoryLimit, signal)
	if err := a.historyService.Initialize(); err != nil {
		slog.Error("Error initializing history inbox", "error", err)
		return
	}

	a.watcher = history.NewWatcher(a.historyService, a.commands, signal, nil)
	go func() {
		if err := a.watcher.Run(a.context()); err != nil {
			slog.Error("History watcher stopped", "error", err)
		}
	}()
}

func (a *App) startWindowToggle(cfg *settings.Settings) {
	if !cfg.HotkeyEnabled || a.windowToggle == nil {
		return
	}
	if err := a.windowToggle(a.context()); err != nil {
		slog.Warn("Global shortcut unavailable", "error", err)
	}
}

// attachUI opens the event channel and reports history held back while
// no listener existed
func (a *App) attachUI(ctx context.Context) {
	a.emitter.Attach(ctx)
	if a.watcher == nil {
		return
	}
	n, err := a.watcher.Drain(a.context())
	if err != nil {
		slog.Warn("Failed to report pending history", "reported", n, "error", err)
	}
}

// OpenHistoryDB opens the shared history inbox database in configDir
func OpenHistoryDB(configDir string) (*sql.DB, error) {
	dbPath := filepath.Join(configDir, historyDBFile)
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	return db, nil
}

// Shutdown is called when the app is closing
func (a *App) Shutdown(ctx context.Context) {
	a.emitter.Detach()
	if a.cancel != nil {
		a.cancel()
	}

	if a.apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("API shutdown", "error", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}

// DomReady is called after the front-end dom has been loaded
func (a *App) DomReady(ctx context.Context) {
	runtime.WindowCenter(ctx)
	a.attachUI(ctx)
}

// ReportHistory emits entry to the UI as a safari-history event
func (a *App) ReportHistory(entry bridge.HistoryEntry) error {
	return a.commands.ReportHistory(a.context(), entry)
}

// GetCredentials returns the credentials stored for domain
func (a *App) GetCredentials(domain string) ([]bridge.Credential, error) {
	return a.commands.GetCredentials(a.context(), domain)
}

// SaveCredential stores credential
func (a *App) SaveCredential(credential bridge.Credential) error {
	return a.commands.SaveCredential(a.context(), credential)
}

// Invoke runs a command by name with JSON arguments, for clients that
// address commands by their registered names
func (a *App) Invoke(command string, args string) (string, error) {
	out, err := a.dispatcher.Invoke(a.context(), command, []byte(args))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RequestAutofill answers a fill request forwarded by the platform
func (a *App) RequestAutofill(structure autofill.Structure) (*autofill.FillResponse, error) {
	return a.autofill.OnFillRequest(a.context(), structure)
}

// SaveAutofill handles a save request forwarded by the platform
func (a *App) SaveAutofill(structure autofill.Structure) error {
	return a.autofill.OnSaveRequest(a.context(), structure)
}

// GetBrowserHistory returns recent inbox entries starting with prefix
func (a *App) GetBrowserHistory(prefix string) []history.StoredEntry {
	if a.historyService == nil {
		return []history.StoredEntry{}
	}
	return a.historyService.Recent(prefix)
}

// Greet returns a greeting for the given name
func (a *App) Greet(name string) string {
	return shared.Greet(name)
}

// GetVersion returns the app version
func (a *App) GetVersion() string {
	return a.version
}

// UpdateSettings updates the application settings
func (a *App) UpdateSettings(newSettings settings.Settings) error {
	if a.configDir == "" {
		return fmt.Errorf("config directory not available")
	}
	if err := settings.UpdateSettings(a.configDir, &newSettings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings retrieves the current application settings
func (a *App) GetSettings() *settings.Settings {
	return settings.GetCurrentSettings()
}

// IsStartupComplete reports whether Startup finished
func (a *App) IsStartupComplete() bool {
	return a.startupComplete
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}
