package app

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"dash/internal/plugins"
	"dash/internal/secret"
	"dash/internal/service"
	"dash/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db    *storage.DB
	undos *storage.UndoStore
	links *storage.WidgetLinkStore

	dashboards *service.DashboardService
	widgets    *service.WidgetService
	datasets   *service.DatasetService
	render     *service.RenderService
	database   *service.DatabaseService
	etls       *service.ETLService
	window     *service.WindowSettingsService
	registry   *service.WidgetPluginRegistry

	watcher *dashboardWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	// macOS: disable "Press and Hold" accent popup so key repeat works in the WebView.
	// Set for both the bundle ID (production) and global domain (wails dev).
	exec.Command("defaults", "write", "com.wails.dash", "ApplePressAndHoldEnabled", "-bool", "false").Run()
	exec.Command("defaults", "write", "-g", "ApplePressAndHoldEnabled", "-bool", "false").Run()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "dash")
	dbPath := filepath.Join(dataDir, "dash.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "imports"))
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.undos = storage.NewUndoStore(db)
	a.links = storage.NewWidgetLinkStore(db)

	emitter := &wailsEmitter{}
	secrets := secret.NewKeychainStore()

	a.widgets = service.NewWidgetService(storage.NewWidgetStore(db), a.links, emitter)
	a.datasets = service.NewDatasetService(storage.NewDatasetStore(db))
	a.dashboards = service.NewDashboardService(storage.NewDashboardStore(db), a.widgets, a.links, emitter)
	a.render = service.NewRenderService(a.widgets, a.datasets)
	a.database = service.NewDatabaseService(
		storage.NewDBConnectionStore(db),
		secrets,
		storage.NewQueryResultStore(db),
	)
	a.etls = service.NewETLService(storage.NewETLStore(db), storage.NewDatasetStore(db), emitter)
	a.window = service.NewWindowSettingsService(db)

	a.registry = service.NewWidgetPluginRegistry()
	a.registry.Register(plugins.NewTablePlugin(a.datasets, a.widgets))
	a.registry.Register(plugins.NewSlicerPlugin(a.links))

	setupETLAdapters(a)
	a.etls.RestartWatchers(ctx)

	a.watcher = newDashboardWatcher(ctx, a)
	a.watcher.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.etls != nil {
		a.etls.Stop()
		a.etls.WaitRunning(ctx)
	}
	if a.database != nil {
		a.database.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// SaveWindowSize persists the current window dimensions.
func (a *App) SaveWindowSize(width, height int) error {
	return a.window.SaveWindowSize(width, height)
}

// LoadWindowSize returns the saved window dimensions.
func (a *App) LoadWindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

// wailsEmitter forwards service events to the frontend via the Wails runtime.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}
