package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	mcpserver "dash/internal/mcp"
	"dash/internal/plugins"
	"dash/internal/secret"
	"dash/internal/service"
	"dash/internal/storage"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no GUI.
// It initializes storage, services, and runs the MCP server until interrupted.
// Approvals flow through the mcp_approvals table so the GUI process (if
// running) can surface them to the user.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "dash")
	dbPath := filepath.Join(dataDir, "dash.db")

	db, err := storage.New(dbPath, filepath.Join(dataDir, "imports"))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	links := storage.NewWidgetLinkStore(db)
	secrets := secret.NewKeychainStore()
	emitter := noopEmitter{}

	// Services
	widgetsSvc := service.NewWidgetService(storage.NewWidgetStore(db), links, emitter)
	datasetsSvc := service.NewDatasetService(storage.NewDatasetStore(db))
	dashboardsSvc := service.NewDashboardService(storage.NewDashboardStore(db), widgetsSvc, links, emitter)
	renderSvc := service.NewRenderService(widgetsSvc, datasetsSvc)
	databaseSvc := service.NewDatabaseService(
		storage.NewDBConnectionStore(db),
		secrets,
		storage.NewQueryResultStore(db),
	)
	etlSvc := service.NewETLService(storage.NewETLStore(db), storage.NewDatasetStore(db), emitter)

	// Plugin registry
	pluginRegistry := service.NewWidgetPluginRegistry()
	pluginRegistry.Register(plugins.NewTablePlugin(datasetsSvc, widgetsSvc))
	pluginRegistry.Register(plugins.NewSlicerPlugin(links))

	// Wire ETL adapters so the database source can reach the connector pool
	setupETLAdapters(&App{
		datasets: datasetsSvc,
		database: databaseSvc,
	})

	// Create and serve MCP
	mcpSrv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:    emitter,
		Dashboards: dashboardsSvc,
		Widgets:    widgetsSvc,
		Datasets:   datasetsSvc,
		Render:     renderSvc,
		ETL:        etlSvc,
		Database:   databaseSvc,
		Plugins:    pluginRegistry,
		ApprovalDB: db.Conn(), // Enable SQLite-based approval IPC
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
