package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// dashboardWatcher polls the database for changes to the active dashboard,
// detecting external modifications (e.g. from the MCP standalone process
// or a scheduled ETL run) and emitting Wails events so the frontend
// auto-refreshes.
type dashboardWatcher struct {
	ctx context.Context
	app *App
	mu  sync.Mutex
	// Active dashboard tracking
	dashboardID string
	lastBoard   string // dashboard updated_at fingerprint
	lastWidget  string // widgets fingerprint (count + max updated_at)
	// Dashboard list tracking (sidebar refresh)
	lastBoardList string
	stopCh        chan struct{}
	// Track emitted approval IDs to avoid infinite re-emission
	emittedApprovals map[string]bool
}

func newDashboardWatcher(ctx context.Context, app *App) *dashboardWatcher {
	return &dashboardWatcher{ctx: ctx, app: app, emittedApprovals: map[string]bool{}}
}

// SetDashboard updates the watched dashboard ID. Called on navigation.
func (w *dashboardWatcher) SetDashboard(dashboardID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dashboardID = dashboardID
	w.lastBoard = ""
	w.lastWidget = ""
	w.lastBoardList = ""
}

// Start begins the polling loop. Should be called once on app startup.
func (w *dashboardWatcher) Start() {
	w.stopCh = make(chan struct{})
	go w.pollLoop()
}

// Stop terminates the polling loop.
func (w *dashboardWatcher) Stop() {
	if w.stopCh != nil {
		close(w.stopCh)
	}
}

func (w *dashboardWatcher) pollLoop() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.check()
		case <-w.stopCh:
			return
		case <-w.ctx.Done():
			return
		}
	}
}

func (w *dashboardWatcher) check() {
	w.mu.Lock()
	dashboardID := w.dashboardID
	w.mu.Unlock()

	if dashboardID == "" {
		return
	}

	db := w.app.db.Conn()

	// ── Check dashboard updated_at ──────────────────────
	var boardUpdated string
	err := db.QueryRow(`SELECT COALESCE(updated_at, '') FROM dashboards WHERE id = ?`, dashboardID).Scan(&boardUpdated)
	if err != nil {
		return
	}

	// ── Check widgets MAX(updated_at) and count ─────────
	var widgetUpdated string
	var widgetCount int
	err = db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM widgets WHERE dashboard_id = ?`, dashboardID,
	).Scan(&widgetCount, &widgetUpdated)
	if err != nil {
		return
	}

	// ── Check dashboard list changes (sidebar) ──────────
	var boardCount int
	var boardsMaxUpdated string
	boardListFingerprint := ""
	if db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(updated_at), '') FROM dashboards`,
	).Scan(&boardCount, &boardsMaxUpdated) == nil {
		boardListFingerprint = fmt.Sprintf("%d:%s", boardCount, boardsMaxUpdated)
	}

	// ── Build fingerprints and compare ──────────────────
	widgetFingerprint := fmt.Sprintf("%d:%s", widgetCount, widgetUpdated)

	w.mu.Lock()
	boardChanged := w.lastBoard != "" && w.lastBoard != boardUpdated
	widgetsChanged := w.lastWidget != "" && w.lastWidget != widgetFingerprint
	boardsChanged := w.lastBoardList != "" && boardListFingerprint != "" && w.lastBoardList != boardListFingerprint
	w.lastBoard = boardUpdated
	w.lastWidget = widgetFingerprint
	if boardListFingerprint != "" {
		w.lastBoardList = boardListFingerprint
	}
	w.mu.Unlock()

	// ── Emit events ────────────────────────────────────
	if boardChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:dashboard-changed", map[string]string{"dashboardId": dashboardID})
	}
	if widgetsChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:widgets-changed", map[string]string{"dashboardId": dashboardID})
	}
	if boardsChanged {
		wailsRuntime.EventsEmit(w.ctx, "mcp:dashboards-changed", nil)
	}

	// ── Check pending MCP approvals (cross-process IPC) ─
	rows, err := db.Query(`SELECT id, tool, description, created_at, metadata FROM mcp_approvals WHERE status = 'pending'`)
	if err == nil {
		for rows.Next() {
			var id, tool, desc, createdAt, metadata string
			if rows.Scan(&id, &tool, &desc, &createdAt, &metadata) == nil {
				w.mu.Lock()
				alreadySent := w.emittedApprovals[id]
				if !alreadySent {
					w.emittedApprovals[id] = true
				}
				w.mu.Unlock()
				if !alreadySent {
					wailsRuntime.EventsEmit(w.ctx, "mcp:approval-required", map[string]string{
						"id":          id,
						"tool":        tool,
						"description": desc,
						"createdAt":   createdAt,
						"metadata":    metadata,
					})
				}
			}
		}
		rows.Close()
	}

	// Clean up tracking for resolved/deleted approvals (standalone MCP deletes after reading)
	w.mu.Lock()
	for id := range w.emittedApprovals {
		var count int
		if db.QueryRow(`SELECT COUNT(*) FROM mcp_approvals WHERE id = ? AND status = 'pending'`, id).Scan(&count) == nil && count == 0 {
			delete(w.emittedApprovals, id)
		}
	}
	w.mu.Unlock()
}
