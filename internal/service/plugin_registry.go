package service

import (
	"fmt"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// Widget Plugin Registry — pluggable widget backends
// ─────────────────────────────────────────────────────────────

// WidgetPlugin is the Go-side contract for widget type plugins.
// Implement this interface to hook into widget Create/Delete lifecycle events.
type WidgetPlugin interface {
	// WidgetType returns the chart type tag this plugin handles (e.g. "table").
	WidgetType() string
	// OnCreate is called after a widget of this type is created.
	OnCreate(widgetID, dashboardID string) error
	// OnDelete is called before a widget of this type is deleted.
	OnDelete(widgetID string) error
}

// MCPToolDef describes a tool that a plugin exposes to the MCP server.
type MCPToolDef struct {
	Name        string                                   // e.g. "table_refresh"
	Description string                                   // shown to agents
	InputSchema map[string]any                           // JSON Schema for parameters
	Destructive bool                                     // requires human approval
	Handler     func(params map[string]any) (any, error) // executes the tool
}

// MCPCapablePlugin extends WidgetPlugin with MCP tool declarations.
// Plugins that implement this interface will have their tools auto-registered
// with the MCP server on startup.
type MCPCapablePlugin interface {
	WidgetPlugin
	MCPTools() []MCPToolDef
}

// WidgetPluginRegistry manages registered Go-side widget plugins.
type WidgetPluginRegistry struct {
	mu      sync.RWMutex
	plugins map[string]WidgetPlugin
}

// NewWidgetPluginRegistry creates an empty plugin registry.
func NewWidgetPluginRegistry() *WidgetPluginRegistry {
	return &WidgetPluginRegistry{plugins: make(map[string]WidgetPlugin)}
}

// Register adds a plugin to the registry. Panics on duplicate registration.
func (r *WidgetPluginRegistry) Register(p WidgetPlugin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := p.WidgetType()
	if _, exists := r.plugins[t]; exists {
		panic(fmt.Sprintf("widget plugin registry: duplicate registration for widget type %q", t))
	}
	r.plugins[t] = p
}

// OnCreate dispatches a create lifecycle event to the relevant plugin (if any).
func (r *WidgetPluginRegistry) OnCreate(widgetID, dashboardID, widgetType string) error {
	r.mu.RLock()
	p, ok := r.plugins[widgetType]
	r.mu.RUnlock()
	if !ok {
		return nil // not managed by a plugin
	}
	return p.OnCreate(widgetID, dashboardID)
}

// OnDelete dispatches a delete lifecycle event to the relevant plugin (if any).
func (r *WidgetPluginRegistry) OnDelete(widgetID, widgetType string) error {
	r.mu.RLock()
	p, ok := r.plugins[widgetType]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.OnDelete(widgetID)
}

// ForEach iterates all registered plugins. Used by the MCP server to
// auto-register tools for each plugin type.
func (r *WidgetPluginRegistry) ForEach(fn func(WidgetPlugin)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.plugins {
		fn(p)
	}
}
