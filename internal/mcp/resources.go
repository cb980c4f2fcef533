package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── dash://dashboards ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"dash://dashboards",
		"All Dashboards",
		mcp.WithMIMEType("application/json"),
	), s.handleDashboardsResource)

	// ── dash://datasets ────────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"dash://datasets",
		"All Datasets",
		mcp.WithMIMEType("application/json"),
	), s.handleDatasetsResource)

	// ── dash://dashboard/{dashboardId}/widgets ─────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"dash://dashboard/{dashboardId}/widgets",
			"Widgets on a Dashboard",
		),
		s.handleDashboardWidgetsResource,
	)
}

func (s *Server) handleDashboardsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	dashboards, err := s.dashboards.ListDashboards()
	if err != nil {
		return nil, err
	}

	type dashboardSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	var summaries []dashboardSummary
	for _, d := range dashboards {
		summaries = append(summaries, dashboardSummary{ID: d.ID, Name: d.Name})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dash://dashboards",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDatasetsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	datasets, err := s.datasets.ListDatasets()
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(datasets, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dash://datasets",
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleDashboardWidgetsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	dashboardID := extractDashboardIDFromURI(uri)
	if dashboardID == "" {
		return nil, fmt.Errorf("could not extract dashboardId from URI: %s", uri)
	}

	widgets, err := s.widgets.ListWidgets(dashboardID)
	if err != nil {
		return nil, err
	}

	summaries := make([]widgetSummary, len(widgets))
	for i, w := range widgets {
		summaries[i] = summarizeWidget(w)
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// extractDashboardIDFromURI extracts the ID from "dash://dashboard/{id}/widgets"
func extractDashboardIDFromURI(uri string) string {
	const prefix = "dash://dashboard/"
	const suffix = "/widgets"
	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}
	return uri[len(prefix) : len(uri)-len(suffix)]
}
