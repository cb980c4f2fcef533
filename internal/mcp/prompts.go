package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("build_dashboard",
		mcp.WithPromptDescription("Guide through building a complete dashboard: dataset, sample data, and charts"),
		mcp.WithArgument("topic",
			mcp.ArgumentDescription("Topic or title for the dashboard"),
			mcp.RequiredArgument(),
		),
	), s.handleBuildDashboardPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("data_pipeline",
		mcp.WithPromptDescription("Set up an ETL → dataset → chart data pipeline"),
		mcp.WithArgument("sourceType",
			mcp.ArgumentDescription("ETL source type (e.g. csv, json, rest, database)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What this pipeline does"),
			mcp.RequiredArgument(),
		),
	), s.handleDataPipelinePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("explore_database",
		mcp.WithPromptDescription("Explore an external database and visualize interesting tables"),
		mcp.WithArgument("connectionId",
			mcp.ArgumentDescription("ID of the database connection to explore"),
			mcp.RequiredArgument(),
		),
	), s.handleExploreDatabasePrompt)
}

func (s *Server) handleBuildDashboardPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic := req.Params.Arguments["topic"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Build a dashboard for: %s", topic),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Build a dashboard about "%s". Follow these steps:

1. Create a dashboard (create_dashboard) named "%s" — it becomes the active dashboard
2. Create a dataset (create_dataset) with fields relevant to the topic
3. Add sample rows using add_dataset_rows
4. Use list_chart_types to see available chart types and their required field roles
5. Create charts (create_chart or batch_create_charts) bound to the dataset — mix a bar or line chart with a pie/donut breakdown
6. Validate each widget (validate_widget) and fix any binding problems
7. Optionally add a slicer widget and link it (link_widgets) so users can filter the charts

Positions are auto-calculated; use arrange_widgets at the end for a clean grid layout.`, topic, topic),
				},
			},
		},
	}, nil
}

func (s *Server) handleDataPipelinePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sourceType := req.Params.Arguments["sourceType"]
	description := req.Params.Arguments["description"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Set up a %s data pipeline", sourceType),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Set up a data pipeline: %s. Follow these steps:

1. Create a target dataset (create_dataset) to hold the synced data
2. Preview the source first (preview_etl_source) with source type "%s" to inspect its fields
3. Create an ETL job (create_etl_job) with source type "%s" targeting the dataset — add transforms if the raw data needs cleanup
4. Run the job (run_etl_job) to load the data
5. Create charts (create_chart) bound to the dataset to visualize the result

For recurring syncs, set triggerType to "schedule" with a cron expression, or "watch" to re-sync on file changes.`, description, sourceType, sourceType),
				},
			},
		},
	}, nil
}

func (s *Server) handleExploreDatabasePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	connectionID := req.Params.Arguments["connectionId"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Explore database connection %s", connectionID),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Explore the external database connection "%s" and build visualizations from it. Follow these steps:

1. Introspect the schema (introspect_database) to see tables and columns
2. Run a few read queries (execute_query) to understand the data — connections are read-only
3. Pick one or two interesting tables and create a dataset (create_dataset) for each
4. Create an ETL job (create_etl_job) with the database source to sync the table into the dataset, then run it (run_etl_job)
5. Create charts (create_chart) over the synced datasets showing the most useful aggregations

Summarize what you found in the data as you go.`, connectionID),
				},
			},
		},
	}, nil
}
