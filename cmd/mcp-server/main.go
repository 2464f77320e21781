package main

import (
	"context"
	"log"

	"github.com/eshaffer321/cashflow-go/config"
	"github.com/eshaffer321/cashflow-go/pkg/cashflow"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Open the local plan; remote sync is used when configured
	client, err := cashflow.NewClient(&cashflow.ClientOptions{
		DatabasePath: cfg.DatabasePath,
		SyncURL:      cfg.SyncURL,
		InsightsURL:  cfg.InsightsURL,
		UserID:       cfg.UserID,
		SentryDSN:    cfg.SentryDSN,
		Location:     cfg.Timezone,
	})
	if err != nil {
		log.Fatalf("failed to initialize cash-flow client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	if err := client.Load(ctx); err != nil {
		log.Fatalf("failed to load plan: %v", err)
	}

	impl := &mcp.Implementation{
		Name:    "cashflow",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client, cfg.HorizonDays)

	// Run server over stdio transport (for Claude Desktop)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *cashflow.Client, horizonDays int) {
	tools := &cashflowTools{client: client, horizonDays: horizonDays}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_projection",
		Description: "Project the cash balance day by day. Returns each day with events, inflow, outflow, cash balance, savings balance and outstanding debt.",
	}, tools.GetProjection)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get dashboard figures for the projection: totals, monthly burn, runway in months, net worth and a 0-100 health score.",
	}, tools.GetSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_runway",
		Description: "Estimate how many months the current balance lasts, and how much a one-off spend today would shorten it.",
	}, tools.GetRunway)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_entities",
		Description: "List the planned incomes, expenses, debts or savings contributions.",
	}, tools.ListEntities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_low_balance",
		Description: "Find the first projected day the cash balance drops below a threshold.",
	}, tools.FindLowBalance)
}
