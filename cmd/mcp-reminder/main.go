// Command mcp-reminder provides an MCP server for recurring reminders.
//
// This server exposes the same store the interactive shell uses, so
// reminders created here show up in the shell at its next resync.
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Configuration is read from ~/.daily-reminders/config.yaml and REMINDERS_*
// environment variables (see REMINDERS_CONFIG to use another file).
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/notexe/daily-reminders/internal/app"
	"github.com/notexe/daily-reminders/internal/config"
	"github.com/notexe/daily-reminders/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	_ = godotenv.Load()

	configPath := os.Getenv("REMINDERS_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs never go there.
	logger, logCloser, err := app.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	backend, err := app.OpenStorage(cfg.Storage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	store := reminder.NewStore(backend, logger)
	if err := app.SeedOnFirstLaunch(store, cfg.UI.SeedPresets, logger); err != nil {
		logger.Warn().Err(err).Msg("failed to seed starter reminders")
	}

	s := reminder.NewServer(store, func() {
		logger.Debug().Msg("reminders changed")
	})

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - Recurring reminders via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    REMINDERS_CONFIG            Config file (default: ~/.daily-reminders/config.yaml)
    REMINDERS_STORAGE__BACKEND  sqlite, redis or memory
    REMINDERS_STORAGE__SQLITE_PATH
                                Default: ~/.daily-reminders/reminders.db

TOOLS:
    add_reminder         Create a reminder (category, time, recurrence, days, month_day)
    list_reminders       List all reminders sorted by time of day
    get_today_reminders  Reminders due today with completion state
    get_reminder         Get one reminder
    update_reminder      Update reminder fields or enable/disable it
    delete_reminder      Delete a reminder permanently
    toggle_completion    Mark done for today, or undo
    next_occurrence      When a reminder fires next

CONFIGURATION:
    Add to your MCP client config:
    {
      "mcpServers": {
        "reminder": {
          "command": "/path/to/mcp-reminder",
          "args": []
        }
      }
    }`)
}
