package main

import (
	"fmt"
	"os"
	"path/filepath"

	"shutter/internal/config"
	"shutter/internal/index"
	"shutter/internal/journal"
	"shutter/internal/logging"
	"shutter/internal/mcp"
	"shutter/internal/ops"
	"shutter/internal/renderer"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"capture": true, "list": true, "info": true, "view": true,
	"doctor": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___ _  _ _   _ _____ _____ ___ ___
  / __| || | | | |_   _|_   _| __| _ \
  \__ \ __ | |_| | | |   | | | _||   /
  |___/_||_|\___/  |_|   |_| |___|_|_\

  Web page screenshot capture and store

  Usage: shutter <command> [options]
         shutter --help

  MCP server mode requires piped input.`)
}

// buildDeps wires the operation dependencies over the base directory.
// The returned cleanup closes the journal and flushes the logger.
func buildDeps(baseDir string) (*ops.Deps, func(), error) {
	cfg, err := config.Load(baseDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Development)
	if err != nil {
		return nil, nil, fmt.Errorf("init logging: %w", err)
	}

	var j *journal.Journal
	if !cfg.JournalDisabled {
		j, err = journal.Open(baseDir, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open journal: %w", err)
		}
	}

	resolver := renderer.NewResolver(cfg.RendererCandidates, logger)
	deps := &ops.Deps{
		Cfg:     cfg,
		Invoker: renderer.NewInvoker(cfg.StorageRoot, resolver, logger),
		Index:   index.New(cfg.StorageRoot, logger),
		Journal: j,
		Logger:  logger,
	}

	cleanup := func() {
		if j != nil {
			j.Close()
		}
		_ = logger.Sync()
	}
	return deps, cleanup, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before wiring dependencies
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".shutter")

	deps, cleanup, err := buildDeps(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(deps)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'shutter --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
