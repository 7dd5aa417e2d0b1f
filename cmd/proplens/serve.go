package main

import (
	"flag"
	"os"

	"github.com/gnana997/proplens/pkg/document"
	mcpserver "github.com/gnana997/proplens/pkg/mcp"
	"github.com/gnana997/proplens/pkg/mcplog"
	"github.com/gnana997/proplens/pkg/parser"
	"github.com/gnana997/proplens/pkg/util"
	"github.com/gnana997/proplens/pkg/workspace"
)

// runServe starts the MCP server on stdio. With a workspace root it scans
// the tree up front and keeps the declaration index current while serving.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	workspaceFlag := fs.String("workspace", "", "workspace root to index for cross-file resolution")
	logFileFlag := fs.String("log-file", "", "JSONL tool-call log file")
	logLevelFlag := fs.String("log-level", "", "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cwd)
	if err != nil {
		return err
	}
	workspaceRoot := firstNonEmpty(*workspaceFlag, cfg.Workspace)
	logFile := firstNonEmpty(*logFileFlag, cfg.LogFile)
	logLevel := firstNonEmpty(*logLevelFlag, cfg.LogLevel, string(util.LevelInfo))

	// stdout carries the MCP protocol; all logging goes to stderr.
	logger := util.NewLogger(util.LoggerConfig{
		Level:  util.LogLevel(logLevel),
		Format: util.FormatJSON,
		Output: os.Stderr,
	})

	svcCfg := &document.ServiceConfig{Logger: logger}
	var index *workspace.Index
	if workspaceRoot != "" {
		pm := parser.NewParserManager(logger)
		defer pm.Close()

		index = workspace.NewIndex()
		scanner := workspace.NewScanner(pm, index, logger)
		if _, err := scanner.Scan(workspaceRoot, workspace.DefaultScanConfig()); err != nil {
			return err
		}

		watcher, err := workspace.NewWatcher(pm, index, 0, logger)
		if err != nil {
			return err
		}
		if err := watcher.Start(workspaceRoot); err != nil {
			return err
		}
		defer watcher.Stop()

		svcCfg.Lookup = index
	}

	svc, err := document.NewService(svcCfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	toolLog, err := mcplog.NewLogger(logFile)
	if err != nil {
		return err
	}
	if toolLog != nil {
		defer toolLog.Close()
	}

	logger.Info("starting MCP server", "workspace", workspaceRoot, "version", version)
	return mcpserver.NewServer(svc, index, toolLog).ServeStdio()
}
