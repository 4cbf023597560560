package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"diseasemcp/internal/config"
	"diseasemcp/internal/logging"
	"diseasemcp/internal/server"
)

var (
	// Global flags
	configPath       string
	catalogPath      string
	dataDir          string
	instructionsPath string
	allocator        string
	verbose          bool
	logFile          string

	// Resolved in PersistentPreRunE
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "diseasemcp",
	Short: "Disease description MCP server",
	Long: `diseasemcp is a Model Context Protocol server that feeds an LLM writing
workflow one disease at a time and stores the Bengali descriptions it returns.

Tools exposed over stdio:
  get_next_disease     next unserved disease from the catalog
  submit_description   store a description as <data>/<id>.txt
  get_instructions     the writing guidelines document

Run without arguments to serve on stdin/stdout.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runServe,
}

// serveCmd is the explicit form of the default behavior
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP tools on stdin/stdout",
	RunE:  runServe,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "diseasemcp.yaml", "Path to YAML config file")
	pf.StringVar(&catalogPath, "catalog", "", "Disease catalog JSON (overrides config)")
	pf.StringVar(&dataDir, "data-dir", "", "Submission directory (overrides config)")
	pf.StringVar(&instructionsPath, "instructions", "", "Instructions file (overrides config)")
	pf.StringVar(&allocator, "allocator", "", "Id allocator: scan or sequence (overrides config)")
	pf.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd, statusCmd, instructionsCmd, callCmd)
}

// setup loads config, applies flag overrides and initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if catalogPath != "" {
		c.Catalog.Path = catalogPath
	}
	if dataDir != "" {
		c.Data.Dir = dataDir
	}
	if instructionsPath != "" {
		c.Instructions.Path = instructionsPath
	}
	if allocator != "" {
		c.Data.Allocator = allocator
	}
	if logFile != "" {
		c.Logging.File = logFile
	}
	if verbose {
		c.Logging.Level = "debug"
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logging.Initialize(logging.Options{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		File:   c.Logging.File,
	}); err != nil {
		return err
	}

	cfg = c
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := server.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	boot := logging.Get(logging.CategoryBoot)
	boot.Info("catalog=%s data=%s allocator=%s", cfg.Catalog.Path, cfg.Data.Dir, cfg.Data.Allocator)
	if cfg.Instructions.Path == "" {
		boot.Warn("no instructions path configured; get_instructions will fail")
	}

	return server.Serve(ctx, rt.Server, cmd.InOrStdin(), cmd.OutOrStdout())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}
