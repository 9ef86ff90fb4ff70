package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hunter-mcp/hunter-mcp-go/internal/config"
	"github.com/hunter-mcp/hunter-mcp-go/internal/diag"
	"github.com/hunter-mcp/hunter-mcp-go/internal/hunter"
	"github.com/hunter-mcp/hunter-mcp-go/internal/mcp"
	"github.com/hunter-mcp/hunter-mcp-go/internal/stdio"
	"github.com/hunter-mcp/hunter-mcp-go/internal/toolsvc"
)

const version = "1.0.0"

const instructions = "Exposes Hunter.io email intelligence: find and verify " +
	"email addresses, search and count addresses for a domain or company, " +
	"and inspect the authenticated account."

func main() {
	rootCmd := &cobra.Command{
		Use:           "hunter-mcp",
		Short:         "MCP server for the Hunter.io email intelligence API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServer,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	lv := new(slog.LevelVar)
	lv.Set(level)

	// stdout carries protocol traffic, so diagnostics go to stderr. The
	// forwarder mirrors records back over the protocol once the client
	// sends logging/setLevel.
	fw := diag.NewForwarder()
	log := diag.New(diag.KindStdio, os.Stderr, fw, lv)

	client, err := hunter.New(cfg.APIKey, hunter.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return err
	}

	svc := toolsvc.New(client, cfg.RetryPolicy(), log)
	h := stdio.NewHandler(svc,
		stdio.WithLogger(log),
		stdio.WithServerInfo(mcp.ImplementationInfo{Name: "hunter-mcp", Version: version}),
		stdio.WithInstructions(instructions),
		stdio.WithLogLevelVar(lv),
		stdio.WithLogForwarder(fw),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("hunter-mcp serving on stdio", slog.String("version", version))
	if err := h.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("hunter-mcp shut down")
	return nil
}
