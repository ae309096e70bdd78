package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Serves the catalog as an MCP Server so AI agents can list tables, read schemas
and look up records.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		// Logs always go to stderr; stdout carries JSON-RPC for stdio.
		logger := newLogger(cfg)
		log.SetOutput(os.Stderr)
		ctx := cmd.Context()

		src, closeSrc, err := openSource(cfg)
		if err != nil {
			return err
		}
		defer closeSrc()

		opts, err := loadOptions(cfg, logger)
		if err != nil {
			return err
		}
		reloader, err := tabula.NewReloader(ctx, src, opts...)
		if err != nil {
			return err
		}
		if watch, _ := cmd.Flags().GetBool("watch"); watch {
			go func() {
				if err := reloader.Watch(ctx); err != nil {
					logger.Error("watch stopped", "error", err)
				}
			}()
		}

		srv := mcp.NewServer(reloader)

		switch transport {
		case "stdio":
			logger.Info("starting tabula MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting tabula MCP server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("mcp server: %w", err)
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("watch", false, "Reload the catalog when the source changes")
}
