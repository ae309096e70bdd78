// Package mcp exposes catalog lookups as Model Context Protocol tools and resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/tabula"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Provider supplies the catalog to serve. *tabula.Reloader implements it.
type Provider interface {
	Current() *tabula.Result
}

// RecordResponse is the structured result of get_record.
type RecordResponse struct {
	Table  string         `json:"table" jsonschema_description:"Table name"`
	ID     int64          `json:"id" jsonschema_description:"Record identifier"`
	Found  bool           `json:"found" jsonschema_description:"Whether the identifier exists in the table"`
	Record map[string]any `json:"record,omitempty" jsonschema_description:"The decoded record, keyed by schema field names"`
}

// Server wraps a catalog Provider and exposes it as an MCP Server.
type Server struct {
	provider  Provider
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(p Provider) *Server {
	s := &Server{
		provider:  p,
		mcpServer: server.NewMCPServer("tabula-mcp", tabula.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_tables
	s.mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List every loaded table with its record count."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cat := s.provider.Current().Catalog
		out := make(map[string]int, cat.Len())
		for _, name := range cat.Names() {
			t, _ := cat.Table(name)
			out[name] = t.Len()
		}
		jsonBytes, _ := json.Marshal(out)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: describe_table
	s.mcpServer.AddTool(mcp.NewTool("describe_table",
		mcp.WithDescription("Describe the schema of a table: fields, types, key and strict-only fields."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name, e.g. PhantomItemData")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, _ := request.GetArguments()["table"].(string)
		t, ok := s.provider.Current().Catalog.Table(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown table %q", name)), nil
		}
		jsonBytes, err := json.Marshal(t.Schema())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_record
	getTool := mcp.NewTool("get_record",
		mcp.WithDescription("Fetch one record of a table by identifier."),
		mcp.WithString("table", mcp.Required(), mcp.Description("Table name")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Integer identifier (decimal string, to keep 64-bit ids exact)")),
		mcp.WithOutputSchema[RecordResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetRecord))
}

func (s *Server) handleGetRecord(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RecordResponse, error) {
	name, _ := args["table"].(string)
	rawID, _ := args["id"].(string)

	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return RecordResponse{}, fmt.Errorf("invalid identifier %q", rawID)
	}
	t, ok := s.provider.Current().Catalog.Table(name)
	if !ok {
		return RecordResponse{}, fmt.Errorf("unknown table %q", name)
	}

	resp := RecordResponse{Table: name, ID: id}
	if rec, found := t.Get(id); found {
		resp.Found = true
		resp.Record = rec
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tabula://references
	s.mcpServer.AddResource(mcp.NewResource("tabula://references", "Cross-reference report",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.provider.Current().References)
		if err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tabula://references",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
