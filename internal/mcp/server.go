package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-inventory-sync/internal/config"
	"github.com/a3tai/mcp-inventory-sync/internal/descriptions"
	"github.com/a3tai/mcp-inventory-sync/internal/workbook"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *workbook.Service
	mcpServer *server.MCPServer
	logger    *zap.Logger
}

// NewServer creates a new MCP server instance. A nil logger discards output.
func NewServer(cfg *config.Config, service *workbook.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

func pathOption(what string) mcp.ToolOption {
	return mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the "+what+" (absolute or relative to the work directory)"),
	)
}

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Response format: 'text' (default) or 'json'"),
		mcp.Enum("text", "json"),
	)
}

func displayOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("start_row", mcp.Description("Row holding the item table header (default from configuration)")),
		mcp.WithString("location_mode",
			mcp.Description("Location display: 'full' or 'first_token'"),
			mcp.Enum("full", "first_token"),
		),
		mcp.WithString("label_mode",
			mcp.Description("Acta number display: 'prefix' (ACTA No. 123) or 'number_only'"),
			mcp.Enum("prefix", "number_only"),
		),
	}
}

func reconcileOptions(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("acta_path", mcp.Required(), mcp.Description("Path to the hand-over record (acta)")),
		mcp.WithString("inventory_path", mcp.Required(), mcp.Description("Path to the inventory workbook")),
	}
	opts = append(opts, extra...)
	opts = append(opts, displayOptions()...)
	return append(opts, formatOption())
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractMetadataTool := mcp.NewTool("acta_extract_metadata",
		append([]mcp.ToolOption{
			mcp.WithDescription(descriptions.GetToolDescription("acta_extract_metadata")),
			pathOption("hand-over record (acta)"),
			formatOption(),
		}, displayOptions()...)...,
	)
	s.mcpServer.AddTool(extractMetadataTool, s.handleExtractMetadata)

	readItemsTool := mcp.NewTool("acta_read_items",
		mcp.WithDescription(descriptions.GetToolDescription("acta_read_items")),
		pathOption("hand-over record (acta)"),
		mcp.WithNumber("start_row", mcp.Description("Row holding the item table header (default from configuration)")),
		formatOption(),
	)
	s.mcpServer.AddTool(readItemsTool, s.handleReadItems)

	previewTool := mcp.NewTool("inventory_preview",
		append([]mcp.ToolOption{mcp.WithDescription(descriptions.GetToolDescription("inventory_preview"))},
			reconcileOptions()...)...,
	)
	s.mcpServer.AddTool(previewTool, s.handlePreview)

	reconcileTool := mcp.NewTool("inventory_reconcile",
		append([]mcp.ToolOption{mcp.WithDescription(descriptions.GetToolDescription("inventory_reconcile"))},
			reconcileOptions(mcp.WithString("output_directory",
				mcp.Description("Directory for the updated workbook (default: configured output or next to the inventory)"),
			))...)...,
	)
	s.mcpServer.AddTool(reconcileTool, s.handleReconcile)

	validateFileTool := mcp.NewTool("inventory_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("inventory_validate_file")),
		pathOption("workbook"),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	searchDirectoryTool := mcp.NewTool("inventory_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("inventory_search_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses the work directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional words to match in file names"),
		),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	serverInfoTool := mcp.NewTool("inventory_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("inventory_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Argument helpers

func stringArg(request mcp.CallToolRequest, name string) string {
	if v, ok := request.GetArguments()[name].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func intArg(request mcp.CallToolRequest, name string) (int, error) {
	switch v := request.GetArguments()[name].(type) {
	case nil:
		return 0, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return int(v), nil
	case int:
		return v, nil
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("%s must be an integer", name)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", name)
	}
}

func displayArgs(request mcp.CallToolRequest) (workbook.DisplayOptions, error) {
	startRow, err := intArg(request, "start_row")
	if err != nil {
		return workbook.DisplayOptions{}, err
	}
	return workbook.DisplayOptions{
		StartRow:     startRow,
		LocationMode: stringArg(request, "location_mode"),
		LabelMode:    stringArg(request, "label_mode"),
	}, nil
}

func reconcileArgs(request mcp.CallToolRequest) (workbook.ReconcileRequest, error) {
	acta, err := request.RequireString("acta_path")
	if err != nil {
		return workbook.ReconcileRequest{}, err
	}
	inventory, err := request.RequireString("inventory_path")
	if err != nil {
		return workbook.ReconcileRequest{}, err
	}
	display, err := displayArgs(request)
	if err != nil {
		return workbook.ReconcileRequest{}, err
	}
	return workbook.ReconcileRequest{
		ActaPath:        acta,
		InventoryPath:   inventory,
		OutputDirectory: stringArg(request, "output_directory"),
		DisplayOptions:  display,
	}, nil
}

// respond renders result as indented JSON when the caller asked for it and
// as text otherwise.
func respond[T any](request mcp.CallToolRequest, result T, text func(T) string) (*mcp.CallToolResult, error) {
	if strings.EqualFold(stringArg(request, "format"), "json") {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(text(result)), nil
}

// Handler functions

func (s *Server) handleExtractMetadata(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	display, err := displayArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ExtractMetadata(workbook.ExtractMetadataRequest{Path: path, DisplayOptions: display})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(request, result, formatMetadataResult)
}

func (s *Server) handleReadItems(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	startRow, err := intArg(request, "start_row")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ReadItems(workbook.ReadItemsRequest{Path: path, StartRow: startRow})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(request, result, formatItemsResult)
}

func (s *Server) handlePreview(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := reconcileArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Preview(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(request, result, formatReconcileResult)
}

func (s *Server) handleReconcile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := reconcileArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.Reconcile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return respond(request, result, formatReconcileResult)
}

func (s *Server) handleValidateFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.service.ValidateFile(workbook.ValidateFileRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatValidateResult(result)), nil
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := workbook.SearchDirectoryRequest{
		Directory: stringArg(request, "directory"),
		Query:     stringArg(request, "query"),
	}

	result, err := s.service.SearchDirectory(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		text := fmt.Sprintf("No spreadsheet files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultText(formatSearchResult(result)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.service.ServerInfo(ctx, workbook.ServerInfoRequest{}, s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

// Run starts the MCP server in the configured mode and returns when ctx is
// done or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	switch {
	case s.config.IsServerMode():
		return s.runServerMode(ctx)
	case s.config.IsStdioMode():
		return s.runStdioMode(ctx)
	default:
		return fmt.Errorf("unsupported mode: %q", s.config.Mode)
	}
}

// runStdioMode serves MCP over standard input and output
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode",
		zap.String("work_directory", s.config.WorkDirectory))

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	if err := stdio.Listen(ctx, stdin, stdout); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler used in server mode: a health probe plus
// the MCP SSE transport.
func (s *Server) Handler() http.Handler {
	sse := server.NewSSEServer(s.mcpServer,
		server.WithBaseURL("http://"+s.config.Address()),
	)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(sse)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"name":    s.config.ServerName,
		"version": s.config.Version,
	})
}

// runServerMode serves MCP over HTTP with server-sent events
func (s *Server) runServerMode(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting MCP server in server mode",
			zap.String("address", httpServer.Addr),
			zap.String("work_directory", s.config.WorkDirectory))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
