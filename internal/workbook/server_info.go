package workbook

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-inventory-sync/internal/descriptions"
)

const (
	serverInfoFileLimit = 100
	serverInfoTimeout   = 5 * time.Second
)

// ServerInfo returns server capabilities, the configured defaults and the
// spreadsheets found in the work directory.
func (s *Service) ServerInfo(ctx context.Context, _ ServerInfoRequest, serverName, version string) (*ServerInfoResult, error) {
	root := s.pathValidator.Root()

	scanCtx, cancel := context.WithTimeout(ctx, serverInfoTimeout)
	defer cancel()

	files, truncated, err := s.search.FindLimited(scanCtx, root, serverInfoFileLimit)
	if err != nil {
		// Don't fail completely if directory scan fails, just return empty contents
		s.logger.Debug("directory scan failed", zap.String("directory", root), zap.Error(err))
		files = []FileInfo{}
	}

	return &ServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		WorkDirectory:     root,
		OutputDirectory:   s.outputDirectory,
		MaxFileSize:       s.maxFileSize,
		Defaults:          s.extraction,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		Truncated:         truncated,
		UsageGuidance:     s.usageGuidance(),
		SupportedFormats:  SupportedFormats,
	}, nil
}

func availableTools() []ToolInfo {
	const pathParam = "path (required): path to the spreadsheet (absolute or relative to the work directory)"
	const displayParams = "start_row (optional): item table header row, " +
		"location_mode (optional): full | first_token, label_mode (optional): prefix | number_only"

	return []ToolInfo{
		{
			Name:        "acta_extract_metadata",
			Description: descriptions.GetToolDescription("acta_extract_metadata"),
			Usage:       "Use this tool to read the date, acta number, location and recipient of a hand-over record.",
			Parameters:  pathParam + ", " + displayParams,
		},
		{
			Name:        "acta_read_items",
			Description: descriptions.GetToolDescription("acta_read_items"),
			Usage:       "Use this tool to list the items and serials of a hand-over record.",
			Parameters:  pathParam + ", start_row (optional): item table header row",
		},
		{
			Name:        "inventory_preview",
			Description: descriptions.GetToolDescription("inventory_preview"),
			Usage:       "Use this tool to see which items would match before writing anything.",
			Parameters:  "acta_path (required), inventory_path (required), " + displayParams,
		},
		{
			Name:        "inventory_reconcile",
			Description: descriptions.GetToolDescription("inventory_reconcile"),
			Usage:       "Use this tool to write an updated copy of the inventory workbook.",
			Parameters:  "acta_path (required), inventory_path (required), output_directory (optional), " + displayParams,
		},
		{
			Name:        "inventory_validate_file",
			Description: descriptions.GetToolDescription("inventory_validate_file"),
			Usage:       "Use this tool to check a workbook and see how its sheets will be used.",
			Parameters:  pathParam,
		},
		{
			Name:        "inventory_search_directory",
			Description: descriptions.GetToolDescription("inventory_search_directory"),
			Usage:       "Use this tool to find actas and inventory workbooks by name.",
			Parameters: "directory (optional): directory to search (work directory if empty), " +
				"query (optional): words to match in the file name",
		},
		{
			Name:        "inventory_server_info",
			Description: descriptions.GetToolDescription("inventory_server_info"),
			Usage:       "Use this tool to get server information and available capabilities.",
			Parameters:  "No parameters required",
		},
	}
}

func (s *Service) usageGuidance() string {
	return fmt.Sprintf(`Inventory Sync MCP Server Usage Guide:

1. DISCOVER FILES:
   - Use 'inventory_search_directory' to find actas and inventory workbooks
   - Use 'inventory_validate_file' to see which sheets carry a serial column

2. INSPECT THE ACTA:
   - 'acta_extract_metadata' returns date, acta number, location and recipient
   - 'acta_read_items' returns the item table (header expected on row %d)

3. RECONCILE:
   - 'inventory_preview' reports matches and overflow without writing
   - 'inventory_reconcile' writes '<inventory> DDMONYY - HH_MM.xlsx'

IMPORTANT NOTES:
- Paths are confined to %s
- The server can handle files up to %dMB
- Serials match ignoring case, spaces and dashes
- Items without a serial, or not found, go to the SIN SERIAL sheet`,
		s.extraction.StartRow, s.pathValidator.Root(), s.maxFileSize/(1024*1024))
}
