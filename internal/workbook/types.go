package workbook

import (
	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
	"github.com/a3tai/mcp-inventory-sync/internal/reconcile"
)

// FileInfo represents information about a spreadsheet file
type FileInfo struct {
	Path         string `json:"path" yaml:"path"`
	Name         string `json:"name" yaml:"name"`
	Size         int64  `json:"size" yaml:"size"`
	ModifiedTime string `json:"modified_time" yaml:"modified_time"`
}

// DisplayOptions overrides the configured extraction options for one call.
// Empty fields keep the configured value.
type DisplayOptions struct {
	StartRow     int    `json:"start_row,omitempty"`
	LocationMode string `json:"location_mode,omitempty"`
	LabelMode    string `json:"label_mode,omitempty"`
}

// Request Types

// ExtractMetadataRequest asks for the metadata of a hand-over record
type ExtractMetadataRequest struct {
	Path string `json:"path"`
	DisplayOptions
}

// ReadItemsRequest asks for the item table of a hand-over record
type ReadItemsRequest struct {
	Path     string `json:"path"`
	StartRow int    `json:"start_row,omitempty"`
}

// ReconcileRequest applies a hand-over record to an inventory workbook
type ReconcileRequest struct {
	ActaPath        string `json:"acta_path"`
	InventoryPath   string `json:"inventory_path"`
	OutputDirectory string `json:"output_directory,omitempty"`
	DisplayOptions
}

// ValidateFileRequest represents a request to validate a workbook
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// SearchDirectoryRequest represents a request to search for spreadsheets
type SearchDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// ServerInfoRequest represents a request to get server information
type ServerInfoRequest struct {
	// No parameters needed for server info
}

// Response Types

// ExtractMetadataResult holds the extracted fields and the ones that were
// not found.
type ExtractMetadataResult struct {
	Path     string              `json:"path" yaml:"path"`
	Metadata extraction.Metadata `json:"metadata" yaml:"metadata"`
	Missing  []extraction.Field  `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// ReadItemsResult holds the item table
type ReadItemsResult struct {
	Path       string                `json:"path" yaml:"path"`
	Table      *extraction.ItemTable `json:"table" yaml:"table"`
	ItemCount  int                   `json:"item_count" yaml:"item_count"`
	TotalValue string                `json:"total_value" yaml:"total_value"`
}

// ReconcileResult is the outcome of a reconciliation. OutputPath is empty
// for previews.
type ReconcileResult struct {
	ActaPath      string             `json:"acta_path" yaml:"acta_path"`
	InventoryPath string             `json:"inventory_path" yaml:"inventory_path"`
	OutputPath    string             `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Summary       *reconcile.Summary `json:"summary" yaml:"summary"`
}

// SheetInfo describes one sheet of a validated workbook
type SheetInfo struct {
	Name      string             `json:"name" yaml:"name"`
	Category  inventory.Category `json:"category" yaml:"category"`
	Rows      int                `json:"rows" yaml:"rows"`
	Indexable bool               `json:"indexable" yaml:"indexable"`
	Overflow  bool               `json:"overflow,omitempty" yaml:"overflow,omitempty"`
	Identity  bool               `json:"identity,omitempty" yaml:"identity,omitempty"`
}

// ValidateFileResult represents the result of a workbook validation
type ValidateFileResult struct {
	Valid   bool        `json:"valid" yaml:"valid"`
	Path    string      `json:"path" yaml:"path"`
	Message string      `json:"message,omitempty" yaml:"message,omitempty"`
	Sheets  []SheetInfo `json:"sheets,omitempty" yaml:"sheets,omitempty"`
}

// SearchDirectoryResult represents the result of a spreadsheet search
type SearchDirectoryResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}

// ServerInfoResult represents server information and usage guidance
type ServerInfoResult struct {
	ServerName        string             `json:"server_name"`
	Version           string             `json:"version"`
	WorkDirectory     string             `json:"work_directory"`
	OutputDirectory   string             `json:"output_directory,omitempty"`
	MaxFileSize       int64              `json:"max_file_size"`
	Defaults          extraction.Options `json:"defaults"`
	AvailableTools    []ToolInfo         `json:"available_tools"`
	DirectoryContents []FileInfo         `json:"directory_contents"`
	Truncated         bool               `json:"truncated,omitempty"`
	UsageGuidance     string             `json:"usage_guidance"`
	SupportedFormats  []string           `json:"supported_formats"`
}

// ToolInfo represents information about an available tool
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}
