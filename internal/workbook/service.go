package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/reconcile"
	"github.com/a3tai/mcp-inventory-sync/internal/workbook/security"
)

// Settings configures a Service
type Settings struct {
	WorkDirectory   string
	OutputDirectory string
	MaxFileSize     int64
	Extraction      extraction.Options
}

// Service handles acta and inventory operations by orchestrating the
// extraction, reconciliation and file components.
type Service struct {
	maxFileSize     int64
	outputDirectory string
	extraction      extraction.Options
	validator       *Validator
	search          *Search
	pathValidator   *security.PathValidator
	logger          *zap.Logger
	now             func() time.Time
}

// NewService creates a service. A nil logger discards output.
func NewService(settings Settings, logger *zap.Logger) (*Service, error) {
	pathValidator, err := security.NewPathValidator(settings.WorkDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}
	if settings.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}
	if err := settings.Extraction.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction options: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		maxFileSize:     settings.MaxFileSize,
		outputDirectory: settings.OutputDirectory,
		extraction:      settings.Extraction,
		validator:       NewValidator(settings.MaxFileSize),
		search:          NewSearch(settings.MaxFileSize),
		pathValidator:   pathValidator,
		logger:          logger,
		now:             time.Now,
	}, nil
}

// ExtractMetadata reads the header facts of a hand-over record
func (s *Service) ExtractMetadata(req ExtractMetadataRequest) (*ExtractMetadataResult, error) {
	opts, err := s.options(req.DisplayOptions)
	if err != nil {
		return nil, err
	}
	path, doc, err := s.openActa(req.Path)
	if err != nil {
		return nil, err
	}

	meta := extraction.NewMetadataExtractor(opts).Extract(doc)
	s.logger.Debug("metadata extracted",
		zap.String("path", path),
		zap.String("document_label", meta.DocumentLabel),
		zap.Any("missing", meta.Missing()))

	return &ExtractMetadataResult{
		Path:     path,
		Metadata: meta,
		Missing:  meta.Missing(),
	}, nil
}

// ReadItems reads the item table of a hand-over record
func (s *Service) ReadItems(req ReadItemsRequest) (*ReadItemsResult, error) {
	opts, err := s.options(DisplayOptions{StartRow: req.StartRow})
	if err != nil {
		return nil, err
	}
	path, doc, err := s.openActa(req.Path)
	if err != nil {
		return nil, err
	}

	table, err := extraction.NewItemTableReader(opts).Read(doc)
	if err != nil {
		return nil, reconcile.NewError(reconcile.ErrorTypeSourceUnreadable, "no item table", err).WithPath(path)
	}

	return &ReadItemsResult{
		Path:       path,
		Table:      table,
		ItemCount:  len(table.Items),
		TotalValue: table.TotalValue().StringFixed(2),
	}, nil
}

// Preview runs a reconciliation without writing anything
func (s *Service) Preview(req ReconcileRequest) (*ReconcileResult, error) {
	result, _, err := s.run(req)
	return result, err
}

// Reconcile applies a hand-over record to an inventory workbook and writes
// the updated copy. The input workbook is left untouched.
func (s *Service) Reconcile(req ReconcileRequest) (*ReconcileResult, error) {
	result, run, err := s.run(req)
	if err != nil {
		return nil, err
	}

	dir, err := s.outputDir(req.OutputDirectory, result.InventoryPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	out := UniquePath(filepath.Join(dir, OutputName(result.InventoryPath, s.now())))
	if err := SaveInventory(out, run.Collections); err != nil {
		return nil, fmt.Errorf("failed to write updated inventory: %w", err)
	}
	result.OutputPath = out

	s.logger.Info("inventory written",
		zap.String("run_id", result.Summary.RunID),
		zap.String("output", out),
		zap.Int("matched", result.Summary.Matched),
		zap.Int("overflow", result.Summary.Overflow))
	return result, nil
}

// ValidateFile checks a workbook and describes its sheets
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.pathValidator.Resolve(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// SearchDirectory searches for spreadsheets in a directory
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	// If no directory specified, use configured directory
	if req.Directory == "" {
		req.Directory = s.pathValidator.Root()
	}

	dir, err := s.pathValidator.Resolve(req.Directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.pathValidator.ValidateDirectory(dir); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Directory = dir

	return s.search.SearchDirectory(req)
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// run loads both files and reconciles them in memory
func (s *Service) run(req ReconcileRequest) (*ReconcileResult, reconcile.Input, error) {
	opts, err := s.options(req.DisplayOptions)
	if err != nil {
		return nil, reconcile.Input{}, err
	}

	actaPath, doc, err := s.openActa(req.ActaPath)
	if err != nil {
		return nil, reconcile.Input{}, err
	}
	inventoryPath, err := s.checkedPath(req.InventoryPath)
	if err != nil {
		return nil, reconcile.Input{}, reconcile.NewError(reconcile.ErrorTypeTargetUnreadable,
			"cannot use inventory workbook", err).WithPath(req.InventoryPath)
	}
	cols, err := LoadInventory(inventoryPath)
	if err != nil {
		return nil, reconcile.Input{}, reconcile.NewError(reconcile.ErrorTypeTargetUnreadable,
			"cannot read inventory workbook", err).WithPath(inventoryPath)
	}

	in := reconcile.Input{Document: doc, SourcePath: actaPath, Collections: cols}
	engine := reconcile.NewEngine(
		reconcile.WithExtractionOptions(opts),
		reconcile.WithObserver(reconcile.LogObserver(s.logger)),
	)
	sum, err := engine.Run(in)
	if err != nil {
		var re *reconcile.Error
		if errors.As(err, &re) && re.Path == "" {
			re.Path = inventoryPath
			if re.Type == reconcile.ErrorTypeSourceUnreadable {
				re.Path = actaPath
			}
		}
		return nil, reconcile.Input{}, err
	}

	return &ReconcileResult{
		ActaPath:      actaPath,
		InventoryPath: inventoryPath,
		Summary:       sum,
	}, in, nil
}

// openActa resolves, checks and loads a hand-over record
func (s *Service) openActa(path string) (string, *grid.Sheet, error) {
	resolved, err := s.checkedPath(path)
	if err != nil {
		return "", nil, reconcile.NewError(reconcile.ErrorTypeSourceUnreadable,
			"cannot use hand-over record", err).WithPath(path)
	}
	doc, err := OpenDocument(resolved)
	if err != nil {
		return "", nil, reconcile.NewError(reconcile.ErrorTypeSourceUnreadable,
			"cannot read hand-over record", err).WithPath(resolved)
	}
	return resolved, doc, nil
}

func (s *Service) checkedPath(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.validator.CheckFile(resolved); err != nil {
		return "", err
	}
	return resolved, nil
}

// outputDir picks the request directory, then the configured one, then the
// directory of the inventory workbook.
func (s *Service) outputDir(requested, inventoryPath string) (string, error) {
	dir := requested
	if dir == "" {
		dir = s.outputDirectory
	}
	if dir == "" {
		return filepath.Dir(inventoryPath), nil
	}
	resolved, err := s.pathValidator.Resolve(dir)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	if err := s.pathValidator.ValidateDirectory(resolved); err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// options merges per-call overrides into the configured extraction options
func (s *Service) options(d DisplayOptions) (extraction.Options, error) {
	opts := s.extraction
	if d.StartRow != 0 {
		opts.StartRow = d.StartRow
	}
	if d.LocationMode != "" {
		mode, err := extraction.ParseLocationMode(d.LocationMode)
		if err != nil {
			return opts, err
		}
		opts.LocationMode = mode
	}
	if d.LabelMode != "" {
		mode, err := extraction.ParseLabelMode(d.LabelMode)
		if err != nil {
			return opts, err
		}
		opts.LabelMode = mode
	}
	return opts, opts.Validate()
}
