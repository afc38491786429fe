package workbook

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

// Validator handles spreadsheet file validation
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a validator with the given size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that the file is a readable workbook and describes its
// sheets.
func (v *Validator) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	result := &ValidateFileResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.CheckFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	cols, err := LoadInventory(req.Path)
	if err != nil {
		result.Message = fmt.Sprintf("invalid workbook: %v", err)
		return result, nil //nolint:nilerr // Return result with validation error, not a processing error
	}

	result.Valid = true
	result.Sheets = describeSheets(cols)
	return result, nil
}

// CheckFile validates path, type and size without opening the file
func (v *Validator) CheckFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	return v.ValidateFileInfo(path, info)
}

// ValidateFileInfo performs the checks of CheckFile on an existing stat result
func (v *Validator) ValidateFileInfo(path string, info os.FileInfo) error {
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !IsSpreadsheet(path) {
		return fmt.Errorf("file is not a spreadsheet (%s): %s", filepath.Ext(path), path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if info.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)", info.Size(), v.maxFileSize)
	}
	return nil
}

func describeSheets(cols []*inventory.Collection) []SheetInfo {
	identity := inventory.FindIdentityCollection(cols)
	sheets := make([]SheetInfo, 0, len(cols))
	for _, c := range cols {
		sheets = append(sheets, SheetInfo{
			Name:      c.Name,
			Category:  inventory.CategoryOf(c.Name),
			Rows:      c.Len(),
			Indexable: !inventory.IsOverflowName(c.Name) && inventory.DetectSchema(c).Indexable(),
			Overflow:  inventory.IsOverflowName(c.Name),
			Identity:  c == identity,
		})
	}
	return sheets
}
