package workbook

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// Search handles spreadsheet discovery
type Search struct {
	validator *Validator
}

// NewSearch creates a search handler with the given size limit
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// SearchDirectory lists the spreadsheets under a directory whose names match
// the query. Hidden directories are skipped.
func (s *Search) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	files, _, err := s.walk(context.Background(), req.Directory, req.Query, 0)
	if err != nil {
		return nil, err
	}

	absDirectory, _ := filepath.Abs(req.Directory)
	return &SearchDirectoryResult{
		Files:       files,
		TotalCount:  len(files),
		Directory:   absDirectory,
		SearchQuery: req.Query,
	}, nil
}

// FindLimited lists at most limit spreadsheets and stops early when ctx is
// done. truncated reports whether the listing is incomplete.
func (s *Search) FindLimited(ctx context.Context, directory string, limit int) (files []FileInfo, truncated bool, err error) {
	return s.walk(ctx, directory, "", limit)
}

func (s *Search) walk(ctx context.Context, directory, query string, limit int) ([]FileInfo, bool, error) {
	if directory == "" {
		return nil, false, fmt.Errorf("directory cannot be empty")
	}
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, false, fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, false, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query = normalizeQuery(query)
	files := []FileInfo{}
	truncated := false

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil
		}
		if ctx.Err() != nil {
			truncated = true
			return filepath.SkipAll
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 || strings.HasPrefix(d.Name(), "~$") {
			return nil
		}
		if !IsSpreadsheet(d.Name()) {
			return nil
		}

		if limit > 0 && len(files) >= limit {
			truncated = true
			return filepath.SkipAll
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}
		if query != "" && !s.matchesQuery(info.Name(), query) {
			return nil
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("error walking directory: %w", err)
	}

	return files, truncated, nil
}

func normalizeQuery(q string) string {
	return strings.ToLower(textnorm.Fold(strings.TrimSpace(q)))
}

// matchesQuery matches accent- and case-insensitively on the whole name,
// then word by word.
func (s *Search) matchesQuery(filename, query string) bool {
	if query == "" {
		return true
	}

	name := normalizeQuery(filename)
	if strings.Contains(name, query) {
		return true
	}

	words := s.splitIntoWords(strings.TrimSuffix(name, filepath.Ext(name)))
	for _, queryWord := range s.splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// splitIntoWords splits a string into words using common separators
func (s *Search) splitIntoWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}
