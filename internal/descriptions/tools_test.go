package descriptions

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetToolDescription(t *testing.T) {
	assert.Contains(t, GetToolDescription("inventory_reconcile"), "SIN SERIAL")
	assert.Equal(t, "Tool description not available", GetToolDescription("pdf_read_file"))
}

func TestGetAllToolNames(t *testing.T) {
	names := GetAllToolNames()
	sort.Strings(names)
	assert.Equal(t, []string{
		"acta_extract_metadata",
		"acta_read_items",
		"inventory_preview",
		"inventory_reconcile",
		"inventory_search_directory",
		"inventory_server_info",
		"inventory_validate_file",
	}, names)
}
