package mcp

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
	"github.com/a3tai/mcp-inventory-sync/internal/workbook"
)

// Stdio streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func orNone(s string) string {
	if s == "" {
		return "(not found)"
	}
	return s
}

func formatMetadataResult(result *workbook.ExtractMetadataResult) string {
	md := result.Metadata
	var b strings.Builder

	fmt.Fprintf(&b, "Hand-over record: %s\n\n", result.Path)
	fmt.Fprintf(&b, "Document: %s\n", orNone(md.DocumentLabel))
	fmt.Fprintf(&b, "Date: %s\n", orNone(md.DateString()))
	fmt.Fprintf(&b, "Location: %s\n", orNone(md.LocationCode))

	recipient := strings.TrimSpace(strings.Join([]string{md.RecipientGrade, md.RecipientName}, " "))
	if md.RecipientID != "" {
		recipient = strings.TrimSpace(fmt.Sprintf("%s (ID %s)", recipient, md.RecipientID))
	}
	fmt.Fprintf(&b, "Recipient: %s\n", orNone(recipient))

	if len(md.Sources) > 0 {
		b.WriteString("\nSources:\n")
		fields := make([]string, 0, len(md.Sources))
		for f := range md.Sources {
			fields = append(fields, string(f))
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(&b, "  %s: %s\n", f, md.Sources[extraction.Field(f)])
		}
	}

	if len(result.Missing) > 0 {
		missing := make([]string, len(result.Missing))
		for i, f := range result.Missing {
			missing[i] = string(f)
		}
		fmt.Fprintf(&b, "\nMissing fields: %s\n", strings.Join(missing, ", "))
	}

	return b.String()
}

func formatItemsResult(result *workbook.ReadItemsResult) string {
	table := result.Table
	var b strings.Builder

	fmt.Fprintf(&b, "Item table of %s\n", result.Path)
	fmt.Fprintf(&b, "Header row: %d", table.HeaderRow)
	if table.EndRow > 0 {
		fmt.Fprintf(&b, ", end marker at row %d", table.EndRow)
	}
	fmt.Fprintf(&b, "\nItems: %d, total value: %s\n", result.ItemCount, result.TotalValue)

	if len(table.Missing) > 0 {
		roles := make([]string, len(table.Missing))
		for i, r := range table.Missing {
			roles[i] = string(r)
		}
		fmt.Fprintf(&b, "Columns not found: %s\n", strings.Join(roles, ", "))
	}

	if len(table.Items) > 0 {
		b.WriteString("\n")
	}
	for i, item := range table.Items {
		fmt.Fprintf(&b, "%d. row %d: %s\n", i+1, item.Row, orNone(item.Description))
		if item.SerialRaw != "" {
			fmt.Fprintf(&b, "   Serial: %s\n", item.SerialRaw)
		}
		if item.InventoryCode != "" {
			fmt.Fprintf(&b, "   Inventory code: %s\n", item.InventoryCode)
		}
		if item.AcquisitionValue != "" {
			fmt.Fprintf(&b, "   Value: %s\n", item.AcquisitionValue)
		}
	}

	return b.String()
}

func formatReconcileResult(result *workbook.ReconcileResult) string {
	sum := result.Summary
	var b strings.Builder

	if result.OutputPath == "" {
		b.WriteString("Reconciliation preview (nothing written)\n")
	} else {
		fmt.Fprintf(&b, "Reconciliation written to: %s\n", result.OutputPath)
	}
	fmt.Fprintf(&b, "Run: %s\n", sum.RunID)
	fmt.Fprintf(&b, "Acta: %s\n", result.ActaPath)
	fmt.Fprintf(&b, "Inventory: %s\n\n", result.InventoryPath)

	fmt.Fprintf(&b, "Document: %s\n", orNone(sum.Metadata.DocumentLabel))
	fmt.Fprintf(&b, "Date: %s\n", orNone(sum.Metadata.DateString()))
	fmt.Fprintf(&b, "Location: %s\n", orNone(sum.Metadata.LocationCode))
	fmt.Fprintf(&b, "Responsible: %s (%s)\n\n", sum.Responsible, sum.ResponsibleSource)

	fmt.Fprintf(&b, "Items: %d\n", sum.Items)
	fmt.Fprintf(&b, "Matched: %d (%d rows updated, value %s)\n", sum.Matched, sum.RowsUpdated, sum.MatchedValue.StringFixed(2))
	fmt.Fprintf(&b, "Overflow: %d (no serial %d, serial not found %d, value %s)\n",
		sum.Overflow, sum.NoSerial, sum.NotFound, sum.OverflowValue.StringFixed(2))
	if sum.Overflow > 0 {
		if sum.OverflowPersisted() {
			fmt.Fprintf(&b, "Overflow sheet: %s\n", sum.OverflowCollection)
		} else {
			b.WriteString("Overflow sheet: none, overflow items were not recorded\n")
		}
	}

	if len(sum.Collections) > 0 {
		b.WriteString("\nSheets:\n")
		for _, c := range sum.Collections {
			if !c.Indexed {
				fmt.Fprintf(&b, "  - %s [%s] not indexed\n", c.Name, c.Category)
				continue
			}
			fmt.Fprintf(&b, "  - %s [%s] %d serials, %d matched, %d rows updated\n",
				c.Name, c.Category, c.SerialKeys, c.Matched, c.RowsUpdated)
		}
	}

	if len(sum.Results) > 0 {
		b.WriteString("\nResults:\n")
		for _, r := range sum.Results {
			line := fmt.Sprintf("  row %d %s: %s", r.Row, orNone(r.Description), r.Outcome)
			switch {
			case r.Collection != "" && r.Sequence > 0:
				line += fmt.Sprintf(" -> %s #%d", r.Collection, r.Sequence)
			case r.Collection != "":
				line += fmt.Sprintf(" -> %s (%d rows)", r.Collection, r.RowsUpdated)
			}
			if r.SerialKey != "" {
				line += " [" + r.SerialKey + "]"
			}
			b.WriteString(line + "\n")
		}
	}

	if len(sum.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range sum.Warnings {
			fmt.Fprintf(&b, "  %s: %s\n", w.Type, w.Detail)
		}
	}

	return b.String()
}

func formatValidateResult(result *workbook.ValidateFileResult) string {
	if !result.Valid {
		return fmt.Sprintf("Workbook is invalid: %s\nPath: %s", result.Message, result.Path)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Workbook is valid: %s\n", result.Path)
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}
	if len(result.Sheets) > 0 {
		b.WriteString("\nSheets:\n")
	}
	for _, sh := range result.Sheets {
		var tags []string
		if sh.Indexable {
			tags = append(tags, "indexable")
		}
		if sh.Overflow {
			tags = append(tags, "overflow")
		}
		if sh.Identity {
			tags = append(tags, "identity")
		}
		line := fmt.Sprintf("  - %s [%s] %d rows", sh.Name, sh.Category, sh.Rows)
		if len(tags) > 0 {
			line += " (" + strings.Join(tags, ", ") + ")"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func formatSearchResult(result *workbook.SearchDirectoryResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Found %d spreadsheet file(s) in directory: %s", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&b, " (matching: %s)", result.SearchQuery)
	}
	b.WriteString("\n\n")

	for i, file := range result.Files {
		fmt.Fprintf(&b, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&b, "   Path: %s\n", file.Path)
		fmt.Fprintf(&b, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&b, "   Modified: %s\n\n", file.ModifiedTime)
	}

	return b.String()
}

func formatServerInfoResult(result *workbook.ServerInfoResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s v%s\n\n", result.ServerName, result.Version)
	fmt.Fprintf(&b, "Work directory: %s\n", result.WorkDirectory)
	if result.OutputDirectory != "" {
		fmt.Fprintf(&b, "Output directory: %s\n", result.OutputDirectory)
	}
	fmt.Fprintf(&b, "Max file size: %d bytes\n", result.MaxFileSize)
	fmt.Fprintf(&b, "Supported formats: %s\n", strings.Join(result.SupportedFormats, ", "))
	fmt.Fprintf(&b, "Defaults: start row %d, location %s, label %s\n\n",
		result.Defaults.StartRow, result.Defaults.LocationMode, result.Defaults.LabelMode)

	b.WriteString("Available tools:\n")
	for _, tool := range result.AvailableTools {
		fmt.Fprintf(&b, "  - %s: %s\n", tool.Name, tool.Usage)
		if tool.Parameters != "" {
			fmt.Fprintf(&b, "    Parameters: %s\n", tool.Parameters)
		}
	}

	fmt.Fprintf(&b, "\nSpreadsheets in work directory (%d", len(result.DirectoryContents))
	if result.Truncated {
		b.WriteString(", truncated")
	}
	b.WriteString("):\n")
	for _, file := range result.DirectoryContents {
		fmt.Fprintf(&b, "  - %s (%d bytes)\n", file.Name, file.Size)
	}

	fmt.Fprintf(&b, "\n%s\n", result.UsageGuidance)
	return b.String()
}
