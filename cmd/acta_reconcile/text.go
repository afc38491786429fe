package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/workbook"
)

func outputText(w io.Writer, result any) error {
	switch r := result.(type) {
	case *workbook.ExtractMetadataResult:
		md := r.Metadata
		fmt.Fprintf(w, "File:      %s\n", r.Path)
		fmt.Fprintf(w, "Acta:      %s\n", md.DocumentLabel)
		fmt.Fprintf(w, "Date:      %s\n", md.DateString())
		fmt.Fprintf(w, "Location:  %s\n", md.LocationCode)
		fmt.Fprintf(w, "Recipient: %s\n", strings.TrimSpace(md.RecipientGrade+" "+md.RecipientName))
		fmt.Fprintf(w, "ID:        %s\n", md.RecipientID)
		for _, f := range r.Missing {
			fmt.Fprintf(w, "warning: %s not found\n", f)
		}

	case *workbook.ReadItemsResult:
		fmt.Fprintf(w, "%d items, total %s (header row %d)\n", r.ItemCount, r.TotalValue, r.Table.HeaderRow)
		for _, item := range r.Table.Items {
			fmt.Fprintf(w, "%4d  %-40s  %-20s  %s\n", item.Row, item.Description, item.SerialRaw, item.AcquisitionValue)
		}

	case *workbook.ReconcileResult:
		s := r.Summary
		if r.OutputPath != "" {
			fmt.Fprintf(w, "Written:     %s\n", r.OutputPath)
		} else {
			fmt.Fprintln(w, "Preview, no workbook written")
		}
		fmt.Fprintf(w, "Acta:        %s (%s)\n", s.Metadata.DocumentLabel, s.Metadata.DateString())
		fmt.Fprintf(w, "Responsible: %s\n", s.Responsible)
		fmt.Fprintf(w, "Matched:     %d of %d items, %d rows updated\n", s.Matched, s.Items, s.RowsUpdated)
		fmt.Fprintf(w, "Overflow:    %d (no serial %d, not found %d)\n", s.Overflow, s.NoSerial, s.NotFound)
		for _, warn := range s.Warnings {
			fmt.Fprintf(w, "warning: %s\n", warn.Detail)
		}

	default:
		return fmt.Errorf("cannot render %T as text", result)
	}
	return nil
}
