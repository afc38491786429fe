package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/a3tai/mcp-inventory-sync/internal/config"
	"github.com/a3tai/mcp-inventory-sync/internal/workbook"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var version = "dev" // This will be set by build flags

type options struct {
	format      string
	preview     bool
	extractOnly bool
	items       bool
	verbose     bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("acta_reconcile", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.format, "format", formatText, "Output format: text, json, yaml")
	fs.BoolVar(&opts.preview, "preview", false, "Show what would change without writing a workbook")
	fs.BoolVar(&opts.extractOnly, "extract-only", false, "Only print the acta metadata")
	fs.BoolVar(&opts.items, "items", false, "Only print the acta item table")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log reconciliation events to stderr")
	fs.Usage = func() { printUsage(stderr, fs) }

	cfg, err := config.LoadFromFlagSet(fs, args)
	if errors.Is(err, config.ErrVersionRequested) {
		fmt.Fprintf(stdout, "acta_reconcile %s\n", version)
		return nil
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	switch opts.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unsupported output format: %s", opts.format)
	}

	rest := fs.Args()
	needsInventory := !opts.extractOnly && !opts.items
	if len(rest) < 1 || (needsInventory && len(rest) < 2) {
		fs.Usage()
		return fmt.Errorf("acta path and inventory path required")
	}

	logger := zap.NewNop()
	if opts.verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if logger, err = zcfg.Build(); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}

	extractionOpts, err := cfg.ExtractionOptions()
	if err != nil {
		return err
	}
	svc, err := workbook.NewService(workbook.Settings{
		WorkDirectory:   cfg.WorkDirectory,
		OutputDirectory: cfg.OutputDirectory,
		MaxFileSize:     cfg.MaxFileSize,
		Extraction:      extractionOpts,
	}, logger)
	if err != nil {
		return err
	}

	var result any
	switch {
	case opts.extractOnly:
		result, err = svc.ExtractMetadata(workbook.ExtractMetadataRequest{Path: rest[0]})
	case opts.items:
		result, err = svc.ReadItems(workbook.ReadItemsRequest{Path: rest[0]})
	case opts.preview:
		result, err = svc.Preview(workbook.ReconcileRequest{ActaPath: rest[0], InventoryPath: rest[1]})
	default:
		result, err = svc.Reconcile(workbook.ReconcileRequest{ActaPath: rest[0], InventoryPath: rest[1]})
	}
	if err != nil {
		return err
	}

	return output(stdout, opts.format, result)
}

func output(w io.Writer, format string, result any) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(result); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return outputText(w, result)
	}
}

func printUsage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "acta_reconcile - apply a hand-over record (acta) to an inventory workbook")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  acta_reconcile [OPTIONS] <acta> <inventory>")
	fmt.Fprintln(w, "  acta_reconcile --extract-only [OPTIONS] <acta>")
	fmt.Fprintln(w, "  acta_reconcile --items [OPTIONS] <acta>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  acta_reconcile --dir ./actas \"acta 243.xlsx\" INVENTARIO.xlsx")
	fmt.Fprintln(w, "  acta_reconcile --preview --format yaml acta.xls INVENTARIO.xlsx")
	fmt.Fprintln(w, "  acta_reconcile --extract-only --acta-mode number_only acta.xlsx")
}
