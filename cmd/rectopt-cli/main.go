// Command rectopt-cli runs the optimizer against a local item/stock list
// without standing up the HTTP service, and writes the chosen artifacts
// to disk.
//
// Build:
//
//	go build -o rectopt-cli ./cmd/rectopt-cli
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/rectopt/internal/config"
	"github.com/piwi3910/rectopt/internal/engine"
	"github.com/piwi3910/rectopt/internal/export"
	"github.com/piwi3910/rectopt/internal/importer"
	"github.com/piwi3910/rectopt/internal/model"
	"github.com/piwi3910/rectopt/internal/svgrender"
)

func main() {
	var (
		itemsPath   string
		stockPath   string
		objective   string
		mode        string
		spacingMM   float64
		timeLimitMS int
		restarts    int
		outDir      string
	)

	flag.StringVar(&itemsPath, "items", "", "path to an items list (.csv or .xlsx)")
	flag.StringVar(&stockPath, "stock", "", "path to a stock list (.csv or .xlsx); defaults to 100 sheets of 2440 x 1220 mm")
	flag.StringVar(&objective, "objective", string(model.ObjectiveMinWaste), "min_waste or min_sheets")
	flag.StringVar(&mode, "mode", string(model.ModeGuillotine), "guillotine or nested")
	flag.Float64Var(&spacingMM, "spacing-mm", 3, "blade kerf / spacing between placements, in mm")
	flag.IntVar(&timeLimitMS, "time-limit-ms", 0, "search time limit in milliseconds; 0 uses the configured default")
	flag.IntVar(&restarts, "restarts", 0, "number of search restarts; 0 uses the configured default")
	flag.StringVar(&outDir, "out", ".", "directory to write artifacts (response.json, layout.svg, report.pdf, labels.pdf, workbook.xlsx)")
	flag.Parse()

	if itemsPath == "" {
		fmt.Fprintln(os.Stderr, "rectopt-cli: -items is required")
		os.Exit(2)
	}

	settings := config.Default()
	if timeLimitMS == 0 {
		timeLimitMS = settings.DefaultTimeLimitMS
	}
	if restarts == 0 {
		restarts = settings.DefaultRestarts
	}

	items, err := importList(importItems(itemsPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-cli: %v\n", err)
		os.Exit(1)
	}

	stock, err := loadStock(stockPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-cli: %v\n", err)
		os.Exit(1)
	}

	req := model.OptimizeRequest{
		Units: "mm",
		Params: model.Params{
			Mode:        model.Mode(mode),
			SpacingMM:   spacingMM,
			TimeLimitMS: timeLimitMS,
			Restarts:    restarts,
			Objective:   model.Objective(objective),
		},
		Stock: stock,
		Items: items,
	}

	resp, err := engine.Optimize(req, settings.MaxInstances, settings.DefaultUnitScale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-cli: optimize failed: %v\n", err)
		os.Exit(1)
	}
	resp.Artifacts.SVG = svgrender.Render(resp.Solutions)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-cli: %v\n", err)
		os.Exit(1)
	}
	if err := writeArtifacts(outDir, req, resp); err != nil {
		fmt.Fprintf(os.Stderr, "rectopt-cli: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("used %d sheet(s), %.1f%% waste, wrote artifacts to %s\n",
		resp.Summary.UsedStockCount, resp.Summary.WastePercent, outDir)
}

// importItems reads an item list from a CSV or Excel file based on extension.
func importItems(path string) importer.ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return importer.ImportExcel(path)
	default:
		return importer.ImportCSV(path)
	}
}

// importList turns an importer.ImportResult into items or an error,
// printing any warnings to stderr along the way.
func importList(result importer.ImportResult) ([]model.Item, error) {
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "rectopt-cli: warning: %s\n", w)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("import: %s", strings.Join(result.Errors, "; "))
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("import: no items found")
	}
	return result.Items, nil
}

// loadStock reads a stock list from path, or falls back to one default
// sheet size (2440 x 1220 mm, quantity 100) when no path is given.
func loadStock(path string) ([]model.Stock, error) {
	if path == "" {
		return []model.Stock{
			{ID: "default-sheet", WidthMM: 2440, HeightMM: 1220, Qty: 100},
		}, nil
	}
	items, err := importList(importItems(path))
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	stock := make([]model.Stock, 0, len(items))
	for _, it := range items {
		stock = append(stock, model.Stock{ID: it.ID, WidthMM: it.WidthMM, HeightMM: it.HeightMM, Qty: it.Qty})
	}
	return stock, nil
}

// writeArtifacts writes every artifact the CLI produces to outDir.
func writeArtifacts(outDir string, req model.OptimizeRequest, resp model.OptimizeResponse) error {
	jsonPath := filepath.Join(outDir, "response.json")
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", jsonPath, err)
	}
	enc := json.NewEncoder(jsonFile)
	enc.SetIndent("", "  ")
	encErr := enc.Encode(resp)
	if closeErr := jsonFile.Close(); closeErr != nil && encErr == nil {
		encErr = closeErr
	}
	if encErr != nil {
		return fmt.Errorf("write %s: %w", jsonPath, encErr)
	}

	svgPath := filepath.Join(outDir, "layout.svg")
	if err := os.WriteFile(svgPath, []byte(resp.Artifacts.SVG), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", svgPath, err)
	}

	if len(resp.Solutions) == 0 {
		return nil
	}

	if err := writeViaFile(filepath.Join(outDir, "report.pdf"), func(f *os.File) error {
		return export.ExportPDF(f, resp.Solutions, resp.Summary)
	}); err != nil {
		return err
	}
	if err := writeViaFile(filepath.Join(outDir, "labels.pdf"), func(f *os.File) error {
		return export.ExportLabels(f, resp.Solutions)
	}); err != nil {
		return err
	}
	if err := writeViaFile(filepath.Join(outDir, "workbook.xlsx"), func(f *os.File) error {
		return export.ExportWorkbook(f, req, resp)
	}); err != nil {
		return err
	}
	return nil
}

func writeViaFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	writeErr := write(f)
	if closeErr := f.Close(); closeErr != nil && writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}
	return nil
}
