package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/rectopt/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter_Comma(t *testing.T) {
	data := []byte("Label,Width,Height,Qty\nShelf,600,300,2\nDoor,400,800,1\n")
	got := DetectCSVDelimiter(data)
	if got != ',' {
		t.Errorf("expected comma delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Semicolon(t *testing.T) {
	data := []byte("Label;Width;Height;Qty\nShelf;600;300;2\nDoor;400;800;1\n")
	got := DetectCSVDelimiter(data)
	if got != ';' {
		t.Errorf("expected semicolon delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Tab(t *testing.T) {
	data := []byte("Label\tWidth\tHeight\tQty\nShelf\t600\t300\t2\nDoor\t400\t800\t1\n")
	got := DetectCSVDelimiter(data)
	if got != '\t' {
		t.Errorf("expected tab delimiter, got %q", got)
	}
}

func TestDetectCSVDelimiter_Pipe(t *testing.T) {
	data := []byte("Label|Width|Height|Qty\nShelf|600|300|2\nDoor|400|800|1\n")
	got := DetectCSVDelimiter(data)
	if got != '|' {
		t.Errorf("expected pipe delimiter, got %q", got)
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Height", "Quantity", "Rotation", "Pattern"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.ID != 0 {
		t.Errorf("expected ID at 0, got %d", mapping.ID)
	}
	if mapping.Width != 1 {
		t.Errorf("expected Width at 1, got %d", mapping.Width)
	}
	if mapping.Height != 2 {
		t.Errorf("expected Height at 2, got %d", mapping.Height)
	}
	if mapping.Quantity != 3 {
		t.Errorf("expected Quantity at 3, got %d", mapping.Quantity)
	}
	if mapping.Rotation != 4 {
		t.Errorf("expected Rotation at 4, got %d", mapping.Rotation)
	}
	if mapping.PatternDirection != 5 {
		t.Errorf("expected PatternDirection at 5, got %d", mapping.PatternDirection)
	}
}

func TestDetectColumns_CaseInsensitive(t *testing.T) {
	row := []string{"NAME", "WIDTH", "HEIGHT", "QTY"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.ID != 0 {
		t.Errorf("expected ID at 0, got %d", mapping.ID)
	}
	if mapping.Width != 1 {
		t.Errorf("expected Width at 1, got %d", mapping.Width)
	}
}

func TestDetectColumns_AlternativeNames(t *testing.T) {
	row := []string{"Item Name", "W", "H", "Pcs", "Grain Direction"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.ID != 0 {
		t.Errorf("expected ID at 0, got %d", mapping.ID)
	}
	if mapping.Width != 1 {
		t.Errorf("expected Width at 1, got %d", mapping.Width)
	}
	if mapping.Height != 2 {
		t.Errorf("expected Height at 2, got %d", mapping.Height)
	}
	if mapping.Quantity != 3 {
		t.Errorf("expected Quantity at 3, got %d", mapping.Quantity)
	}
	if mapping.PatternDirection != 4 {
		t.Errorf("expected PatternDirection at 4, got %d", mapping.PatternDirection)
	}
}

func TestDetectColumns_ReorderedColumns(t *testing.T) {
	row := []string{"Qty", "Height", "Width", "Label"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Error("expected header to be detected")
	}
	if mapping.Quantity != 0 {
		t.Errorf("expected Quantity at 0, got %d", mapping.Quantity)
	}
	if mapping.Height != 1 {
		t.Errorf("expected Height at 1, got %d", mapping.Height)
	}
	if mapping.Width != 2 {
		t.Errorf("expected Width at 2, got %d", mapping.Width)
	}
	if mapping.ID != 3 {
		t.Errorf("expected ID at 3, got %d", mapping.ID)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	row := []string{"Shelf", "600", "300", "2"}
	mapping, isHeader := DetectColumns(row)

	if isHeader {
		t.Error("expected no header detection for numeric data")
	}
	if mapping.ID != 0 || mapping.Width != 1 || mapping.Height != 2 || mapping.Quantity != 3 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Quantity,Pattern\nShelf,600,300,2,along_width\nDoor,400,800,1,along_height\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected ID 'Shelf', got '%s'", result.Items[0].ID)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
	if result.Items[0].HeightMM != 300 {
		t.Errorf("expected height 300, got %f", result.Items[0].HeightMM)
	}
	if result.Items[0].Qty != 2 {
		t.Errorf("expected quantity 2, got %d", result.Items[0].Qty)
	}
	if result.Items[0].PatternDirection != model.PatternAlongWidth {
		t.Errorf("expected PatternAlongWidth, got %v", result.Items[0].PatternDirection)
	}

	if result.Items[1].PatternDirection != model.PatternAlongHeight {
		t.Errorf("expected PatternAlongHeight, got %v", result.Items[1].PatternDirection)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Shelf,600,300,2\nDoor,400,800,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected ID 'Shelf', got '%s'", result.Items[0].ID)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
}

func TestImportCSVFromReader_SemicolonDelimiter(t *testing.T) {
	data := "Label;Width;Height;Quantity\nShelf;600;300;2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ';')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected ID 'Shelf', got '%s'", result.Items[0].ID)
	}
}

func TestImportCSVFromReader_TabDelimiter(t *testing.T) {
	data := "Label\tWidth\tHeight\tQuantity\nShelf\t600\t300\t2\n"
	result := ImportCSVFromReader(strings.NewReader(data), '\t')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_ReorderedColumns(t *testing.T) {
	data := "Qty,Height,Width,Name\n2,300,600,Shelf\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected ID 'Shelf', got '%s'", result.Items[0].ID)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
	if result.Items[0].HeightMM != 300 {
		t.Errorf("expected height 300, got %f", result.Items[0].HeightMM)
	}
	if result.Items[0].Qty != 2 {
		t.Errorf("expected quantity 2, got %d", result.Items[0].Qty)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	data := ""
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

func TestImportCSVFromReader_InvalidWidth(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,abc,300,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
	if len(result.Items) != 0 {
		t.Errorf("expected 0 items, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_InvalidQuantity(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,600,300,abc\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid quantity")
	}
}

func TestImportCSVFromReader_NegativeValues(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,-600,300,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for negative width")
	}
}

func TestImportCSVFromReader_ZeroQuantity(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,600,300,0\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for zero quantity")
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Label,Width,Height,Quantity\nGood,600,300,2\nBad,abc,300,2\nAlsoGood,400,200,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 valid items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %d", len(result.Errors))
	}
}

func TestImportCSVFromReader_EmptyRows(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,600,300,2\n\n\nDoor,400,800,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 items (skipping empty rows), got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_EmptyLabel(t *testing.T) {
	data := "Label,Width,Height,Quantity\n,600,300,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "item-1" {
		t.Errorf("expected auto-generated ID 'item-1', got '%s'", result.Items[0].ID)
	}
}

func TestImportCSVFromReader_PatternDirectionParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected model.PatternDirection
		warning  bool
	}{
		{"along_width", model.PatternAlongWidth, false},
		{"horizontal", model.PatternAlongWidth, false},
		{"H", model.PatternAlongWidth, false},
		{"along_height", model.PatternAlongHeight, false},
		{"vertical", model.PatternAlongHeight, false},
		{"V", model.PatternAlongHeight, false},
		{"none", model.PatternNone, false},
		{"None", model.PatternNone, false},
		{"-", model.PatternNone, false},
		{"", model.PatternNone, false},
		{"diagonal", model.PatternNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			data := "Label,Width,Height,Quantity,Pattern\nItem,600,300,1," + tt.input + "\n"
			result := ImportCSVFromReader(strings.NewReader(data), ',')

			if len(result.Items) != 1 {
				t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
			}
			if result.Items[0].PatternDirection != tt.expected {
				t.Errorf("pattern %q: expected %v, got %v", tt.input, tt.expected, result.Items[0].PatternDirection)
			}
			hasWarning := false
			for _, w := range result.Warnings {
				if strings.Contains(w, "unknown pattern direction") {
					hasWarning = true
				}
			}
			if tt.warning && !hasWarning {
				t.Errorf("pattern %q: expected warning but got none", tt.input)
			}
			if !tt.warning && hasWarning {
				t.Errorf("pattern %q: unexpected warning", tt.input)
			}
		})
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	data := "Label,Width,Pattern\nShelf,600,along_width\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) == 0 {
		t.Error("expected error for missing Height and Quantity columns")
	}
	foundMissing := false
	for _, e := range result.Errors {
		if strings.Contains(e, "required columns not found") {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("expected 'required columns not found' error, got: %v", result.Errors)
	}
}

// ─── CSV File Import Tests ──────────────────────────────────

func TestImportCSV_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	content := "Label,Width,Height,Quantity\nShelf,600,300,2\nDoor,400,800,1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.csv")
	content := "Label;Width;Height;Quantity\nShelf;600;300;2\nDoor;400;800;1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}

	hasSemicolonWarning := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			hasSemicolonWarning = true
		}
	}
	if !hasSemicolonWarning {
		t.Error("expected warning about semicolon delimiter detection")
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV("/nonexistent/path/file.csv")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity", "Pattern"},
		{"Shelf", 600, 300, 2, "along_width"},
		{"Door", 400, 800, 1, "along_height"},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected 'Shelf', got '%s'", result.Items[0].ID)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
	if result.Items[0].PatternDirection != model.PatternAlongWidth {
		t.Errorf("expected PatternAlongWidth, got %v", result.Items[0].PatternDirection)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Shelf", 600, 300, 2},
		{"Door", 400, 800, 1},
	})

	result := ImportExcel(path)

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportExcel_ReorderedColumns(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Qty", "Name", "Height", "Width"},
		{2, "Shelf", 300, 600},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "Shelf" {
		t.Errorf("expected 'Shelf', got '%s'", result.Items[0].ID)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel("/nonexistent/file.xlsx")

	if len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Label", "Width", "Height", "Quantity"},
		{"Shelf", "abc", 300, 2},
	})

	result := ImportExcel(path)

	if len(result.Errors) == 0 {
		t.Error("expected error for invalid width")
	}
}

// ─── parseRotation / parsePatternDirection Tests ───────────

func TestParseRotation(t *testing.T) {
	tests := []struct {
		input    string
		expected model.Rotation
		ok       bool
	}{
		{"allow_90", model.RotationAllow90, true},
		{"yes", model.RotationAllow90, true},
		{"", model.RotationAllow90, true},
		{"forbid", model.RotationForbid, true},
		{"no", model.RotationForbid, true},
		{"  forbid  ", model.RotationForbid, true},
		{"sideways", model.RotationAllow90, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rotation, ok := parseRotation(tt.input)
			if rotation != tt.expected {
				t.Errorf("parseRotation(%q): expected %v, got %v", tt.input, tt.expected, rotation)
			}
			if ok != tt.ok {
				t.Errorf("parseRotation(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			}
		})
	}
}

func TestParsePatternDirection(t *testing.T) {
	tests := []struct {
		input    string
		expected model.PatternDirection
		ok       bool
	}{
		{"along_width", model.PatternAlongWidth, true},
		{"horizontal", model.PatternAlongWidth, true},
		{"along_height", model.PatternAlongHeight, true},
		{"vertical", model.PatternAlongHeight, true},
		{"none", model.PatternNone, true},
		{"", model.PatternNone, true},
		{"  v  ", model.PatternAlongHeight, true},
		{"diagonal", model.PatternNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pattern, ok := parsePatternDirection(tt.input)
			if pattern != tt.expected {
				t.Errorf("parsePatternDirection(%q): expected %v, got %v", tt.input, tt.expected, pattern)
			}
			if ok != tt.ok {
				t.Errorf("parsePatternDirection(%q): expected ok=%v, got %v", tt.input, tt.ok, ok)
			}
		})
	}
}

// ─── Edge Cases ────────────────────────────────────────────

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	data := "Label,Width,Height,Quantity\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 0 {
		t.Errorf("expected 0 items for header-only file, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_WhitespaceInValues(t *testing.T) {
	data := "Label , Width , Height , Quantity\n Shelf , 600 , 300 , 2 \n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].WidthMM != 600 {
		t.Errorf("expected width 600, got %f", result.Items[0].WidthMM)
	}
}

func TestImportCSVFromReader_DecimalValues(t *testing.T) {
	data := "Label,Width,Height,Quantity\nShelf,600.5,300.25,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].WidthMM != 600.5 {
		t.Errorf("expected width 600.5, got %f", result.Items[0].WidthMM)
	}
	if result.Items[0].HeightMM != 300.25 {
		t.Errorf("expected height 300.25, got %f", result.Items[0].HeightMM)
	}
}
