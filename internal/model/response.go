package model

// Placement is a single item instance placed on a sheet, reported in
// full-sheet millimeter coordinates (trim is visible as the offset from
// the sheet origin).
type Placement struct {
	ItemID           string           `json:"item_id"`
	Instance         int              `json:"instance"`
	XMM              float64          `json:"x_mm"`
	YMM              float64          `json:"y_mm"`
	WidthMM          float64          `json:"width_mm"`
	HeightMM         float64          `json:"height_mm"`
	Rotated          bool             `json:"rotated"`
	PatternDirection PatternDirection `json:"pattern_direction"`
}

// Solution is one used sheet and everything placed on it, in the order the
// packer first placed something onto it.
type Solution struct {
	StockID    string      `json:"stock_id"`
	Index      int         `json:"index"`
	WidthMM    float64     `json:"width_mm"`
	HeightMM   float64     `json:"height_mm"`
	TrimMM     Trim        `json:"trim_mm"`
	Placements []Placement `json:"placements"`
}

// EngineSummary reports the fully-resolved engine configuration that
// produced a response, for reproducibility.
type EngineSummary struct {
	Packer    Packer    `json:"packer"`
	BinSelect BinSelect `json:"bin_select"`
	Sort      SortMode  `json:"sort"`
}

// Summary reports the objective-relevant aggregate metrics and the search
// metadata needed to reproduce a response byte-for-byte (modulo TimeMS).
type Summary struct {
	Mode              Mode          `json:"mode"`
	Objective         Objective     `json:"objective"`
	UsedStockCount    int           `json:"used_stock_count"`
	TotalWasteAreaMM2 float64       `json:"total_waste_area_mm2"`
	WastePercent      float64       `json:"waste_percent"`
	TimeMS            int64         `json:"time_ms"`
	RestartsUsed      int           `json:"restarts_used"`
	Seed              int64         `json:"seed"`
	Engine            EngineSummary `json:"engine"`
}

// Artifacts carries rendered representations of a solution that the core
// does not itself interpret; it only returns whatever the renderer hands
// back.
type Artifacts struct {
	SVG string `json:"svg"`
}

// OptimizeResponse is the successful result of a single optimize call.
type OptimizeResponse struct {
	Status    string     `json:"status"`
	Summary   Summary    `json:"summary"`
	Solutions []Solution `json:"solutions"`
	Artifacts Artifacts  `json:"artifacts"`
}

// ErrorResponse is the shape returned for any non-2xx optimize result.
type ErrorResponse struct {
	Status    string         `json:"status"`
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}
