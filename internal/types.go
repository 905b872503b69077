package internal

// RawCell is one value of the processed column. Missing marks an absent
// value (empty cell or an NA token); Value is meaningless when Missing is set.
type RawCell struct {
	Value   string
	Missing bool
}

func CellOf(value string) RawCell { return RawCell{Value: value} }

func MissingCell() RawCell { return RawCell{Missing: true} }

// Entry is a normalized entry plus the trimmed pre-cleaning form used by the
// APU family and plus-separator rules.
type Entry struct {
	Original string
	Cleaned  string
}

type Segment struct {
	Processors []string
	Chipset    string
	Rule       SegmentRule
}

type SegmentRule string

const (
	RuleAPUFamily      SegmentRule = "APU_FAMILY"
	RulePlusSeparator  SegmentRule = "PLUS_SEPARATOR"
	RuleSecondVendor   SegmentRule = "SECOND_VENDOR"
	RuleTrailingVendor SegmentRule = "TRAILING_VENDOR"
	RuleTrailingNvidia SegmentRule = "TRAILING_NVIDIA"
	RuleTrailingCode   SegmentRule = "TRAILING_CODE"
	RuleFallback       SegmentRule = "FALLBACK"
)

// RowResult is the cleaned pair for one cell. Malformed records that the cell
// was not valid literal syntax and was read as a single entry.
type RowResult struct {
	Processors         []string
	Chipsets           []string
	ProcessorsRendered string
	ChipsetsRendered   string
	Malformed          bool
}

type RowResultRecord struct {
	RunID      int64
	SourceFile string
	RowNo      int
	RawCell    *string
	Processors []string
	Chipsets   []string
}

type RunRecord struct {
	ID        int64
	TraceID   string
	Mode      string
	Input     string
	Output    string
	Timings   map[string]float64
	Counts    map[string]int
	CreatedAt string
}
