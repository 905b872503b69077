package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"partsclean/internal"
	"partsclean/internal/config"
	"partsclean/internal/storage"
	"partsclean/internal/util"
)

// ProcessingService wires the cell cleaner to tabular files and, when a
// database is attached, records every run.
type ProcessingService struct {
	db    *storage.DB
	cfg   config.Config
	rules *Rules
	log   *zap.Logger
}

// NewProcessingService builds the rule set from cfg. db may be nil to skip
// run recording. BatchWorkers below 1 is treated as 1.
func NewProcessingService(db *storage.DB, cfg config.Config, log *zap.Logger) *ProcessingService {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 1
	}
	rules := NewRules(Options{
		SpecialProcessors:   cfg.SpecialProcessors,
		EnablePlusSeparator: cfg.EnablePlusSeparator,
	})
	return &ProcessingService{db: db, cfg: cfg, rules: rules, log: log}
}

func (s *ProcessingService) Rules() *Rules { return s.rules }

type ProcessResult struct {
	RunID      int64
	Output     string
	Files      int
	Rows       int
	Processors int
	Chipsets   int
	Malformed  int
	Skipped    []string
}

type TableStats struct {
	Rows       int
	Processors int
	Chipsets   int
	Malformed  int
}

// ProcessTable rewrites column in place with the rendered processor list and
// puts the rendered chipset list in the chipset column, inserting that column
// right after the processed one when the table does not have it yet.
func (s *ProcessingService) ProcessTable(t *Table, column string) ([]internal.RowResultRecord, TableStats, error) {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil, TableStats{}, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, column, t.Name)
	}
	chipIdx := t.ColumnIndex(s.cfg.ChipsetColumn)
	if chipIdx < 0 {
		chipIdx = idx + 1
		t.Header = insertAt(t.Header, chipIdx, s.cfg.ChipsetColumn)
		for i := range t.Rows {
			t.Rows[i] = insertAt(t.Rows[i], chipIdx, "")
		}
	}

	var stats TableStats
	records := make([]internal.RowResultRecord, 0, len(t.Rows))
	for i := range t.Rows {
		cell := t.Cell(i, idx)
		res := s.rules.ProcessCell(cell)
		t.Rows[i][idx] = res.ProcessorsRendered
		t.Rows[i][chipIdx] = res.ChipsetsRendered

		stats.Rows++
		stats.Processors += len(res.Processors)
		stats.Chipsets += len(res.Chipsets)
		if res.Malformed {
			stats.Malformed++
		}

		rec := internal.RowResultRecord{
			SourceFile: t.Name,
			RowNo:      i + 1,
			Processors: res.Processors,
			Chipsets:   res.Chipsets,
		}
		if !cell.Missing {
			rec.RawCell = util.StringPtr(cell.Value)
		}
		records = append(records, rec)
	}
	return records, stats, nil
}

// ProcessFile cleans one CSV or XLSX file. An empty output writes into
// OutputDir under the input's base name.
func (s *ProcessingService) ProcessFile(ctx context.Context, input, output string) (ProcessResult, error) {
	start := time.Now()
	if output == "" {
		output = filepath.Join(s.cfg.OutputDir, filepath.Base(input))
	}
	if err := ctx.Err(); err != nil {
		return ProcessResult{}, err
	}

	t, err := ReadTable(input)
	if err != nil {
		return ProcessResult{}, err
	}
	s.log.Info("read input", zap.String("file", input), zap.Int("rows", len(t.Rows)))

	records, stats, err := s.ProcessTable(t, s.resolveColumn(t))
	if err != nil {
		return ProcessResult{}, err
	}
	if err := WriteTable(t, output); err != nil {
		return ProcessResult{}, err
	}

	res := ProcessResult{
		Output:     output,
		Files:      1,
		Rows:       stats.Rows,
		Processors: stats.Processors,
		Chipsets:   stats.Chipsets,
		Malformed:  stats.Malformed,
	}
	res.RunID = s.recordRun("file", input, res, records, start)
	s.log.Info("wrote output", zap.String("file", output), zap.Int("rows", res.Rows), zap.Duration("took", time.Since(start)))
	return res, nil
}

type chunkOutcome struct {
	table   *Table
	records []internal.RowResultRecord
	stats   TableStats
}

// ProcessChunks cleans every chunk file in dir matching the configured
// pattern and writes one combined table. Files are read concurrently but
// rows keep sorted-filename order. A file that fails is logged and skipped.
func (s *ProcessingService) ProcessChunks(ctx context.Context, dir, output string) (ProcessResult, error) {
	start := time.Now()
	if output == "" {
		output = filepath.Join(s.cfg.OutputDir, "output.csv")
	}

	files, err := DiscoverChunks(dir, s.cfg.ChunkPattern)
	if err != nil {
		return ProcessResult{}, err
	}
	if len(files) == 0 {
		return ProcessResult{}, fmt.Errorf("%w: %s", ErrNoChunks, filepath.Join(dir, s.cfg.ChunkPattern))
	}

	outcomes := make([]*chunkOutcome, len(files))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.BatchWorkers)
	for i, file := range files {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			s.log.Info("processing chunk", zap.String("file", file))
			outcome, err := s.processChunk(file)
			if err != nil {
				s.log.Warn("skipping chunk", zap.String("file", file), zap.Error(err))
				return nil
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return ProcessResult{}, err
	}

	res := ProcessResult{Output: output}
	tables := make([]*Table, 0, len(files))
	var records []internal.RowResultRecord
	for i, outcome := range outcomes {
		if outcome == nil {
			res.Skipped = append(res.Skipped, files[i])
			continue
		}
		tables = append(tables, outcome.table)
		records = append(records, outcome.records...)
		res.Files++
		res.Rows += outcome.stats.Rows
		res.Processors += outcome.stats.Processors
		res.Chipsets += outcome.stats.Chipsets
		res.Malformed += outcome.stats.Malformed
	}
	if len(tables) == 0 {
		return res, ErrNoData
	}

	combined := ConcatTables(tables)
	if err := WriteTable(combined, output); err != nil {
		return res, err
	}
	res.RunID = s.recordRun("batch", filepath.Join(dir, s.cfg.ChunkPattern), res, records, start)
	s.log.Info("wrote combined output",
		zap.String("file", output),
		zap.Int("files", res.Files),
		zap.Int("skipped", len(res.Skipped)),
		zap.Int("rows", res.Rows),
		zap.Duration("took", time.Since(start)))
	return res, nil
}

// processChunk reads and cleans one chunk. A chunk without the processed
// column is passed through unchanged.
func (s *ProcessingService) processChunk(file string) (*chunkOutcome, error) {
	t, err := ReadTable(file)
	if err != nil {
		return nil, err
	}
	records, stats, err := s.ProcessTable(t, s.resolveColumn(t))
	if errors.Is(err, ErrColumnNotFound) {
		s.log.Warn("column missing, passing chunk through", zap.String("file", file), zap.String("column", s.cfg.ProcessColumn))
		return &chunkOutcome{table: t, stats: TableStats{Rows: len(t.Rows)}}, nil
	}
	if err != nil {
		return nil, err
	}
	return &chunkOutcome{table: t, records: records, stats: stats}, nil
}

// resolveColumn returns the configured processor column, or the detected one
// when the configuration asks for auto detection.
func (s *ProcessingService) resolveColumn(t *Table) string {
	if s.cfg.ProcessColumn != AutoColumn {
		return s.cfg.ProcessColumn
	}
	det := DetectProcessorColumn(t)
	s.log.Debug("detected processor column",
		zap.String("file", t.Name),
		zap.String("column", det.Column),
		zap.Float64("score", det.Score),
		zap.String("reason", det.Reason))
	if det.Index < 0 {
		return AutoColumn
	}
	return det.Column
}

func (s *ProcessingService) recordRun(mode, input string, res ProcessResult, records []internal.RowResultRecord, start time.Time) int64 {
	if s.db == nil || !s.cfg.RecordRuns {
		return 0
	}
	counts := map[string]int{
		"files":      res.Files,
		"rows":       res.Rows,
		"processors": res.Processors,
		"chipsets":   res.Chipsets,
		"malformed":  res.Malformed,
		"skipped":    len(res.Skipped),
	}
	timings := map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}

	runID, err := s.db.InsertRun(uuid.NewString(), mode, input, res.Output, timings, counts)
	if err != nil {
		s.log.Warn("record run failed", zap.Error(err))
		return 0
	}
	if err := s.db.InsertRowResults(runID, records); err != nil {
		s.log.Warn("record row results failed", zap.Int64("run", runID), zap.Error(err))
	}
	return runID
}

func insertAt(values []string, i int, v string) []string {
	values = append(values, "")
	copy(values[i+1:], values[i:])
	values[i] = v
	return values
}
