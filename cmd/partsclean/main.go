package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"partsclean/internal/config"
	"partsclean/internal/pipeline"
	"partsclean/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	must(err)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "input csv or xlsx path")
		output := fs.String("output", "", "output csv or xlsx path")
		column := fs.String("column", cfg.ProcessColumn, "column holding processor data, or auto")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*input) == "" {
			must(fmt.Errorf("--input is required"))
		}
		cfg.ProcessColumn = *column
		must(cfg.Require("PROCESS_COLUMN", cfg.ProcessColumn))

		db := openRunStore(cfg)
		if db != nil {
			defer db.Close()
		}
		svc := pipeline.NewProcessingService(db, cfg, logger)
		res, err := svc.ProcessFile(ctx, *input, *output)
		if errors.Is(err, pipeline.ErrSourceNotFound) {
			fmt.Fprintf(os.Stderr, "error: the input file %q was not found\n", *input)
			os.Exit(1)
		}
		must(err)
		fmt.Printf("run done rows=%d processors=%d chipsets=%d malformed=%d\n", res.Rows, res.Processors, res.Chipsets, res.Malformed)
		fmt.Printf("Output saved to %s\n", res.Output)
	case "batch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.ChunkDir, "directory holding chunk files")
		pattern := fs.String("pattern", cfg.ChunkPattern, "chunk file glob")
		output := fs.String("output", "", "combined output path")
		workers := fs.Int("workers", cfg.BatchWorkers, "files processed concurrently")
		_ = fs.Parse(os.Args[2:])
		cfg.ChunkPattern = *pattern
		if *workers > 0 {
			cfg.BatchWorkers = *workers
		}

		db := openRunStore(cfg)
		if db != nil {
			defer db.Close()
		}
		svc := pipeline.NewProcessingService(db, cfg, logger)
		res, err := svc.ProcessChunks(ctx, *dir, *output)
		if errors.Is(err, pipeline.ErrNoChunks) || errors.Is(err, pipeline.ErrNoData) {
			fmt.Println(err)
			return
		}
		must(err)
		for _, skipped := range res.Skipped {
			fmt.Printf("skipped %s\n", skipped)
		}
		fmt.Printf("batch done files=%d skipped=%d malformed=%d\n", res.Files, len(res.Skipped), res.Malformed)
		fmt.Printf("Output saved to %s\n", res.Output)
		fmt.Printf("Total rows processed: %d\n", res.Rows)
	case "parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		entry := fs.String("entry", "", "one raw processor entry")
		_ = fs.Parse(os.Args[2:])
		ex, err := rulesFromConfig(cfg).Explain("entry", *entry)
		must(err)
		printExplanation(ex)
	case "cell":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		value := fs.String("value", "", "raw cell value")
		missing := fs.Bool("missing", false, "treat the cell as missing")
		_ = fs.Parse(os.Args[2:])
		inputType := "cell"
		if *missing {
			inputType = "missing"
		}
		ex, err := rulesFromConfig(cfg).Explain(inputType, *value)
		must(err)
		printExplanation(ex)
	case "runs:list":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		limit := fs.Int("limit", 20, "max runs")
		_ = fs.Parse(os.Args[2:])
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		runs, err := db.ListRuns(*limit)
		must(err)
		for _, run := range runs {
			fmt.Printf("%d %s mode=%s rows=%d malformed=%d input=%s output=%s\n",
				run.ID, run.CreatedAt, run.Mode, run.Counts["rows"], run.Counts["malformed"], run.Input, run.Output)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func rulesFromConfig(cfg config.Config) *pipeline.Rules {
	return pipeline.NewRules(pipeline.Options{
		SpecialProcessors:   cfg.SpecialProcessors,
		EnablePlusSeparator: cfg.EnablePlusSeparator,
	})
}

func printExplanation(ex pipeline.Explanation) {
	for i, e := range ex.Entries {
		seg := ex.Segments[i]
		fmt.Printf("entry %d: %s\n", i+1, e.Original)
		fmt.Printf("  cleaned:    %s\n", e.Cleaned)
		fmt.Printf("  rule:       %s\n", seg.Rule)
		fmt.Printf("  processors: %v\n", seg.Processors)
		fmt.Printf("  chipset:    %s\n", seg.Chipset)
	}
	fmt.Printf("processors: %s\n", ex.Result.ProcessorsRendered)
	fmt.Printf("chipsets:   %s\n", ex.Result.ChipsetsRendered)
}

// openRunStore returns nil when run recording is disabled.
func openRunStore(cfg config.Config) *storage.DB {
	if !cfg.RecordRuns {
		return nil
	}
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func usage() {
	fmt.Println("usage: partsclean <command>")
	fmt.Println("commands:")
	fmt.Println("  run --input=chunk.csv|xlsx [--output=...] [--column=processor|auto]")
	fmt.Println("  batch [--dir=.] [--pattern=Kingston_DB_import_chunk_*.csv] [--output=...] [--workers=4]")
	fmt.Println("  parse --entry='Intel Pentium B940 Intel HM65'")
	fmt.Println("  cell --value=\"['Intel Core i7 10700']\" [--missing]")
	fmt.Println("  runs:list [--limit=20]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
