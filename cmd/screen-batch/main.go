package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/internal/async"
	"github.com/Fr3nn3r/ZurichInnovation/internal/common"
	"github.com/Fr3nn3r/ZurichInnovation/internal/engine"
	"github.com/Fr3nn3r/ZurichInnovation/internal/entity"
	"github.com/Fr3nn3r/ZurichInnovation/internal/gate"
	"github.com/Fr3nn3r/ZurichInnovation/internal/pipeline"
	"github.com/Fr3nn3r/ZurichInnovation/internal/report"
	"github.com/Fr3nn3r/ZurichInnovation/internal/repository"
	"github.com/Fr3nn3r/ZurichInnovation/internal/rules"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// documentFile is the on-disk input format: one JSON file per extracted
// document, produced by the upstream text-extraction step.
type documentFile struct {
	Name    string `json:"name"`
	FileExt string `json:"file_ext"`
	Pages   []struct {
		Text               string `json:"text"`
		HasImage           bool   `json:"has_image"`
		HasExtractableText bool   `json:"has_extractable_text"`
		ByteSize           int    `json:"byte_size"`
	} `json:"pages"`
	OCRConfidence *float64 `json:"ocr_confidence,omitempty"`
	GrammarIssues *int     `json:"grammar_issues,omitempty"`
}

// collector forwards each verdict to the store and keeps it in memory for
// the workbook.
type collector struct {
	store *repository.Store

	mu       sync.Mutex
	verdicts []entity.DocumentVerdict
}

func (c *collector) Put(ctx context.Context, runID uuid.UUID, v entity.DocumentVerdict) error {
	if err := c.store.Put(ctx, runID, v); err != nil {
		return err
	}
	c.mu.Lock()
	c.verdicts = append(c.verdicts, v)
	c.mu.Unlock()
	return nil
}

func (c *collector) sorted() []entity.DocumentVerdict {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.DocumentVerdict, len(c.verdicts))
	copy(out, c.verdicts)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func loadDocument(path string) (entity.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.DocumentInput{}, err
	}
	var df documentFile
	if err := json.Unmarshal(data, &df); err != nil {
		return entity.DocumentInput{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	doc := entity.DocumentInput{
		ID:      uuid.New(),
		Name:    df.Name,
		FileExt: df.FileExt,
		Signals: entity.Signals{OCRConfidence: df.OCRConfidence, GrammarIssues: df.GrammarIssues},
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	for i, p := range df.Pages {
		doc.Pages = append(doc.Pages, entity.Page{
			Index:              i,
			Text:               p.Text,
			HasImage:           p.HasImage,
			HasExtractableText: p.HasExtractableText,
			ByteSize:           p.ByteSize,
		})
	}
	return doc, nil
}

func main() {
	var (
		dir       = flag.String("dir", "", "directory of extracted document JSON files (required)")
		rulesPath = flag.String("rules", "", "rule table JSON path (optional, defaults to the embedded reference set)")
		out       = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		dbPath    = flag.String("db", "", "SQLite database path (optional, overrides SCREEN_DB_PATH)")
		workers   = flag.Int("workers", 4, "concurrent documents")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "screening.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var table *rules.Table
	var err error
	if *rulesPath != "" {
		table, err = rules.LoadFile(*rulesPath)
	} else {
		table, err = rules.Default()
	}
	if err != nil {
		logger.Error("failed to load rule table", "error", err)
		os.Exit(1)
	}
	logger.Info("rule table loaded", "criteria", table.Len())

	store, err := repository.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(ctx)
	if err != nil {
		logger.Error("failed to begin run", "error", err)
		os.Exit(1)
	}
	logger.Info("run started", "run_id", runID)

	fallback := gate.NewCommandFallback(cfg.Fallback.Command, cfg.Fallback.Timeout, logger)
	g := gate.New(cfg.Gate, cfg.Fallback, fallback, logger)
	eng := engine.New(table, logger,
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithScoreRecorder(store),
	)
	proc := pipeline.NewProcessor(logger, g, eng, cfg.Engine.DocumentTimeout)

	sink := &collector{store: store}
	queue := async.NewScreeningQueue(proc, sink, runID, logger,
		async.WithWorkers(*workers),
		async.WithProcessTimeout(cfg.Engine.DocumentTimeout+time.Minute),
	)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Error("failed to read input directory", "dir", *dir, "error", err)
		os.Exit(1)
	}

	submitted := 0
	failures := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		doc, err := loadDocument(filepath.Join(*dir, e.Name()))
		if err != nil {
			logger.Error("failed to load document", "file", e.Name(), "error", err)
			failures++
			continue
		}
		if err := queue.Enqueue(ctx, async.Job{Document: doc, SubmittedAt: time.Now()}); err != nil {
			logger.Error("failed to enqueue document", "file", e.Name(), "error", err)
			failures++
			continue
		}
		submitted++
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	queue.Shutdown(shutdownCtx)
	cancel()

	if err := store.FinishRun(ctx, runID); err != nil {
		logger.Error("failed to finish run", "error", err)
		os.Exit(1)
	}

	verdicts := sink.sorted()
	writer := report.NewWriter(table, logger)
	xlsxBytes, err := writer.WriteXLSX(verdicts)
	if err != nil {
		logger.Error("failed to render report", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	sum, err := store.Summary(ctx, runID)
	if err != nil {
		logger.Error("failed to load run summary", "error", err)
		os.Exit(1)
	}

	logger.Info("screening complete",
		"run_id", runID,
		"submitted", submitted,
		"screened", sum.Documents,
		"failures", failures+(submitted-sum.Documents),
		"output_file", *out)

	fmt.Printf("Screening complete!\n")
	fmt.Printf("- Documents screened: %d\n", sum.Documents)
	fmt.Printf("- Red: %d, Yellow: %d, Green: %d\n", sum.Red, sum.Yellow, sum.Green)
	fmt.Printf("- Output: %s\n", *out)
}
