package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/batch"
	"github.com/joseph-ayodele/letters-digitizer/internal/common"
	"github.com/joseph-ayodele/letters-digitizer/internal/convert"
	"github.com/joseph-ayodele/letters-digitizer/internal/export"
	"github.com/joseph-ayodele/letters-digitizer/internal/ingest"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm/openai"
	"github.com/joseph-ayodele/letters-digitizer/internal/ocr"
	"github.com/joseph-ayodele/letters-digitizer/internal/pipeline"
	"github.com/joseph-ayodele/letters-digitizer/internal/storage"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags; env (and .env) provide everything else
	var (
		input  = flag.String("input", "", "directory of letter scans (overrides INPUT_DIR)")
		output = flag.String("output", "", "directory for per-letter artifacts (overrides OUTPUT_DIR)")
		noXLSX = flag.Bool("no-xlsx", false, "skip the entities workbook export")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *input != "" {
		cfg.Paths.InputDir = *input
	}
	if *output != "" {
		cfg.Paths.OutputDir = *output
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := common.InitLogging(cfg.Paths.LogDir)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("letters pipeline started",
		"input", cfg.Paths.InputDir,
		"bucket", cfg.AWS.Bucket,
		"batch_size", cfg.Pipeline.BatchSize,
		"workers", cfg.Pipeline.Workers,
	)
	start := time.Now()
	ctx := context.Background()

	// Setup failures abort before any batch starts.
	if st, err := os.Stat(cfg.Paths.InputDir); err != nil || !st.IsDir() {
		logger.Error("input dir missing or not a directory", "dir", cfg.Paths.InputDir)
		os.Exit(1)
	}
	for _, dir := range []string{cfg.Paths.TmpDir, cfg.Paths.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	files, err := ingest.ListScans(cfg.Paths.InputDir)
	if err != nil {
		logger.Error("failed to list scans", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Info("no scans to process", "dir", cfg.Paths.InputDir)
		return
	}

	// External clients, constructed once and shared for the whole run.
	store, err := storage.NewS3Store(ctx, cfg.AWS, logger)
	if err != nil {
		logger.Error("failed to initialize S3", "error", err)
		os.Exit(1)
	}
	detector, err := ocr.NewTextractDetector(ctx, cfg.AWS, logger)
	if err != nil {
		logger.Error("failed to initialize Textract", "error", err)
		os.Exit(1)
	}
	converter, err := convert.ForEngine(cfg.Convert.Engine, cfg.Convert.MagickCommand, logger)
	if err != nil {
		logger.Error("failed to initialize converter", "error", err)
		os.Exit(1)
	}

	// LLM stages are optional: without an API key the pipeline still produces
	// raw text and coordinates.
	var openaiClient *openai.Client
	if cfg.LLM.APIKey != "" {
		openaiClient = openai.NewClient(openai.Config{
			Model:       cfg.LLM.Model,
			APIKey:      cfg.LLM.APIKey,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)
	} else {
		logger.Warn("OpenAI API key not configured, correction and extraction will be skipped")
	}

	preparer := pipeline.NewPreparer(store, converter, detector,
		cfg.Paths.InputDir, cfg.Paths.TmpDir, cfg.Paths.OutputDir, logger)
	waiter := ocr.NewWaiter(detector, cfg.OCR.PollMaxAttempts, cfg.OCR.PollDelay, logger)
	harvester := ocr.NewHarvester(detector, cfg.OCR.MaxResultPages)

	var processor *pipeline.Processor
	if openaiClient != nil {
		processor = pipeline.NewProcessor(waiter, harvester, openaiClient, openaiClient, logger)
	} else {
		processor = pipeline.NewProcessor(waiter, harvester, nil, nil, logger)
	}

	coordinator := pipeline.NewCoordinator(preparer, processor, store,
		cfg.Paths.TmpDir, cfg.Pipeline.Workers, logger)

	// Batches run strictly one after another so open Textract jobs never
	// exceed one batch's worth.
	batches := batch.Partition(files, cfg.Pipeline.BatchSize)
	var outcomes []pipeline.DocumentOutcome
	deleted := 0
	for i, b := range batches {
		logger.Info("processing batch", "batch", i+1, "of", len(batches), "files", len(b))
		res := coordinator.RunBatch(ctx, b)
		outcomes = append(outcomes, res.Outcomes...)
		deleted += res.DeletedKeys
	}

	// Run summary
	var prepared, completed, processed, corrected, extracted, failed int
	for _, o := range outcomes {
		if o.Prepared {
			prepared++
		}
		if o.OCR.Terminal() {
			completed++ // job was submitted and polled to a terminal state
		}
		if o.Processed {
			processed++
		} else {
			failed++
		}
		if o.Corrected {
			corrected++
		}
		if o.Extracted {
			extracted++
		}
	}
	if _, err := pipeline.WriteRunSummary(cfg.Paths.OutputDir, outcomes); err != nil {
		logger.Error("failed to write run summary", "error", err)
	}

	if !*noXLSX && extracted > 0 {
		xlsx, err := export.NewService(cfg.Paths.OutputDir, logger).ExportEntitiesXLSX()
		if err != nil {
			logger.Error("failed to export entities workbook", "error", err)
		} else {
			out := filepath.Join(cfg.Paths.OutputDir, "entities.xlsx")
			if err := os.WriteFile(out, xlsx, 0o644); err != nil {
				logger.Error("failed to write entities workbook", "path", out, "error", err)
			} else {
				logger.Info("entities workbook written", "path", out)
			}
		}
	}

	elapsed := time.Since(start)
	hrs := int(elapsed.Hours())
	mins := int(elapsed.Minutes()) % 60
	secs := int(elapsed.Seconds()) % 60
	logger.Info("pipeline completed",
		"scans", len(files),
		"batches", len(batches),
		"prepared", prepared,
		"jobs_completed", completed,
		"processed", processed,
		"corrected", corrected,
		"extracted", extracted,
		"failed", failed,
		"remote_keys_deleted", deleted,
		"runtime", fmt.Sprintf("%dh %dm %ds", hrs, mins, secs),
	)

	fmt.Printf("Letters pipeline complete!\n")
	fmt.Printf("- Scans found: %d\n", len(files))
	fmt.Printf("- Fully processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failed)
	fmt.Printf("- Output: %s\n", cfg.Paths.OutputDir)
	fmt.Printf("- Summary: %s\n", filepath.Join(cfg.Paths.OutputDir, constants.RunSummaryFile))
}
