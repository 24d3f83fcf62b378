// Command tm-engine translates a Portuguese LaTeX article to English with
// structural protection, translation memory reuse, and consistency
// validation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"tm-engine/internal/config"
	"tm-engine/internal/logger"
	"tm-engine/internal/memory"
	"tm-engine/internal/pipeline"
	"tm-engine/internal/terminology"
	"tm-engine/internal/translate"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "path to the source LaTeX document (required)")
		outputPath = flag.String("output", "", "path for the translated document (required)")
		memoryPath = flag.String("memory", "", "translation memory file to load and update")
		termsPath  = flag.String("terms", "", "YAML file with extra terminology")
		configPath = flag.String("config", "", "configuration file (default ~/.config/tm-engine)")
		reportPath = flag.String("report", "", "write the validation report as JSON")
		dryRun     = flag.Bool("dry-run", false, "echo segments through a mock translator instead of calling the API")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	if *inputPath == "" || *outputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	logConfig := logger.DefaultConfig()
	if *verbose {
		logConfig.Level = logger.LevelDebug
	}
	if err := logger.Init(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	if err := run(*inputPath, *outputPath, *memoryPath, *termsPath, *configPath, *reportPath, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outputPath, memoryPath, termsPath, configPath, reportPath string, dryRun bool) error {
	ctx := context.Background()

	manager, err := config.NewConfigManager(configPath)
	if err != nil {
		return err
	}
	if err := manager.Load(); err != nil {
		return err
	}
	cfg := manager.Get()

	document, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input document: %w", err)
	}

	dict := terminology.NewDictionary()
	if termsPath == "" {
		termsPath = cfg.TermsPath
	}
	if termsPath != "" {
		if err := dict.LoadTerms(termsPath); err != nil {
			return err
		}
	}

	mem := memory.NewTranslationMemory(dict, memory.Params{
		SimilarityThreshold: cfg.SimilarityThreshold,
		ReuseThreshold:      cfg.ReuseThreshold,
		ContextBonus:        cfg.ContextBonus,
	})
	if memoryPath == "" {
		memoryPath = cfg.MemoryPath
	}
	if memoryPath != "" {
		if _, err := os.Stat(memoryPath); err == nil {
			if err := mem.ImportMemory(memoryPath); err != nil {
				return err
			}
		}
	}

	var translator translate.Translator
	if dryRun {
		translator = &translate.MockTranslator{}
	} else {
		translator, err = translate.NewOpenAITranslator(ctx, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		if err != nil {
			return err
		}
	}

	result, err := pipeline.New(dict, mem, translator).Run(ctx, string(document))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(result.Translated), 0o644); err != nil {
		return fmt.Errorf("failed to write translated document: %w", err)
	}
	if memoryPath != "" {
		if err := mem.ExportMemory(memoryPath); err != nil {
			return err
		}
	}
	if reportPath != "" {
		data, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		if err := os.WriteFile(reportPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	fmt.Printf("Translated %d segments (%d reused from memory, %d fresh)\n",
		result.SegmentsReused+result.SegmentsFresh, result.SegmentsReused, result.SegmentsFresh)
	if result.RestoreFailures > 0 {
		fmt.Printf("WARNING: %d segments came back with damaged protected tokens\n", result.RestoreFailures)
	}
	fmt.Printf("Validation: %s\n", result.Report.Summary)
	if !result.Report.Valid {
		fmt.Println("Document has validation issues:")
		for _, issue := range result.Report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	fmt.Printf("Quality %.2f, consistency %.2f, coverage %.0f%%\n",
		result.Metrics.OverallQuality,
		result.Metrics.ConsistencyScore,
		result.Metrics.CoverageScore*100)
	return nil
}
