package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dicefinance/expense-dashboard/internal/logger"
	"github.com/dicefinance/expense-dashboard/internal/pipeline"
	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(log)
	case "sample":
		fmt.Println(pipeline.SampleCSV())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Expense Dashboard CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  analyze   Parse a local CSV file and print its analytics")
	fmt.Println("  sample    Print the sample CSV template")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runAnalyze(log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	file := fs.String("file", "", "Path of the CSV file to analyze")
	padding := fs.String("trend-padding", "legacy", "Monthly trend padding policy: legacy or aligned")
	fs.Parse(os.Args[2:])

	if *file == "" {
		log.Fatal().Msg("analyze: -file is required")
	}

	content, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("Failed to read CSV file")
	}

	info := &pipeline.FileInfo{
		Name: filepath.Base(*file),
		Size: int64(len(content)),
	}
	result, err := pipeline.ImportCSV(info, string(content))
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("CSV import failed")
	}

	analytics := result.Analytics
	if *padding == "aligned" {
		analytics = pipeline.CalculateAnalyticsWithPadding(result.Transactions, pipeline.PadThroughLastMonth)
	}

	if result.DroppedRows > 0 {
		log.Warn().Int("dropped_rows", result.DroppedRows).Msg("Rows with zero amounts were excluded")
	}
	log.Info().
		Int("transactions", len(result.Transactions)).
		Float64("total_spend", analytics.TotalSpend).
		Msg("CSV file analyzed")

	out, err := json.MarshalIndent(analytics, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode analytics")
	}
	fmt.Println(string(out))
}
