package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"snaplaw-backend/extraction"
	"snaplaw-backend/inference"
	"snaplaw-backend/models"
	"snaplaw-backend/service"

	"github.com/fatih/color"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

var (
	jsonOutput = flag.Bool("json", false, "Print the full report as JSON")
	modelName  = flag.String("model", inference.DefaultModel, "Gemini model to use when GEMINI_API_KEY is set")
	maxShown   = flag.Int("max-findings", 0, "Limit the number of findings printed (0 = all)")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: analyze [flags] <document.pdf|document.txt|image.png>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("No .env file found, using environment variables")
		}
	}

	ctx := context.Background()
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", path, err)
	}

	// Gemini is optional on the CLI. Without a key the report still carries
	// template explanations and a deterministic summary.
	var generator inference.Generator
	var vision inference.VisionGenerator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			log.Fatalf("Failed to initialize Gemini: %v", err)
		}
		defer client.Close()
		gemini := inference.NewGemini(client, *modelName, 0)
		generator = gemini
		vision = gemini
	}

	format, err := formatForPath(path)
	if err != nil {
		log.Fatal(err)
	}

	extractor := extraction.NewExtractor(vision)
	text, err := extractor.Extract(ctx, data, format)
	if err != nil {
		log.Fatalf("Failed to extract text from %s: %v", path, err)
	}

	analysisService := service.NewAnalysisService(
		service.AnalysisWithGenerator(generator),
	)

	report, err := analysisService.Analyze(ctx, text, format)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *jsonOutput {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode report: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	printReport(path, report, generator != nil)
}

func formatForPath(path string) (models.SourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return models.SourceFormatPDF, nil
	case ".jpg", ".jpeg", ".png":
		return models.SourceFormatImage, nil
	case ".txt", ".md", ".text", "":
		return models.SourceFormatText, nil
	default:
		return "", fmt.Errorf("unsupported file type %q (want .pdf, .jpg, .jpeg, .png, or .txt)", filepath.Ext(path))
	}
}

func printReport(path string, report *models.RiskReport, aiEnabled bool) {
	bold := color.New(color.Bold).SprintFunc()
	boldCyan := color.New(color.FgCyan, color.Bold).SprintFunc()

	fmt.Printf("%s %s\n", bold("Document:"), path)
	fmt.Printf("%s %d words across %d clauses\n", bold("Size:"), report.WordCount, report.ClauseCount)
	fmt.Printf("%s %s\n", bold("Risk score:"), colorForScore(report.RiskScore)("%.1f / 100", report.RiskScore))
	fmt.Printf("%s %.1f / 10\n", bold("Complexity:"), report.ComplexityScore)
	if !aiEnabled {
		fmt.Println("(GEMINI_API_KEY not set: template explanations, no summary rewrite)")
	}
	fmt.Println()

	if len(report.Findings) == 0 {
		color.Green("No risky clauses detected.")
	} else {
		fmt.Println(boldCyan(fmt.Sprintf("Findings (%d):", len(report.Findings))))
		shown := report.Findings
		if *maxShown > 0 && len(shown) > *maxShown {
			shown = shown[:*maxShown]
		}
		for i, f := range shown {
			sev := colorForSeverity(f.Severity)
			fmt.Printf("%2d. %s %s (clause %d, confidence %.0f%%)\n",
				i+1, sev("[%s]", strings.ToUpper(string(f.Severity))), bold(f.Title), f.ClauseIndex, f.Confidence*100)
			fmt.Printf("    matched: %q\n", f.Span.Text)
			fmt.Printf("    %s\n", f.Explanation)
		}
		if len(shown) < len(report.Findings) {
			fmt.Printf("    ... and %d more\n", len(report.Findings)-len(shown))
		}
	}
	fmt.Println()

	if report.Summary != "" {
		fmt.Println(boldCyan("Summary:"))
		fmt.Println(report.Summary)
		fmt.Println()
	}

	if len(report.KeyTerms) > 0 {
		fmt.Println(boldCyan(fmt.Sprintf("Key terms (%d):", len(report.KeyTerms))))
		keys := make([]string, 0, len(report.KeyTerms))
		for k := range report.KeyTerms {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			term := report.KeyTerms[k]
			fmt.Printf("  %s: %s\n", bold(term.Term), term.Definition)
		}
	}
}

func colorForScore(score float64) func(format string, a ...interface{}) string {
	switch {
	case score >= 60:
		return color.New(color.FgRed, color.Bold).Sprintf
	case score >= 30:
		return color.New(color.FgYellow, color.Bold).Sprintf
	default:
		return color.New(color.FgGreen, color.Bold).Sprintf
	}
}

func colorForSeverity(severity models.Severity) func(format string, a ...interface{}) string {
	switch severity {
	case models.SeverityHigh:
		return color.New(color.FgRed).Sprintf
	case models.SeverityMedium:
		return color.New(color.FgYellow).Sprintf
	default:
		return color.New(color.FgGreen).Sprintf
	}
}
