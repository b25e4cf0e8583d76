//go:build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/wotscout/wotscout/internal/td"
)

// Statistics tracks validation results across a document corpus
type Statistics struct {
	TotalFiles      int
	ParseSuccess    int
	ParseFailure    int
	Properties      int
	Actions         int
	Events          int
	SecuritySchemes map[string]int
	Failed          []FailedDocument
}

// FailedDocument stores information about validation failures
type FailedDocument struct {
	File  string
	Error string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: validate-td <directory-or-file>...")
		fmt.Println("Example: validate-td testdata/things/")
		fmt.Println("         validate-td lamp.td.json sensor.td.json")
		os.Exit(1)
	}

	stats := Statistics{
		SecuritySchemes: make(map[string]int),
		Failed:          []FailedDocument{},
	}

	// Expand directories into their .json files
	var files []string
	for _, path := range os.Args[1:] {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("Error accessing path: %v\n", err)
			os.Exit(1)
		}

		if info.IsDir() {
			pattern := filepath.Join(path, "*.json")
			matches, err := filepath.Glob(pattern)
			if err != nil {
				fmt.Printf("Error finding JSON files: %v\n", err)
				os.Exit(1)
			}
			if len(matches) == 0 {
				fmt.Printf("No JSON files found in %s\n", path)
				os.Exit(1)
			}
			files = append(files, matches...)
		} else {
			files = append(files, path)
		}
	}

	fmt.Printf("=== Thing Description Validator ===\n")
	fmt.Printf("Files to process: %d\n\n", len(files))

	for _, file := range files {
		processFile(file, &stats)
	}

	printStatistics(&stats)

	if stats.ParseFailure > 0 {
		os.Exit(1)
	}
}

func processFile(filename string, stats *Statistics) {
	stats.TotalFiles++

	data, err := os.ReadFile(filename)
	if err != nil {
		stats.ParseFailure++
		stats.Failed = append(stats.Failed, FailedDocument{
			File:  filename,
			Error: fmt.Sprintf("read error: %v", err),
		})
		return
	}

	thing, err := td.Parse(data)
	if err != nil {
		stats.ParseFailure++
		stats.Failed = append(stats.Failed, FailedDocument{
			File:  filename,
			Error: err.Error(),
		})
		return
	}

	stats.ParseSuccess++
	stats.Properties += len(thing.Properties)
	stats.Actions += len(thing.Actions)
	stats.Events += len(thing.Events)
	for _, scheme := range thing.SecurityDefinitions {
		stats.SecuritySchemes[scheme.Scheme]++
	}

	fmt.Printf("✓ %s: %q\n", filename, thing.Title)
}

func printStatistics(stats *Statistics) {
	fmt.Printf("\n========================================\n")
	fmt.Printf("VALIDATION RESULTS\n")
	fmt.Printf("========================================\n\n")

	fmt.Printf("Files Processed:    %d\n", stats.TotalFiles)
	fmt.Printf("Valid Documents:    %d (%.2f%%)\n", stats.ParseSuccess,
		float64(stats.ParseSuccess)/float64(stats.TotalFiles)*100)
	fmt.Printf("Invalid Documents:  %d (%.2f%%)\n", stats.ParseFailure,
		float64(stats.ParseFailure)/float64(stats.TotalFiles)*100)
	fmt.Printf("Affordances:        %d properties, %d actions, %d events\n",
		stats.Properties, stats.Actions, stats.Events)

	if len(stats.SecuritySchemes) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("SECURITY SCHEME DISTRIBUTION\n")
		fmt.Printf("----------------------------------------\n")
		schemes := make([]string, 0, len(stats.SecuritySchemes))
		for scheme := range stats.SecuritySchemes {
			schemes = append(schemes, scheme)
		}
		sort.Strings(schemes)
		for _, scheme := range schemes {
			count := stats.SecuritySchemes[scheme]
			percentage := float64(count) / float64(stats.ParseSuccess) * 100
			fmt.Printf("%s: %d (%.2f%%)\n", scheme, count, percentage)
		}
	}

	if len(stats.Failed) > 0 {
		fmt.Printf("\n----------------------------------------\n")
		fmt.Printf("VALIDATION FAILURES (%d total)\n", len(stats.Failed))
		fmt.Printf("----------------------------------------\n")

		// Show first 10 failures
		maxShow := 10
		if len(stats.Failed) > maxShow {
			fmt.Printf("(Showing first %d of %d failures)\n", maxShow, len(stats.Failed))
		}

		for i, failed := range stats.Failed {
			if i >= maxShow {
				break
			}
			fmt.Printf("\nFailure #%d:\n", i+1)
			fmt.Printf("  File:  %s\n", failed.File)
			fmt.Printf("  Error: %s\n", failed.Error)
		}
	}

	fmt.Printf("\n========================================\n")
	if stats.ParseFailure == 0 {
		fmt.Printf("✅ SUCCESS: All documents validated successfully!\n")
	} else {
		fmt.Printf("⚠️  ISSUES FOUND: %d documents failed validation\n", stats.ParseFailure)
	}
	fmt.Printf("========================================\n")
}
