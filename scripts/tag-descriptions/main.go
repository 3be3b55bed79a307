// Package main provides a CLI tool that builds the tagged-description corpus
// consumed by the semantic index: one line per book, the ISBN followed by the
// description text.
//
// Usage:
//
//	go run scripts/tag-descriptions/main.go -books data/books_with_emotions.csv -out data/tagged_description.txt
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config holds the CLI configuration
type Config struct {
	BooksFile string
	OutFile   string
}

// Stats tracks corpus generation statistics
type Stats struct {
	TotalRows    int
	SkippedEmpty int
	Written      int
}

func main() {
	cfg := parseFlags()

	if cfg.BooksFile == "" {
		fmt.Println("Error: -books is required")
		flag.Usage()
		os.Exit(1)
	}

	fmt.Printf("Tagged description corpus generator\n")
	fmt.Printf("   Books CSV: %s\n", cfg.BooksFile)
	fmt.Printf("   Output:    %s\n", cfg.OutFile)
	fmt.Println()

	stats, err := generateCorpus(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Summary")
	fmt.Printf("   Total rows processed:  %d\n", stats.TotalRows)
	fmt.Printf("   Skipped (empty):       %d\n", stats.SkippedEmpty)
	fmt.Printf("   Lines written:         %d\n", stats.Written)
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.BooksFile, "books", "", "Path to the books CSV (required)")
	flag.StringVar(&cfg.OutFile, "out", "data/tagged_description.txt", "Output corpus path")

	flag.Parse()
	return cfg
}

func generateCorpus(cfg Config) (Stats, error) {
	stats := Stats{}

	file, err := os.Open(cfg.BooksFile)
	if err != nil {
		return stats, fmt.Errorf("open books file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("read header: %w", err)
	}

	isbnCol, descCol := -1, -1
	for i, name := range header {
		switch name {
		case "isbn13":
			isbnCol = i
		case "description":
			descCol = i
		}
	}

	if isbnCol < 0 || descCol < 0 {
		return stats, errors.New("books CSV must have isbn13 and description columns")
	}

	out, err := os.Create(cfg.OutFile)
	if err != nil {
		return stats, fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	writer := bufio.NewWriter(out)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return stats, fmt.Errorf("read row: %w", err)
		}

		stats.TotalRows++

		description := strings.TrimSpace(row[descCol])
		if description == "" {
			stats.SkippedEmpty++
			continue
		}

		// Descriptions are flattened to a single line so the corpus stays
		// one record per line.
		description = strings.Join(strings.Fields(description), " ")

		if _, err := fmt.Fprintf(writer, "%s %s\n", row[isbnCol], description); err != nil {
			return stats, fmt.Errorf("write line: %w", err)
		}

		stats.Written++
	}

	if err := writer.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}

	return stats, nil
}
