// Package main provides a quick inspection tool for the catalog database.
//
// Usage:
//
//	DATA_PATH=~/shelfscan go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/shelfscan")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(dataPath, "catalog.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	fmt.Println("=== Catalog Inspection ===")
	fmt.Println()

	total, err := st.CountEntries(ctx)
	if err != nil {
		log.Fatalf("Failed to count entries: %v", err)
	}
	distinct, _ := st.CountDistinctTitles(ctx)
	today, _ := st.CountEntriesSince(ctx, time.Now().Truncate(24*time.Hour))

	fmt.Printf("Total entries: %d\n", total)
	fmt.Printf("Distinct titles: %d\n", distinct)
	fmt.Printf("Entries today: %d\n", today)
	fmt.Println()

	genres, err := st.ListGenres(ctx)
	if err != nil {
		log.Fatalf("Failed to list genres: %v", err)
	}
	fmt.Printf("Genres: %d\n", len(genres))
	for _, g := range genres {
		count, _ := st.CountEntriesByGenre(ctx, g.ID)
		if count > 0 {
			fmt.Printf("  %-24s %4d entries\n", g.Name, count)
		}
	}
	fmt.Println()

	operators, _ := st.OperatorTotals(ctx)
	fmt.Printf("Operators: %d\n", len(operators))
	for _, op := range operators {
		fmt.Printf("  %-24s %4d entries\n", op.Name, op.Count)
	}
	fmt.Println()

	entries, err := st.ListEntries(ctx, sqlite.ListOptions{Limit: 5})
	if err != nil {
		log.Fatalf("Failed to list entries: %v", err)
	}
	fmt.Println("Most recent entries:")
	for _, e := range entries {
		fmt.Printf("  [%s] %s / %s (%s, by %s)\n",
			e.RecordedAt.Format("2006-01-02"), e.Title, e.Author, e.ISBN, e.Operator)
	}
}
