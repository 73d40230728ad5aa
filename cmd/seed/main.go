// Package main provides a tool to seed the catalog with sample entries.
//
// This fills an empty catalog with realistic Brazilian titles spread over
// the past weeks, to exercise the dashboard, ranking and duplicate
// detection features against non-trivial data.
//
// Usage:
//
//	DATA_PATH=~/shelfscan go run ./cmd/seed
//	DATA_PATH=~/shelfscan go run ./cmd/seed --entries 200 --days 45
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfscanapp/shelfscan-server/internal/domain"
	"github.com/shelfscanapp/shelfscan-server/internal/id"
	"github.com/shelfscanapp/shelfscan-server/internal/search"
	"github.com/shelfscanapp/shelfscan-server/internal/service"
	"github.com/shelfscanapp/shelfscan-server/internal/store/sqlite"
)

var (
	entryCount = flag.Int("entries", 60, "Number of catalog entries to create")
	daySpread  = flag.Int("days", 30, "Spread entry timestamps over this many past days")
)

type sampleBook struct {
	isbn      string
	title     string
	author    string
	publisher string
	year      string
	genre     string
}

var sampleBooks = []sampleBook{
	{"9788535902778", "Dom Casmurro", "Machado de Assis", "Companhia das Letras", "1899", "Romance"},
	{"9788525406262", "Memórias Póstumas de Brás Cubas", "Machado de Assis", "Globo", "1881", "Romance"},
	{"9788520925690", "Grande Sertão: Veredas", "João Guimarães Rosa", "Nova Fronteira", "1956", "Romance"},
	{"9788535914849", "Vidas Secas", "Graciliano Ramos", "Record", "1938", "Romance"},
	{"9788520923054", "A Hora da Estrela", "Clarice Lispector", "Rocco", "1977", "Romance"},
	{"9788535911664", "O Cortiço", "Aluísio Azevedo", "Ática", "1890", "Romance"},
	{"9788574064703", "Os Sertões", "Euclides da Cunha", "Ateliê Editorial", "1902", "História"},
	{"9788535921199", "Capitães da Areia", "Jorge Amado", "Companhia das Letras", "1937", "Romance"},
	{"9788525044587", "Morte e Vida Severina", "João Cabral de Melo Neto", "Alfaguara", "1955", "Poesia"},
	{"9788594318602", "Iracema", "José de Alencar", "Principis", "1865", "Romance"},
	{"9788535909555", "Quarto de Despejo", "Carolina Maria de Jesus", "Ática", "1960", "Biografia"},
	{"9786555320244", "Torto Arado", "Itamar Vieira Junior", "Todavia", "2019", "Romance"},
}

var operators = []string{"Ana", "Bruno", "Carla", "Davi"}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/shelfscan")
	}

	fmt.Printf("Seeding catalog at: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(dataPath, "catalog.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	if err := st.SeedDefaultGenres(ctx); err != nil {
		log.Fatalf("Failed to seed default genres: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	entries := make([]*domain.CatalogEntry, 0, *entryCount)
	for i := 0; i < *entryCount; i++ {
		book := sampleBooks[i%len(sampleBooks)]

		genre, err := st.GetOrCreateGenreByName(ctx, book.genre)
		if err != nil {
			log.Fatalf("Failed to resolve genre %q: %v", book.genre, err)
		}

		age := time.Duration(rng.Intn(*daySpread))*24*time.Hour +
			time.Duration(rng.Intn(24))*time.Hour
		recordedAt := now.Add(-age)

		entries = append(entries, &domain.CatalogEntry{
			ID:         id.MustGenerate("ent"),
			ISBN:       book.isbn,
			Title:      book.title,
			Author:     book.author,
			Publisher:  book.publisher,
			GenreID:    genre.ID,
			GenreName:  genre.Name,
			Year:       book.year,
			Operator:   operators[rng.Intn(len(operators))],
			RecordedAt: recordedAt,
			UpdatedAt:  recordedAt,
		})
	}

	if err := st.CreateEntries(ctx, entries); err != nil {
		log.Fatalf("Failed to create entries: %v", err)
	}

	fmt.Printf("Created %d entries\n", len(entries))

	// Rebuild the title index so suggestions and duplicate detection see
	// the seeded data
	index, err := search.NewIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open title index: %v", err)
	}
	defer index.Close()

	catalog := service.NewCatalogService(st, index, nil, logger)
	if err := catalog.RebuildIndex(ctx); err != nil {
		log.Fatalf("Failed to rebuild title index: %v", err)
	}

	docs, _ := index.DocumentCount()
	fmt.Printf("Title index rebuilt: %d documents\n", docs)
}
