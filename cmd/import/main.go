// Command import loads observances from a JSON file into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -json data/observances.json -db data/amlich.db
//
// The file looks like:
//
//	{
//	  "observances": [
//	    {"name": "Giỗ ông nội", "calendar_type": "lunar", "month": 3, "day": 10}
//	  ]
//	}
//
// All entries are written in one transaction. Entries already in the
// database are skipped, so the import can be re-run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/amlich-api/internal/database"
	"github.com/zapponejosh/amlich-api/internal/festival"
)

// ImportFile is the JSON document read by the importer.
type ImportFile struct {
	Observances []ImportEntry `json:"observances"`
}

// ImportEntry is one observance in the import file.
type ImportEntry struct {
	Name         string  `json:"name"`
	CalendarType string  `json:"calendar_type"`
	Month        int     `json:"month"`
	Day          int     `json:"day"`
	Notes        *string `json:"notes,omitempty"`
}

func main() {
	jsonPath := flag.String("json", "data/observances.json", "Path to observances JSON file")
	dbPath := flag.String("db", "data/amlich.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*jsonPath, *dbPath, logger, os.Stdout); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(jsonPath, dbPath string, logger *slog.Logger, out io.Writer) error {
	ctx := context.Background()
	startTime := time.Now()

	logger.Info("reading JSON file", slog.String("path", jsonPath))

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("read JSON file: %w", err)
	}

	obs, err := parseImportFile(data)
	if err != nil {
		return err
	}
	logger.Info("parsed JSON", slog.Int("observances", len(obs)))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	result, err := db.ImportObservances(ctx, obs)
	if err != nil {
		return fmt.Errorf("import observances: %w", err)
	}

	elapsed := time.Since(startTime)
	logger.Debug("import finished", slog.Duration("elapsed", elapsed))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Import Summary ===")
	fmt.Fprintf(out, "Entries in file:     %d\n", len(obs))
	fmt.Fprintf(out, "Inserted:            %d\n", result.Inserted)
	fmt.Fprintf(out, "Already present:     %d\n", result.Skipped)
	fmt.Fprintf(out, "Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

func parseImportFile(data []byte) ([]database.Observance, error) {
	var file ImportFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	obs := make([]database.Observance, 0, len(file.Observances))
	for _, e := range file.Observances {
		obs = append(obs, database.Observance{
			Name:         e.Name,
			CalendarType: festival.Type(e.CalendarType),
			Month:        e.Month,
			Day:          e.Day,
			Notes:        e.Notes,
		})
	}
	return obs, nil
}
