// Command coverage converts every day of a range of solar years and reports
// conversion fallbacks, impossible lunar dates and festival counts.
//
// Usage:
//
//	go run ./cmd/coverage -start 2024 -years 4 -o coverage.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/festival"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// Failure describes one date whose conversion looks wrong.
type Failure struct {
	Date   string          `json:"date"`
	Lunar  lunar.LunarDate `json:"lunar"`
	Reason string          `json:"reason"`
}

// YearStats summarises one solar year.
type YearStats struct {
	Year          int `json:"year"`
	Days          int `json:"days"`
	LeapMonthDays int `json:"leap_month_days"`
	FestivalDays  int `json:"festival_days"`
	Failures      int `json:"failures"`
}

// Analysis is the whole report.
type Analysis struct {
	TotalDays int         `json:"total_days"`
	Fallbacks int64       `json:"fallbacks"`
	Years     []YearStats `json:"years"`
	Failures  []Failure   `json:"failures"`
}

// fallbackCounter implements lunar.Observer.
type fallbackCounter struct {
	conversions atomic.Int64
	fallbacks   atomic.Int64
}

func (c *fallbackCounter) RecordConversion()         { c.conversions.Add(1) }
func (c *fallbackCounter) RecordConversionFallback() { c.fallbacks.Add(1) }

func main() {
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to check")
	verbose := flag.Bool("v", false, "Log each fallback")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	level := slog.LevelError
	if *verbose {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Âm lịch - Conversion Coverage")
	fmt.Println("================================================================")
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Println()

	analysis := analyze(*startYear, endYear, logger)
	printSummary(os.Stdout, analysis)

	if *outputFile != "" {
		if err := saveResults(*outputFile, analysis); err != nil {
			fmt.Printf("Error writing results: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results saved to: %s\n", *outputFile)
	}

	if len(analysis.Failures) > 0 {
		os.Exit(1)
	}
}

func analyze(startYear, endYear int, logger *slog.Logger) *Analysis {
	counter := &fallbackCounter{}
	conv := lunar.NewConverter(lunar.Engine{},
		lunar.WithLogger(logger),
		lunar.WithObserver(counter),
	)
	return analyzeWith(conv, counter, startYear, endYear)
}

func analyzeWith(conv *lunar.Converter, counter *fallbackCounter, startYear, endYear int) *Analysis {
	analysis := &Analysis{Failures: []Failure{}}

	var prev *lunar.LunarDate
	for year := startYear; year <= endYear; year++ {
		stats := YearStats{Year: year}

		for d := calendar.Date(year, 1, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
			m, day := int(d.Month()), d.Day()

			// Each date is converted exactly once so the counter maps to dates.
			before := counter.fallbacks.Load()
			ld := conv.SolarToLunar(year, m, day)
			fellBack := counter.fallbacks.Load() > before

			stats.Days++
			if ld.IsLeapMonth {
				stats.LeapMonthDays++
			}
			if hasFestival(m, day, ld) {
				stats.FestivalDays++
			}

			reason := checkDate(ld, prev)
			if fellBack {
				reason = "conversion failed, solar date returned"
			}
			if reason != "" {
				stats.Failures++
				analysis.Failures = append(analysis.Failures, Failure{
					Date:   calendar.FormatDate(d),
					Lunar:  ld,
					Reason: reason,
				})
			}
			cur := ld
			prev = &cur
		}

		analysis.TotalDays += stats.Days
		analysis.Years = append(analysis.Years, stats)
	}

	analysis.Fallbacks = counter.fallbacks.Load()
	return analysis
}

// hasFestival matches festival.Resolver.HasAnyFestival for an already
// converted date.
func hasFestival(month, day int, ld lunar.LunarDate) bool {
	return len(festival.GetSolarFestivals(month, day))+len(festival.GetLunarFestivals(ld.Month, ld.Day)) > 0
}

// checkDate returns why ld cannot follow prev, or "" if it is plausible.
// A lunar day advances by one or restarts at 1 on a new month.
func checkDate(ld lunar.LunarDate, prev *lunar.LunarDate) string {
	if ld.Month < 1 || ld.Month > 12 {
		return fmt.Sprintf("lunar month %d out of range", ld.Month)
	}
	if ld.Day < 1 || ld.Day > 30 {
		return fmt.Sprintf("lunar day %d out of range", ld.Day)
	}
	if prev == nil {
		return ""
	}
	if ld.Day == prev.Day+1 && ld.Month == prev.Month && ld.IsLeapMonth == prev.IsLeapMonth {
		return ""
	}
	if ld.Day == 1 && prev.Day >= 29 {
		return ""
	}
	return fmt.Sprintf("lunar %s does not follow %s", lunar.FormatLunarDate(ld), lunar.FormatLunarDate(*prev))
}

func printSummary(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "%-6s %6s %10s %10s %9s\n", "Year", "Days", "Leap days", "Festivals", "Failures")
	for _, y := range a.Years {
		fmt.Fprintf(w, "%-6d %6d %10d %10d %9d\n", y.Year, y.Days, y.LeapMonthDays, y.FestivalDays, y.Failures)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total days:  %d\n", a.TotalDays)
	fmt.Fprintf(w, "Fallbacks:   %d\n", a.Fallbacks)

	shown := 0
	for _, f := range a.Failures {
		if shown >= 50 {
			fmt.Fprintf(w, "  ... %d more\n", len(a.Failures)-shown)
			break
		}
		fmt.Fprintf(w, "  %s | %s\n", f.Date, f.Reason)
		shown++
	}
}

func saveResults(filename string, a *Analysis) error {
	output := struct {
		GeneratedAt string `json:"generated_at"`
		*Analysis
	}{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Analysis:    a,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	return os.WriteFile(filename, data, 0o644)
}
