// Command apitest runs smoke checks against a running amlich API.
//
// Usage:
//
//	go run ./cmd/apitest -url http://localhost:8080
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/amlich-api/internal/api"
	"github.com/zapponejosh/amlich-api/internal/calendar"
)

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, client *http.Client, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Âm lịch API Smoke Tests")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	tr.testHealth()
	tr.testConversions()
	tr.testFestivals()
	tr.testMonthGrid()
	tr.testICS()
	tr.testBadInput()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health map[string]string
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}
	if health["status"] == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health["status"]))
	}
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Solar to Lunar")

	testCases := []struct {
		date    string
		label   string
		labelVN string
	}{
		{"2024-02-10", "1/1", "Mồng 1 Giêng"},
		{"2024-09-17", "15/8", "15 Tám"},
		{"2025-01-29", "1/1", "Mồng 1 Giêng"},
		{"2023-03-22", "1/2 (nhuận)", "Mồng 1 Hai (nhuận)"},
	}

	for _, tc := range testCases {
		d, err := calendar.ParseDate(tc.date)
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var got api.ConversionResponse
		path := fmt.Sprintf("/api/v1/lunar?year=%d&month=%d&day=%d", d.Year(), int(d.Month()), d.Day())
		if err := tr.getData(path, &got); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if got.Label == tc.label && got.LabelVN == tc.labelVN {
			tr.recordSuccess(fmt.Sprintf("%s: %s (%s)", tc.date, got.Label, got.LabelVN))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %q / %q, got %q / %q",
				tc.label, tc.labelVN, got.Label, got.LabelVN))
		}
	}
}

func (tr *TestRunner) testFestivals() {
	tr.printSection("Festivals")

	testCases := []struct {
		date string
		want string
	}{
		{"2024-02-10", "Tết Nguyên đán"},
		{"2024-09-02", "Quốc khánh"},
		{"2024-09-17", "Tết Trung thu"},
	}

	for _, tc := range testCases {
		d, _ := calendar.ParseDate(tc.date)

		var got api.FestivalsResponse
		path := fmt.Sprintf("/api/v1/festivals?year=%d&month=%d&day=%d", d.Year(), int(d.Month()), d.Day())
		if err := tr.getData(path, &got); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		found := false
		for _, f := range got.Festivals {
			if f.Name == tc.want {
				found = true
			}
		}
		if found && got.HasAny {
			tr.recordSuccess(fmt.Sprintf("%s: %s", tc.date, tc.want))
		} else {
			tr.recordError(tc.date, fmt.Sprintf("Expected %q in %+v", tc.want, got.Festivals))
		}
	}
}

func (tr *TestRunner) testMonthGrid() {
	tr.printSection("Month Grid")

	var grid calendar.MonthGrid
	if err := tr.getData("/api/v1/months/2024/2", &grid); err != nil {
		tr.recordError("Month 2024-02", err.Error())
		return
	}

	if len(grid.Days) == 35 && grid.Days[0].Date == "2024-01-29" {
		tr.recordSuccess(fmt.Sprintf("%s: %d cells from %s", grid.Title, len(grid.Days), grid.Days[0].Date))
	} else {
		tr.recordError("Month 2024-02", fmt.Sprintf("Unexpected grid: %d cells", len(grid.Days)))
	}

	if tr.verbose {
		for _, d := range grid.Days {
			if d.HasFestival && d.IsCurrentMonth {
				fmt.Fprintf(tr.out, "    %s  %s\n", d.Date, d.LunarLabel)
			}
		}
	}
}

func (tr *TestRunner) testICS() {
	tr.printSection("ICS Export")

	resp, err := tr.client.Get(tr.baseURL + "/api/v1/years/2024/festivals.ics")
	if err != nil {
		tr.recordError("ICS", err.Error())
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tr.recordError("ICS", err.Error())
		return
	}

	events := strings.Count(string(body), "BEGIN:VEVENT")
	if resp.StatusCode == http.StatusOK && events > 0 {
		tr.recordSuccess(fmt.Sprintf("2024 export has %d events", events))
	} else {
		tr.recordError("ICS", fmt.Sprintf("HTTP %d with %d events", resp.StatusCode, events))
	}
}

func (tr *TestRunner) testBadInput() {
	tr.printSection("Bad Input")

	paths := []string{
		"/api/v1/lunar?year=2023&month=2&day=29",
		"/api/v1/days/2024-02-30",
		"/api/v1/months/2024/13",
	}
	for _, p := range paths {
		resp, err := tr.client.Get(tr.baseURL + p)
		if err != nil {
			tr.recordError(p, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusBadRequest {
			tr.recordSuccess(fmt.Sprintf("%s rejected", p))
		} else {
			tr.recordError(p, fmt.Sprintf("Expected HTTP 400, got %d", resp.StatusCode))
		}
	}
}

// =============================================================================
// Helpers
// =============================================================================

// getData fetches path and decodes the envelope's data into target.
func (tr *TestRunner) getData(path string, target any) error {
	resp, err := tr.client.Get(tr.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *api.ErrorInfo  `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("HTTP %d: decode response: %w", resp.StatusCode, err)
	}

	if !envelope.Success {
		errMsg := "unknown error"
		if envelope.Error != nil {
			errMsg = envelope.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}

	return json.Unmarshal(envelope.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flag.Bool("v", false, "Verbose output (list festival days)")
	flag.Parse()

	probe := &http.Client{Timeout: 2 * time.Second}
	resp, err := probe.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, &http.Client{Timeout: 10 * time.Second}, os.Stdout, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
