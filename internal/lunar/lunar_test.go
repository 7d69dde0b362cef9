package lunar

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// countingObserver records how often the converter reports to it.
type countingObserver struct {
	mu          sync.Mutex
	conversions int
	fallbacks   int
}

func (o *countingObserver) RecordConversion() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.conversions++
}

func (o *countingObserver) RecordConversionFallback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks++
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestSolarToLunar_UsesCycleResult(t *testing.T) {
	cycle := CycleFunc(func(year, month, day int) (CycleResult, error) {
		return CycleResult{Day: 15, Month: 8, IsLeap: true, Label: "十五"}, nil
	})
	c := NewConverter(cycle)

	got := c.SolarToLunar(2024, 9, 17)
	want := LunarDate{
		Day:         15,
		Month:       8,
		Year:        2024,
		IsLeapMonth: true,
		DayName:     "十五",
		MonthName:   "十五",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SolarToLunar() mismatch (-want +got):\n%s", diff)
	}
}

func TestSolarToLunar_YearIsAlwaysSolarYear(t *testing.T) {
	// Late January falls in the previous lunar year; the solar year is still reported.
	c := NewConverter(CycleFunc(func(year, month, day int) (CycleResult, error) {
		return CycleResult{Day: 20, Month: 12, Label: "二十"}, nil
	}))

	got := c.SolarToLunar(2025, 1, 19)
	if got.Year != 2025 {
		t.Errorf("Year = %d, want 2025", got.Year)
	}
}

func TestSolarToLunar_FallbackOnCycleError(t *testing.T) {
	var buf bytes.Buffer
	obs := &countingObserver{}
	c := NewConverter(
		CycleFunc(func(year, month, day int) (CycleResult, error) {
			return CycleResult{}, errors.New("invalid month")
		}),
		WithLogger(quietLogger(&buf)),
		WithObserver(obs),
	)

	got := c.SolarToLunar(2024, 13, 1)
	want := LunarDate{Day: 1, Month: 13, Year: 2024, IsLeapMonth: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SolarToLunar() fallback mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(buf.String(), "lunar calendar conversion failed") {
		t.Errorf("expected warning to be logged, got %q", buf.String())
	}
	if obs.conversions != 1 || obs.fallbacks != 1 {
		t.Errorf("observer = %d conversions, %d fallbacks; want 1, 1", obs.conversions, obs.fallbacks)
	}
}

func TestSolarToLunar_NoCaching(t *testing.T) {
	calls := 0
	c := NewConverter(CycleFunc(func(year, month, day int) (CycleResult, error) {
		calls++
		return CycleResult{Day: 1, Month: 1}, nil
	}))

	c.SolarToLunar(2024, 2, 10)
	c.SolarToLunar(2024, 2, 10)

	if calls != 2 {
		t.Errorf("cycle called %d times, want 2", calls)
	}
}

func TestSolarToLunar_EngineInvalidMonth(t *testing.T) {
	var buf bytes.Buffer
	c := NewConverter(Engine{}, WithLogger(quietLogger(&buf)))

	got := c.SolarToLunar(2024, 13, 1)
	want := LunarDate{Day: 1, Month: 13, Year: 2024}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SolarToLunar() mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_KnownDates(t *testing.T) {
	tests := []struct {
		name string
		y    int
		m    int
		d    int
		want CycleResult
	}{
		{"tet 2024", 2024, 2, 10, CycleResult{Day: 1, Month: 1, Label: "初一"}},
		{"mid-autumn 2024", 2024, 9, 17, CycleResult{Day: 15, Month: 8, Label: "十五"}},
		{"tet 2025", 2025, 1, 29, CycleResult{Day: 1, Month: 1, Label: "初一"}},
		{"leap second month 2023", 2023, 3, 22, CycleResult{Day: 1, Month: 2, IsLeap: true, Label: "初一"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Engine{}.Convert(tt.y, tt.m, tt.d)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Convert() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngine_OutOfRange(t *testing.T) {
	for _, in := range [][3]int{{2024, 0, 1}, {2024, 13, 1}, {2024, 1, 0}, {2024, 1, 32}} {
		if _, err := (Engine{}).Convert(in[0], in[1], in[2]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Convert(%v) error = %v, want ErrOutOfRange", in, err)
		}
	}
}

func TestSolarToLunar_RangeOverTwoYears(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		got := SolarToLunar(d.Year(), int(d.Month()), d.Day())
		if got.Month < 1 || got.Month > 12 {
			t.Fatalf("%s: month %d out of range", d.Format("2006-01-02"), got.Month)
		}
		if got.Day < 1 || got.Day > 30 {
			t.Fatalf("%s: day %d out of range", d.Format("2006-01-02"), got.Day)
		}
		if got.Year != d.Year() {
			t.Fatalf("%s: year %d, want %d", d.Format("2006-01-02"), got.Year, d.Year())
		}
	}
}

func TestSolarToLunar_Concurrent(t *testing.T) {
	c := NewConverter(Engine{})
	want := c.SolarToLunar(2024, 2, 10)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.SolarToLunar(2024, 2, 10); got != want {
				t.Errorf("concurrent SolarToLunar() = %+v, want %+v", got, want)
			}
		}()
	}
	wg.Wait()
}
