// Package lunar converts solar (Gregorian) dates to the Vietnamese lunisolar calendar.
package lunar

import (
	"log/slog"
)

// LunarDate is a date in the lunisolar calendar.
//
// Year always holds the solar year of the query, even near the lunar new
// year where the true lunar year differs. Festival matching only looks at
// day and month.
type LunarDate struct {
	Day         int    `json:"day"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	IsLeapMonth bool   `json:"is_leap_month"`
	DayName     string `json:"day_name,omitempty"`
	MonthName   string `json:"month_name,omitempty"`
}

// CycleResult is what a conversion routine reports for a single solar date.
type CycleResult struct {
	Day    int
	Month  int
	IsLeap bool
	Label  string // traditional day label, e.g. "初一"
}

// Cycle is the astronomical solar-to-lunar routine the Converter delegates to.
type Cycle interface {
	Convert(year, month, day int) (CycleResult, error)
}

// CycleFunc adapts an ordinary function to the Cycle interface.
type CycleFunc func(year, month, day int) (CycleResult, error)

// Convert calls f(year, month, day).
func (f CycleFunc) Convert(year, month, day int) (CycleResult, error) {
	return f(year, month, day)
}

// Observer is notified about every conversion the Converter performs.
type Observer interface {
	RecordConversion()
	RecordConversionFallback()
}

// Converter adapts a Cycle into LunarDate values.
// It holds no mutable state and is safe for concurrent use.
type Converter struct {
	cycle    Cycle
	logger   *slog.Logger
	observer Observer
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithObserver attaches an Observer, typically a metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Converter) {
		c.observer = o
	}
}

// NewConverter creates a Converter around the given cycle.
// A nil cycle means the lunar-go backed Engine.
func NewConverter(cycle Cycle, opts ...Option) *Converter {
	if cycle == nil {
		cycle = Engine{}
	}
	c := &Converter{cycle: cycle}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SolarToLunar converts a solar date. It never fails: when the cycle
// returns an error, a warning is logged and the solar day, month and year
// are returned verbatim with IsLeapMonth false.
func (c *Converter) SolarToLunar(solarYear, solarMonth, solarDay int) LunarDate {
	if c.observer != nil {
		c.observer.RecordConversion()
	}

	res, err := c.cycle.Convert(solarYear, solarMonth, solarDay)
	if err != nil {
		c.log().Warn("lunar calendar conversion failed",
			slog.Int("year", solarYear),
			slog.Int("month", solarMonth),
			slog.Int("day", solarDay),
			slog.Any("error", err),
		)
		if c.observer != nil {
			c.observer.RecordConversionFallback()
		}
		return LunarDate{
			Day:   solarDay,
			Month: solarMonth,
			Year:  solarYear,
		}
	}

	return LunarDate{
		Day:         res.Day,
		Month:       res.Month,
		Year:        solarYear,
		IsLeapMonth: res.IsLeap,
		DayName:     res.Label,
		MonthName:   res.Label,
	}
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

var defaultConverter = NewConverter(Engine{})

// Default returns the process-wide converter backed by Engine.
func Default() *Converter {
	return defaultConverter
}

// SolarToLunar converts a solar date with the default converter.
func SolarToLunar(solarYear, solarMonth, solarDay int) LunarDate {
	return defaultConverter.SolarToLunar(solarYear, solarMonth, solarDay)
}
