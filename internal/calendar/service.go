package calendar

import (
	"fmt"
	"time"

	"github.com/zapponejosh/amlich-api/internal/festival"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// DayInfo is one cell of the month grid.
type DayInfo struct {
	Date           string          `json:"date"`
	SolarDay       int             `json:"solar_day"`
	SolarMonth     int             `json:"solar_month"`
	SolarYear      int             `json:"solar_year"`
	Weekday        string          `json:"weekday"`
	Lunar          lunar.LunarDate `json:"lunar"`
	LunarLabel     string          `json:"lunar_label"`
	LunarLabelVN   string          `json:"lunar_label_vn"`
	IsCurrentMonth bool            `json:"is_current_month"`
	IsToday        bool            `json:"is_today"`
	HasFestival    bool            `json:"has_festival"`
}

// MonthGrid is a whole-week grid covering one solar month.
type MonthGrid struct {
	Year     int       `json:"year"`
	Month    int       `json:"month"`
	Title    string    `json:"title"`
	Weekdays []string  `json:"weekdays"`
	Days     []DayInfo `json:"days"`
}

// MiniDay is one cell of a year-overview mini grid.
type MiniDay struct {
	Date           string `json:"date"`
	SolarDay       int    `json:"solar_day"`
	IsCurrentMonth bool   `json:"is_current_month"`
	IsToday        bool   `json:"is_today"`
}

// MiniMonth is the reduced grid of a month in the year overview.
type MiniMonth struct {
	Month int       `json:"month"`
	Title string    `json:"title"`
	Days  []MiniDay `json:"days"`
}

// YearOverview holds the twelve mini grids of a year.
type YearOverview struct {
	Year   int         `json:"year"`
	Title  string      `json:"title"`
	Months []MiniMonth `json:"months"`
}

// LabeledFestival is a festival with its calendar named in Vietnamese.
type LabeledFestival struct {
	festival.Festival
	TypeLabel string `json:"type_label"`
}

// DayDetail describes a single selected date.
type DayDetail struct {
	Date         string            `json:"date"`
	Title        string            `json:"title"`
	Weekday      string            `json:"weekday"`
	Lunar        lunar.LunarDate   `json:"lunar"`
	LunarLabel   string            `json:"lunar_label"`
	LunarLabelVN string            `json:"lunar_label_vn"`
	IsToday      bool              `json:"is_today"`
	Festivals    []LabeledFestival `json:"festivals"`
}

// Occurrence is a solar date carrying at least one festival.
type Occurrence struct {
	Date      string              `json:"date"`
	Lunar     lunar.LunarDate     `json:"lunar"`
	Festivals []festival.Festival `json:"festivals"`
}

// Service computes calendar views. It has no mutable state.
type Service struct {
	converter *lunar.Converter
	resolver  *festival.Resolver
	loc       *time.Location
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the time zone used to decide which day is today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		s.loc = loc
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service. A nil converter means lunar.Default().
func NewService(converter *lunar.Converter, opts ...Option) *Service {
	if converter == nil {
		converter = lunar.Default()
	}
	s := &Service{
		converter: converter,
		resolver:  festival.NewResolver(converter),
		loc:       time.UTC,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current civil date in the service's time zone.
func (s *Service) Today() time.Time {
	t := s.now().In(s.loc)
	return Date(t.Year(), int(t.Month()), t.Day())
}

// Month builds the Monday-first grid for a solar month. Days from the
// neighbouring months fill the first and last weeks.
func (s *Service) Month(year, month int) MonthGrid {
	start, end := gridBounds(year, month)
	today := s.Today()

	grid := MonthGrid{
		Year:     year,
		Month:    month,
		Title:    fmt.Sprintf("Tháng %02d/%04d", month, year),
		Weekdays: WeekHeaderVN(),
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		y, m, day := d.Year(), int(d.Month()), d.Day()
		ld := s.converter.SolarToLunar(y, m, day)

		grid.Days = append(grid.Days, DayInfo{
			Date:           FormatDate(d),
			SolarDay:       day,
			SolarMonth:     m,
			SolarYear:      y,
			Weekday:        WeekdayShortVN(d.Weekday()),
			Lunar:          ld,
			LunarLabel:     lunar.FormatLunarDate(ld),
			LunarLabelVN:   lunar.FormatLunarDateVN(ld),
			IsCurrentMonth: m == month,
			IsToday:        sameDay(d, today),
			HasFestival:    s.resolver.HasAnyFestival(y, m, day),
		})
	}

	return grid
}

// Year builds the twelve mini grids of a solar year. Mini grids carry no
// lunar data.
func (s *Service) Year(year int) YearOverview {
	today := s.Today()
	overview := YearOverview{
		Year:   year,
		Title:  fmt.Sprintf("Năm %04d", year),
		Months: make([]MiniMonth, 0, 12),
	}

	for month := 1; month <= 12; month++ {
		start, end := gridBounds(year, month)
		mm := MiniMonth{
			Month: month,
			Title: fmt.Sprintf("Tháng %d", month),
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			mm.Days = append(mm.Days, MiniDay{
				Date:           FormatDate(d),
				SolarDay:       d.Day(),
				IsCurrentMonth: int(d.Month()) == month,
				IsToday:        sameDay(d, today),
			})
		}
		overview.Months = append(overview.Months, mm)
	}

	return overview
}

// Day builds the detail view of one solar date.
func (s *Service) Day(year, month, day int) DayDetail {
	d := Date(year, month, day)
	ld := s.converter.SolarToLunar(year, month, day)

	fests := s.resolver.GetAllFestivals(year, month, day)
	labeled := make([]LabeledFestival, 0, len(fests))
	for _, f := range fests {
		labeled = append(labeled, LabeledFestival{Festival: f, TypeLabel: f.Type.LabelVN()})
	}

	return DayDetail{
		Date:         FormatDate(d),
		Title:        fmt.Sprintf("%s, %02d/%02d/%04d", WeekdayVN(d.Weekday()), day, month, year),
		Weekday:      WeekdayVN(d.Weekday()),
		Lunar:        ld,
		LunarLabel:   lunar.FormatLunarDate(ld),
		LunarLabelVN: lunar.FormatLunarDateVN(ld),
		IsToday:      sameDay(d, s.Today()),
		Festivals:    labeled,
	}
}

// FestivalsInYear lists every date of the solar year that has a festival, in date order.
func (s *Service) FestivalsInYear(year int) []Occurrence {
	var out []Occurrence
	for d := Date(year, 1, 1); d.Year() == year; d = d.AddDate(0, 0, 1) {
		m, day := int(d.Month()), d.Day()

		fests := s.resolver.GetAllFestivals(year, m, day)
		if len(fests) == 0 {
			continue
		}
		out = append(out, Occurrence{
			Date:      FormatDate(d),
			Lunar:     s.converter.SolarToLunar(year, m, day),
			Festivals: fests,
		})
	}
	return out
}
