// Package festival answers which fixed solar and lunar festivals fall on a date.
package festival

import (
	"strconv"

	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// Type identifies which calendar a festival is fixed to.
type Type string

const (
	TypeSolar Type = "solar"
	TypeLunar Type = "lunar"
)

// IsValid checks if t is a known festival type.
func (t Type) IsValid() bool {
	return t == TypeSolar || t == TypeLunar
}

// LabelVN returns the Vietnamese name of the calendar.
func (t Type) LabelVN() string {
	switch t {
	case TypeSolar:
		return "Dương lịch"
	case TypeLunar:
		return "Âm lịch"
	default:
		return string(t)
	}
}

// Festival is a holiday on a constant day/month of one calendar.
type Festival struct {
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	IsFixed bool   `json:"is_fixed"`
}

// Key builds a table key, "day/month" without zero padding.
func Key(day, month int) string {
	return strconv.Itoa(day) + "/" + strconv.Itoa(month)
}

// Resolver merges solar and lunar festivals for a solar date.
type Resolver struct {
	converter *lunar.Converter
}

// NewResolver creates a Resolver. A nil converter means lunar.Default().
func NewResolver(converter *lunar.Converter) *Resolver {
	if converter == nil {
		converter = lunar.Default()
	}
	return &Resolver{converter: converter}
}

// GetAllFestivals returns the solar festivals of the date followed by the
// lunar festivals of its lunar equivalent. Both lists keep table order and
// nothing is deduplicated.
func (r *Resolver) GetAllFestivals(solarYear, solarMonth, solarDay int) []Festival {
	festivals := GetSolarFestivals(solarMonth, solarDay)

	ld := r.converter.SolarToLunar(solarYear, solarMonth, solarDay)
	festivals = append(festivals, lunarHolidays[Key(ld.Day, ld.Month)]...)

	return festivals
}

// HasAnyFestival reports whether GetAllFestivals would return anything.
func (r *Resolver) HasAnyFestival(solarYear, solarMonth, solarDay int) bool {
	return len(r.GetAllFestivals(solarYear, solarMonth, solarDay)) > 0
}

// GetSolarFestivals looks up the solar table. A miss is an empty slice.
func GetSolarFestivals(month, day int) []Festival {
	return lookup(solarHolidays, month, day)
}

// GetLunarFestivals looks up the lunar table. A miss is an empty slice.
func GetLunarFestivals(month, day int) []Festival {
	return lookup(lunarHolidays, month, day)
}

// lookup copies the entry so callers can't modify the shared tables.
func lookup(table map[string][]Festival, month, day int) []Festival {
	entries := table[Key(day, month)]
	out := make([]Festival, len(entries))
	copy(out, entries)
	return out
}

var defaultResolver = NewResolver(nil)

// GetAllFestivals resolves festivals with the default converter.
func GetAllFestivals(solarYear, solarMonth, solarDay int) []Festival {
	return defaultResolver.GetAllFestivals(solarYear, solarMonth, solarDay)
}

// HasAnyFestival reports festivals with the default converter.
func HasAnyFestival(solarYear, solarMonth, solarDay int) bool {
	return defaultResolver.HasAnyFestival(solarYear, solarMonth, solarDay)
}
