package festival

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// fixedConverter returns a converter that always reports the given lunar day/month.
func fixedConverter(day, month int) *lunar.Converter {
	return lunar.NewConverter(lunar.CycleFunc(func(year, m, d int) (lunar.CycleResult, error) {
		return lunar.CycleResult{Day: day, Month: month}, nil
	}))
}

func TestGetSolarFestivals(t *testing.T) {
	got := GetSolarFestivals(9, 2)
	want := []Festival{{Name: "Quốc khánh", Type: TypeSolar, IsFixed: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetSolarFestivals(9, 2) mismatch (-want +got):\n%s", diff)
	}
}

func TestGetLunarFestivals(t *testing.T) {
	got := GetLunarFestivals(1, 1)
	want := []Festival{{Name: "Tết Nguyên đán", Type: TypeLunar, IsFixed: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetLunarFestivals(1, 1) mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupMiss_ReturnsEmpty(t *testing.T) {
	tests := []struct {
		name string
		got  []Festival
	}{
		{"solar 30 Feb", GetSolarFestivals(2, 30)},
		{"solar ordinary day", GetSolarFestivals(7, 7)},
		{"lunar ordinary day", GetLunarFestivals(6, 6)},
		{"lunar out of range", GetLunarFestivals(13, 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == nil {
				t.Fatal("got nil slice, want empty slice")
			}
			if len(tt.got) != 0 {
				t.Errorf("got %d festivals, want 0", len(tt.got))
			}
		})
	}
}

func TestLookup_ReturnsCopy(t *testing.T) {
	got := GetSolarFestivals(1, 1)
	got[0].Name = "changed"

	if again := GetSolarFestivals(1, 1); again[0].Name != "Tết Dương lịch" {
		t.Errorf("table was mutated through returned slice: %q", again[0].Name)
	}
}

func TestGetAllFestivals_SolarBeforeLunar(t *testing.T) {
	// 2 September with a converter that lands on lunar 15/8.
	r := NewResolver(fixedConverter(15, 8))

	got := r.GetAllFestivals(2025, 9, 2)
	want := []Festival{
		{Name: "Quốc khánh", Type: TypeSolar, IsFixed: true},
		{Name: "Tết Trung thu", Type: TypeLunar, IsFixed: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAllFestivals() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAllFestivals_NoDedup(t *testing.T) {
	// 1/1 solar that also converts to 1/1 lunar returns both entries.
	r := NewResolver(fixedConverter(1, 1))

	got := r.GetAllFestivals(2024, 1, 1)
	if len(got) != 2 {
		t.Fatalf("got %d festivals, want 2: %+v", len(got), got)
	}
	if got[0].Type != TypeSolar || got[1].Type != TypeLunar {
		t.Errorf("order = %s, %s; want solar, lunar", got[0].Type, got[1].Type)
	}
}

func TestGetAllFestivals_UsesLunarDayAndMonth(t *testing.T) {
	r := NewResolver(fixedConverter(23, 12))

	got := r.GetAllFestivals(2025, 1, 22)
	want := []Festival{{Name: "Ông Táo chầu trời", Type: TypeLunar, IsFixed: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAllFestivals() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAllFestivals_ConversionFallback(t *testing.T) {
	var buf bytes.Buffer
	conv := lunar.NewConverter(
		lunar.CycleFunc(func(year, month, day int) (lunar.CycleResult, error) {
			return lunar.CycleResult{}, errors.New("boom")
		}),
		lunar.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	r := NewResolver(conv)

	// The fallback echoes the solar date, so 15/8 also hits the lunar table.
	got := r.GetAllFestivals(2024, 8, 15)
	want := []Festival{{Name: "Tết Trung thu", Type: TypeLunar, IsFixed: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetAllFestivals() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetAllFestivals_RealDates(t *testing.T) {
	tests := []struct {
		date string
		want []string
	}{
		{"2024-02-10", []string{"Tết Nguyên đán"}},
		{"2024-02-14", []string{"Lễ tình nhân"}},
		{"2024-09-17", []string{"Tết Trung thu"}},
		{"2024-09-02", []string{"Quốc khánh"}},
		{"2024-07-10", nil},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}

			var names []string
			for _, f := range GetAllFestivals(d.Year(), int(d.Month()), d.Day()) {
				names = append(names, f.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("festival names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHasAnyFestival_MatchesGetAllFestivals(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for d := start; d.Year() == 2024; d = d.AddDate(0, 0, 1) {
		y, m, day := d.Year(), int(d.Month()), d.Day()
		if HasAnyFestival(y, m, day) != (len(GetAllFestivals(y, m, day)) > 0) {
			t.Fatalf("%s: HasAnyFestival disagrees with GetAllFestivals", d.Format("2006-01-02"))
		}
	}
}

func TestTableKeys_DecomposeToValidDayMonth(t *testing.T) {
	for _, table := range []map[string][]Festival{solarHolidays, lunarHolidays} {
		for key := range table {
			parts := strings.Split(key, "/")
			if len(parts) != 2 {
				t.Fatalf("key %q is not day/month", key)
			}
			day, err1 := strconv.Atoi(parts[0])
			month, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				t.Fatalf("key %q has non-numeric parts", key)
			}
			if day < 1 || day > 31 || month < 1 || month > 12 {
				t.Errorf("key %q out of range", key)
			}
			if Key(day, month) != key {
				t.Errorf("key %q is not canonical", key)
			}
		}
	}
}

func TestCatalog(t *testing.T) {
	solar := Catalog(TypeSolar)
	if len(solar) != 11 {
		t.Errorf("solar catalog has %d entries, want 11", len(solar))
	}
	if solar[0].Festival.Name != "Tết Dương lịch" || solar[0].Day != 1 || solar[0].Month != 1 {
		t.Errorf("first solar entry = %+v", solar[0])
	}

	lunarCat := Catalog(TypeLunar)
	if len(lunarCat) != 11 {
		t.Errorf("lunar catalog has %d entries, want 11", len(lunarCat))
	}
	for _, d := range lunarCat {
		if d.Festival.Type != TypeLunar || !d.Festival.IsFixed {
			t.Errorf("lunar entry %+v has wrong type or is not fixed", d)
		}
	}

	if Catalog(Type("weekly")) != nil {
		t.Error("unknown type should yield nil catalog")
	}
}

func TestType_LabelVN(t *testing.T) {
	if TypeSolar.LabelVN() != "Dương lịch" {
		t.Errorf("solar label = %q", TypeSolar.LabelVN())
	}
	if TypeLunar.LabelVN() != "Âm lịch" {
		t.Errorf("lunar label = %q", TypeLunar.LabelVN())
	}
}
