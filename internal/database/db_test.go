package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/zapponejosh/amlich-api/internal/festival"
)

// testDB creates a migrated in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func strPtr(s string) *string {
	return &s
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	count, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Observance tests
// -----------------------------------------------------------------

func TestCreateObservance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	o := &Observance{
		Name:         "Giỗ ông nội",
		CalendarType: festival.TypeLunar,
		Month:        3,
		Day:          10,
		Notes:        strPtr("Cả nhà về quê"),
	}
	if err := db.CreateObservance(ctx, o); err != nil {
		t.Fatalf("CreateObservance() error = %v", err)
	}

	if o.ID == 0 {
		t.Error("CreateObservance() did not set ID")
	}
	if o.CreatedAt.IsZero() {
		t.Error("CreateObservance() did not set CreatedAt")
	}
	if o.Notes == nil || *o.Notes != "Cả nhà về quê" {
		t.Errorf("Notes = %v", o.Notes)
	}
}

func TestCreateObservance_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	o := Observance{Name: "Sinh nhật mẹ", CalendarType: festival.TypeSolar, Month: 6, Day: 12}
	first := o
	if err := db.CreateObservance(ctx, &first); err != nil {
		t.Fatalf("first CreateObservance() error = %v", err)
	}

	second := o
	if err := db.CreateObservance(ctx, &second); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second CreateObservance() error = %v, want ErrDuplicate", err)
	}
}

func TestCreateObservance_Invalid(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		o    Observance
	}{
		{"empty name", Observance{Name: "  ", CalendarType: festival.TypeSolar, Month: 1, Day: 1}},
		{"bad type", Observance{Name: "x", CalendarType: "weekly", Month: 1, Day: 1}},
		{"month 13", Observance{Name: "x", CalendarType: festival.TypeSolar, Month: 13, Day: 1}},
		{"solar day 32", Observance{Name: "x", CalendarType: festival.TypeSolar, Month: 1, Day: 32}},
		{"lunar day 31", Observance{Name: "x", CalendarType: festival.TypeLunar, Month: 1, Day: 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := tt.o
			if err := db.CreateObservance(ctx, &o); !errors.Is(err, ErrInvalid) {
				t.Errorf("CreateObservance() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestGetObservanceByID_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetObservanceByID(context.Background(), 999)
	if !IsNotFound(err) {
		t.Errorf("GetObservanceByID() error = %v, want not found", err)
	}
}

func TestGetObservancesOn(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for _, o := range []Observance{
		{Name: "Giỗ bà", CalendarType: festival.TypeLunar, Month: 8, Day: 15},
		{Name: "Giỗ cụ", CalendarType: festival.TypeLunar, Month: 8, Day: 15},
		{Name: "Kỷ niệm ngày cưới", CalendarType: festival.TypeSolar, Month: 8, Day: 15},
	} {
		if err := db.CreateObservance(ctx, &o); err != nil {
			t.Fatalf("CreateObservance(%s) error = %v", o.Name, err)
		}
	}

	lunarObs, err := db.GetObservancesOn(ctx, festival.TypeLunar, 8, 15)
	if err != nil {
		t.Fatalf("GetObservancesOn() error = %v", err)
	}
	if len(lunarObs) != 2 || lunarObs[0].Name != "Giỗ bà" || lunarObs[1].Name != "Giỗ cụ" {
		t.Errorf("lunar observances = %+v", lunarObs)
	}

	none, err := db.GetObservancesOn(ctx, festival.TypeSolar, 1, 1)
	if err != nil {
		t.Fatalf("GetObservancesOn() error = %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}
}

func TestListAndDeleteObservance(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	o := &Observance{Name: "Giỗ ông ngoại", CalendarType: festival.TypeLunar, Month: 11, Day: 2}
	if err := db.CreateObservance(ctx, o); err != nil {
		t.Fatalf("CreateObservance() error = %v", err)
	}

	all, err := db.ListObservances(ctx)
	if err != nil {
		t.Fatalf("ListObservances() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListObservances() len = %d, want 1", len(all))
	}

	if err := db.DeleteObservance(ctx, o.ID); err != nil {
		t.Fatalf("DeleteObservance() error = %v", err)
	}
	if err := db.DeleteObservance(ctx, o.ID); !IsNotFound(err) {
		t.Errorf("second DeleteObservance() error = %v, want not found", err)
	}
}

func TestImportObservances(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	existing := &Observance{Name: "Giỗ bà", CalendarType: festival.TypeLunar, Month: 8, Day: 15}
	if err := db.CreateObservance(ctx, existing); err != nil {
		t.Fatalf("CreateObservance() error = %v", err)
	}

	res, err := db.ImportObservances(ctx, []Observance{
		{Name: "Giỗ bà", CalendarType: festival.TypeLunar, Month: 8, Day: 15},
		{Name: "Giỗ ông", CalendarType: festival.TypeLunar, Month: 2, Day: 3},
		{Name: "Sinh nhật con", CalendarType: festival.TypeSolar, Month: 4, Day: 21},
	})
	if err != nil {
		t.Fatalf("ImportObservances() error = %v", err)
	}
	if res.Inserted != 2 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 2 inserted, 1 skipped", res)
	}

	all, err := db.ListObservances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestImportObservances_InvalidWritesNothing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.ImportObservances(ctx, []Observance{
		{Name: "ok", CalendarType: festival.TypeSolar, Month: 1, Day: 2},
		{Name: "bad", CalendarType: festival.TypeLunar, Month: 1, Day: 31},
	})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("ImportObservances() error = %v, want ErrInvalid", err)
	}

	all, err := db.ListObservances(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("import wrote %d rows despite invalid entry", len(all))
	}
}
