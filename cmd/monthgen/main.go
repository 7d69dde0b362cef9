package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/zapponejosh/amlich-api/internal/calendar"
	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// Prints one month as a solar/lunar grid so conversions can be checked by eye.
// Days marked * have at least one festival.

func main() {
	now := time.Now()
	year := flag.Int("year", now.Year(), "Solar year")
	month := flag.Int("month", int(now.Month()), "Solar month (1-12)")
	flag.Parse()

	if *month < 1 || *month > 12 {
		fmt.Fprintf(os.Stderr, "month must be between 1 and 12, got %d\n", *month)
		os.Exit(2)
	}

	svc := calendar.NewService(lunar.Default())
	printMonth(os.Stdout, svc, *year, *month)
}

func printMonth(w io.Writer, svc *calendar.Service, year, month int) {
	grid := svc.Month(year, month)

	fmt.Fprintf(w, "=== %s ===\n\n", grid.Title)
	for _, wd := range grid.Weekdays {
		fmt.Fprintf(w, "%-10s", wd)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 10*len(grid.Weekdays)))

	for i, d := range grid.Days {
		cell := "."
		if d.IsCurrentMonth {
			mark := " "
			if d.HasFestival {
				mark = "*"
			}
			cell = fmt.Sprintf("%2d %-5s%s", d.SolarDay, d.LunarLabel, mark)
		}
		fmt.Fprintf(w, "%-10s", cell)
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Festivals:")
	found := false
	for _, d := range grid.Days {
		if !d.IsCurrentMonth || !d.HasFestival {
			continue
		}
		detail := svc.Day(d.SolarYear, d.SolarMonth, d.SolarDay)
		for _, f := range detail.Festivals {
			fmt.Fprintf(w, "  %s  %-22s (%s, âm lịch %s)\n", d.Date, f.Name, f.TypeLabel, detail.LunarLabelVN)
			found = true
		}
	}
	if !found {
		fmt.Fprintln(w, "  (none)")
	}
}
