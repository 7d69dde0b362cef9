package calendar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zapponejosh/amlich-api/internal/lunar"
)

// ICSProductID identifies the generator in exported calendars.
const ICSProductID = "-//amlich-api//Lich Am Duong//VI"

var icsEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

// WriteICS writes an iCalendar document with one all-day event per festival.
// stamp becomes every event's DTSTAMP.
func WriteICS(w io.Writer, year int, occurrences []Occurrence, stamp time.Time) error {
	bw := bufio.NewWriter(w)
	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format+"\r\n", args...)
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:%s", ICSProductID)
	line("CALSCALE:GREGORIAN")
	line("X-WR-CALNAME:%s", icsEscaper.Replace(fmt.Sprintf("Ngày lễ %d", year)))

	dtstamp := stamp.UTC().Format("20060102T150405Z")
	for _, o := range occurrences {
		d, err := ParseDate(o.Date)
		if err != nil {
			return err
		}
		for i, f := range o.Festivals {
			line("BEGIN:VEVENT")
			line("UID:%s-%s-%d@amlich-api", o.Date, f.Type, i)
			line("DTSTAMP:%s", dtstamp)
			line("DTSTART;VALUE=DATE:%s", d.Format("20060102"))
			line("DTEND;VALUE=DATE:%s", d.AddDate(0, 0, 1).Format("20060102"))
			line("SUMMARY:%s", icsEscaper.Replace(f.Name))
			line("DESCRIPTION:%s", icsEscaper.Replace(fmt.Sprintf("%s - Âm lịch %s", f.Type.LabelVN(), lunar.FormatLunarDate(o.Lunar))))
			line("TRANSP:TRANSPARENT")
			line("END:VEVENT")
		}
	}

	line("END:VCALENDAR")
	return bw.Flush()
}
