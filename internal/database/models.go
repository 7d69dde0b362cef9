package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/amlich-api/internal/festival"
)

// Observance is a personal date fixed to a day/month of the solar or lunar
// calendar, e.g. a family death anniversary.
type Observance struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	CalendarType festival.Type `json:"calendar_type"`
	Month        int           `json:"month"`
	Day          int           `json:"day"`
	Notes        *string       `json:"notes,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Validate checks the fields a caller supplies. Lunar months have at most 30 days.
func (o *Observance) Validate() error {
	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !o.CalendarType.IsValid() {
		return fmt.Errorf("%w: calendar_type must be solar or lunar, got %q", ErrInvalid, o.CalendarType)
	}
	if o.Month < 1 || o.Month > 12 {
		return fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalid, o.Month)
	}

	maxDay := 31
	if o.CalendarType == festival.TypeLunar {
		maxDay = 30
	}
	if o.Day < 1 || o.Day > maxDay {
		return fmt.Errorf("%w: day must be between 1 and %d, got %d", ErrInvalid, maxDay, o.Day)
	}
	return nil
}
