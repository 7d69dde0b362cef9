package lunar

import (
	"errors"
	"fmt"

	lunarcal "github.com/6tail/lunar-go/calendar"
)

// ErrOutOfRange is returned by Engine for months or days the library cannot represent.
var ErrOutOfRange = errors.New("solar date out of range")

// Engine is the production Cycle backed by github.com/6tail/lunar-go.
//
// The library follows the Chinese (UTC+8) reckoning; in a handful of years
// the Vietnamese calendar (UTC+7) starts a month one day earlier.
type Engine struct{}

// Convert implements Cycle.
func (Engine) Convert(year, month, day int) (res CycleResult, err error) {
	if month < 1 || month > 12 {
		return CycleResult{}, fmt.Errorf("month %d: %w", month, ErrOutOfRange)
	}
	if day < 1 || day > 31 {
		return CycleResult{}, fmt.Errorf("day %d: %w", day, ErrOutOfRange)
	}

	defer func() {
		if r := recover(); r != nil {
			res = CycleResult{}
			err = fmt.Errorf("lunar-go %04d-%02d-%02d: %v", year, month, day, r)
		}
	}()

	l := lunarcal.NewSolarFromYmd(year, month, day).GetLunar()

	// lunar-go reports leap months as negative month numbers.
	m := l.GetMonth()
	leap := m < 0
	if leap {
		m = -m
	}

	return CycleResult{
		Day:    l.GetDay(),
		Month:  m,
		IsLeap: leap,
		Label:  l.GetDayInChinese(),
	}, nil
}
