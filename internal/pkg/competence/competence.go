// Package competence models the payroll reference month ("competência").
package competence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidCompetence = errors.New("competence must be in YYYY-MM format")

const layout = "2006-01"

// YearMonth is a calendar month with no day or time component.
type YearMonth struct {
	Year  int
	Month time.Month
}

func New(year int, month time.Month) YearMonth {
	return YearMonth{Year: year, Month: month}
}

// Parse reads "YYYY-MM".
func Parse(s string) (YearMonth, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidCompetence, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// Of returns the month containing t.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// Start is midnight UTC on the first day of the month.
func (ym YearMonth) Start() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month (exclusive bound).
func (ym YearMonth) End() time.Time {
	return ym.Start().AddDate(0, 1, 0)
}

// Days is the number of calendar days in the month (28–31).
func (ym YearMonth) Days() int {
	return ym.End().AddDate(0, 0, -1).Day()
}

// Contains reports whether the calendar date of t falls within the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// AddMonths shifts the month by n (negative goes back).
func (ym YearMonth) AddMonths(n int) YearMonth {
	return Of(ym.Start().AddDate(0, n, 0))
}

// MonthsBetween counts the months in [from, to], both inclusive. It is zero
// when to is before from.
func MonthsBetween(from, to YearMonth) int {
	n := (to.Year-from.Year)*12 + int(to.Month) - int(from.Month) + 1
	if n < 0 {
		return 0
	}
	return n
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*ym = YearMonth{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
