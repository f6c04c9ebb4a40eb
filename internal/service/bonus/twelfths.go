package bonus

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/domain/attendance"
	"github.com/oficina-erp/payroll-engine/internal/domain/bonus"
	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
)

// Accrual is the twelfths count of a year and what reduced it.
type Accrual struct {
	Twelfths       int
	LostToAbsence  int
	LostToLeave    int
	MonthsEmployed int
}

// AccrueTwelfths counts the twelfths earned in year.
//
// A month counts when the employee was on the payroll for at least minDays
// of it. A counted month is lost again when absences and leave leave fewer
// than minDays worked; it is charged to leave when leave alone is enough to
// lose it, else to absence.
func AccrueTwelfths(hireDate time.Time, terminationDate *time.Time, year int, records []attendance.Record, minDays int) Accrual {
	byMonth := attendance.ByMonth(records)

	var acc Accrual
	for m := time.January; m <= time.December; m++ {
		month := competence.New(year, m)
		employed := employedDays(hireDate, terminationDate, month)
		if employed < minDays {
			continue
		}
		acc.MonthsEmployed++

		att := byMonth[month]
		if employed-att.LeaveDays < minDays {
			acc.LostToLeave++
			continue
		}
		if employed-att.LeaveDays-att.AbsenceDays < minDays {
			acc.LostToAbsence++
			continue
		}
		acc.Twelfths++
	}

	if acc.Twelfths > bonus.MaxTwelfths {
		acc.Twelfths = bonus.MaxTwelfths
	}
	return acc
}

// employedDays counts the calendar days of month between hire and
// termination, both inclusive.
func employedDays(hireDate time.Time, terminationDate *time.Time, month competence.YearMonth) int {
	first := month.Start()
	last := month.End().AddDate(0, 0, -1)

	if !hireDate.IsZero() {
		hired := dateOnly(hireDate)
		if hired.After(first) {
			first = hired
		}
	}
	if terminationDate != nil {
		terminated := dateOnly(*terminationDate)
		if terminated.Before(last) {
			last = terminated
		}
	}
	if last.Before(first) {
		return 0
	}
	return int(last.Sub(first).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
