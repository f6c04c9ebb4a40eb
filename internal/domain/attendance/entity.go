package attendance

import (
	"time"

	"github.com/oficina-erp/payroll-engine/internal/pkg/competence"
	"github.com/shopspring/decimal"
)

// Record is the monthly time-sheet summary ("controle de ponto") of one employee.
type Record struct {
	ID                   string
	CompanyID            string
	EmployeeID           string
	ReferenceMonth       competence.YearMonth
	WeekdayOvertimeHours decimal.Decimal
	WeekendOvertimeHours decimal.Decimal
	AbsenceDays          int
	AbsenceHours         decimal.Decimal
	LeaveDays            int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Merge sums every record into one. The returned bool is true when more than
// one record had to be combined.
func Merge(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	merged := records[0]
	for _, r := range records[1:] {
		merged.WeekdayOvertimeHours = merged.WeekdayOvertimeHours.Add(r.WeekdayOvertimeHours)
		merged.WeekendOvertimeHours = merged.WeekendOvertimeHours.Add(r.WeekendOvertimeHours)
		merged.AbsenceDays += r.AbsenceDays
		merged.AbsenceHours = merged.AbsenceHours.Add(r.AbsenceHours)
		merged.LeaveDays += r.LeaveDays
	}
	return merged, len(records) > 1
}

// ByMonth groups records by reference month, merging duplicates.
func ByMonth(records []Record) map[competence.YearMonth]Record {
	grouped := make(map[competence.YearMonth][]Record)
	for _, r := range records {
		grouped[r.ReferenceMonth] = append(grouped[r.ReferenceMonth], r)
	}
	out := make(map[competence.YearMonth]Record, len(grouped))
	for month, rs := range grouped {
		out[month], _ = Merge(rs)
	}
	return out
}
