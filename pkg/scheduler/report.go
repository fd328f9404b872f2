package scheduler

import (
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/shopspring/decimal"
)

// HoursRow compares planned hours with the contract of one employee
type HoursRow struct {
	EmployeeID uint            `json:"employee_id,omitempty"`
	Name       string          `json:"name"`
	Contracted decimal.Decimal `json:"contracted"`
	Planned    decimal.Decimal `json:"planned"` // average per week over the plans
	Deviation  decimal.Decimal `json:"deviation"`
}

var (
	daysPerWeek    = decimal.NewFromInt(7)
	minutesPerHour = decimal.NewFromInt(60)
	hundred        = decimal.NewFromInt(100)
)

// WeeklyHours sums shift durations per employee and averages them per week.
// Roster members come first in roster order; anyone else found in the plans
// (loaned staff, overrides) follows in order of appearance.
func WeeklyHours(plans []models.DayPlan, roster []models.Employee) []HoursRow {
	rows := make([]HoursRow, 0, len(roster))
	byID := make(map[uint]int)
	byName := make(map[string]int)
	for _, e := range roster {
		byID[e.ID] = len(rows)
		rows = append(rows, HoursRow{EmployeeID: e.ID, Name: e.Name, Contracted: e.WeeklyHours, Planned: decimal.Zero})
	}

	dates := make(map[string]bool)
	for _, p := range plans {
		dates[p.Date] = true
		for _, s := range p.Shifts {
			if s.IsClosed() {
				continue
			}
			r, err := s.Range()
			if err != nil {
				continue
			}
			idx, ok := byID[s.EmployeeID]
			if !ok || s.EmployeeID == 0 {
				idx, ok = byName[s.Emp]
				if !ok {
					idx = len(rows)
					byName[s.Emp] = idx
					rows = append(rows, HoursRow{EmployeeID: s.EmployeeID, Name: s.Emp, Contracted: decimal.Zero, Planned: decimal.Zero})
				}
			}
			rows[idx].Planned = rows[idx].Planned.Add(decimal.NewFromFloat(r.Duration().Minutes()))
		}
	}

	weeks := decimal.NewFromInt(int64(len(dates))).Div(daysPerWeek)
	for i := range rows {
		if weeks.IsPositive() {
			rows[i].Planned = rows[i].Planned.Div(minutesPerHour).Div(weeks).Round(2)
		}
		rows[i].Deviation = rows[i].Planned.Sub(rows[i].Contracted)
	}
	return rows
}

// Coverage is a percentage (0-100) of how closely planned hours follow the
// contracts. 100 means every row matches exactly.
func Coverage(rows []HoursRow) decimal.Decimal {
	contracted := decimal.Zero
	deviation := decimal.Zero
	for _, r := range rows {
		contracted = contracted.Add(r.Contracted)
		deviation = deviation.Add(r.Deviation.Abs())
	}
	if !contracted.IsPositive() {
		return hundred
	}
	score := decimal.NewFromInt(1).Sub(deviation.Div(contracted)).Mul(hundred)
	if score.IsNegative() {
		return decimal.Zero
	}
	return score.Round(1)
}
