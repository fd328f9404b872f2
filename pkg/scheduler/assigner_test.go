package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignSubstitute(t *testing.T) {
	repo := fixture()
	a := NewAssigner(repo, calendar.MustRange("08:00", "14:00"), quietLog())
	ctx := context.Background()

	records, err := a.AssignSubstitute(ctx, 102, 202, sunday)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, models.ScheduleRecord{
		ID: 1, EmployeeID: 102, StoreID: 1, Date: "2026-10-18", StartTime: "00:00", EndTime: "23:59", Kind: models.KindAbsence,
	}, records[0])
	assert.Equal(t, models.ScheduleRecord{
		ID: 2, EmployeeID: 202, StoreID: 1, Date: "2026-10-18", StartTime: "08:00", EndTime: "14:00", Kind: models.KindSubstitution,
	}, records[1])

	// the next computation reflects the assignment
	plan, err := newOrchestrator(repo).Plan(ctx, 1, sunday)
	require.NoError(t, err)
	assert.Equal(t, []models.Shift{
		{Emp: "Marianis", EmployeeID: 103, Time: "09:30 - 13:30", Type: models.ShiftReinforcement},
		{Emp: "Rosa", EmployeeID: 202, Time: "08:00 - 14:00", Type: models.ShiftReinforcement},
	}, plan.Shifts)
}

func TestAssignSubstitute_Rejects(t *testing.T) {
	repo := fixture()
	a := NewAssigner(repo, calendar.MustRange("08:00", "14:00"), quietLog())
	ctx := context.Background()

	_, err := a.AssignSubstitute(ctx, 102, 102, sunday)
	assert.ErrorIs(t, err, ErrSameEmployee)

	_, err = a.AssignSubstitute(ctx, 102, 999, sunday)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	_, err = a.AssignSubstitute(ctx, 999, 102, sunday)
	assert.ErrorIs(t, err, ErrEmployeeNotFound)

	assert.Empty(t, repo.records)
}

func TestRecordAbsence(t *testing.T) {
	repo := fixture()
	a := NewAssigner(repo, calendar.MustRange("08:00", "14:00"), quietLog())

	rec, err := a.RecordAbsence(context.Background(), 501, wednesday)
	require.NoError(t, err)
	assert.Equal(t, models.KindAbsence, rec.Kind)
	assert.Equal(t, uint(5), rec.StoreID)
	assert.Equal(t, "2026-10-14", rec.Date)
	assert.Len(t, repo.records, 1)
}

func TestWeeklyHours(t *testing.T) {
	roster := []models.Employee{
		{ID: 101, Name: "Carmen", StoreID: 1, WeeklyHours: hours(35)},
		{ID: 103, Name: "Marianis", StoreID: 1, WeeklyHours: hours(5)},
	}
	start := time.Date(2026, time.October, 12, 0, 0, 0, 0, time.UTC)

	var plans []models.DayPlan
	for _, d := range calendar.Days(start, start.AddDate(0, 0, 6)) {
		plan := models.DayPlan{Date: calendar.DateKey(d)}
		switch d.Weekday() {
		case time.Sunday:
			plan.Shifts = []models.Shift{models.ClosedShift()}
		case time.Wednesday:
			plan.Shifts = []models.Shift{
				{Emp: "Natalia (San Julián)", EmployeeID: 102, Time: "08:00 - 14:00", Type: models.ShiftStandard},
			}
		default:
			plan.Shifts = []models.Shift{
				{Emp: "Carmen", EmployeeID: 101, Time: "08:00 - 15:00", Type: models.ShiftStandard},
			}
		}
		plans = append(plans, plan)
	}

	rows := WeeklyHours(plans, roster)
	require.Len(t, rows, 3)

	assert.Equal(t, "Carmen", rows[0].Name)
	assert.True(t, decimal.NewFromInt(35).Equal(rows[0].Planned), rows[0].Planned.String())
	assert.True(t, rows[0].Deviation.IsZero())

	assert.True(t, rows[1].Planned.IsZero())
	assert.True(t, decimal.NewFromInt(-5).Equal(rows[1].Deviation))

	assert.Equal(t, "Natalia (San Julián)", rows[2].Name)
	assert.True(t, decimal.NewFromInt(6).Equal(rows[2].Planned))
}

func TestCoverage(t *testing.T) {
	assert.Equal(t, "100", Coverage(nil).String())

	rows := []HoursRow{
		{Contracted: hours(40), Deviation: hours(-4)},
		{Contracted: hours(10), Deviation: hours(1)},
	}
	assert.Equal(t, "90", Coverage(rows).String())

	rows = []HoursRow{{Contracted: hours(10), Deviation: hours(30)}}
	assert.True(t, Coverage(rows).IsZero())
}
