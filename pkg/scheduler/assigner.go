package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/sirupsen/logrus"
)

// fullDay is the window of an absence record
var fullDay = calendar.MustRange("00:00", "23:59")

// Writer persists absences and substitutions
type Writer interface {
	GetEmployee(ctx context.Context, id uint) (models.Employee, error)
	CreateRecords(ctx context.Context, records ...models.ScheduleRecord) error
}

// Assigner records absences and the substitutes chosen to cover them
type Assigner struct {
	repo   Writer
	window calendar.TimeRange
	log    *logrus.Entry
}

// NewAssigner creates an assigner writing substitutions over window
func NewAssigner(repo Writer, window calendar.TimeRange, log *logrus.Entry) *Assigner {
	return &Assigner{repo: repo, window: window, log: log.WithField("component", "assigner")}
}

// Window is the default working window of a substitute
func (a *Assigner) Window() calendar.TimeRange {
	return a.window
}

// AssignSubstitute marks the original employee absent and books the substitute
// at the original's store. Both records are written in one transaction.
func (a *Assigner) AssignSubstitute(ctx context.Context, originalID, substituteID uint, date time.Time) ([]models.ScheduleRecord, error) {
	if originalID == substituteID {
		return nil, ErrSameEmployee
	}
	original, err := a.employee(ctx, originalID)
	if err != nil {
		return nil, err
	}
	substitute, err := a.employee(ctx, substituteID)
	if err != nil {
		return nil, err
	}

	key := calendar.DateKey(date)
	records := []models.ScheduleRecord{
		absenceRecord(original, key),
		{
			EmployeeID: substitute.ID,
			StoreID:    original.StoreID,
			Date:       key,
			StartTime:  a.window.Start.String(),
			EndTime:    a.window.End.String(),
			Kind:       models.KindSubstitution,
		},
	}
	if err := a.repo.CreateRecords(ctx, records...); err != nil {
		return nil, err
	}

	a.log.WithFields(logrus.Fields{
		"date":       key,
		"original":   original.Name,
		"substitute": substitute.Name,
		"store":      original.StoreID,
	}).Info("Substitute assigned")
	return records, nil
}

// RecordAbsence marks an employee absent for a whole day
func (a *Assigner) RecordAbsence(ctx context.Context, employeeID uint, date time.Time) (models.ScheduleRecord, error) {
	e, err := a.employee(ctx, employeeID)
	if err != nil {
		return models.ScheduleRecord{}, err
	}
	record := absenceRecord(e, calendar.DateKey(date))
	if err := a.repo.CreateRecords(ctx, record); err != nil {
		return models.ScheduleRecord{}, err
	}
	a.log.WithFields(logrus.Fields{"date": record.Date, "employee": e.Name}).Info("Absence recorded")
	return record, nil
}

func (a *Assigner) employee(ctx context.Context, id uint) (models.Employee, error) {
	e, err := a.repo.GetEmployee(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Employee{}, fmt.Errorf("employee %d: %w", id, ErrEmployeeNotFound)
	}
	return e, err
}

func absenceRecord(e models.Employee, date string) models.ScheduleRecord {
	return models.ScheduleRecord{
		EmployeeID: e.ID,
		StoreID:    e.StoreID,
		Date:       date,
		StartTime:  fullDay.Start.String(),
		EndTime:    fullDay.End.String(),
		Kind:       models.KindAbsence,
	}
}
