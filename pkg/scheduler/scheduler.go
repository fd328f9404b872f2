package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/hornossanz/shift-planner/pkg/rules"
	"github.com/sirupsen/logrus"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrSameEmployee     = errors.New("substitute must differ from the absent employee")
	ErrInvalidWindow    = errors.New("window start must be before its end")
)

// Repository is the read side of the roster store
type Repository interface {
	ListStores(ctx context.Context) ([]models.Store, error)
	GetStore(ctx context.Context, id uint) (models.Store, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	ListHolidays(ctx context.Context) ([]models.Holiday, error)
	ListRecordsByDate(ctx context.Context, date string) ([]models.ScheduleRecord, error)
	ListRecordsByStoreAndDate(ctx context.Context, storeID uint, date string) ([]models.ScheduleRecord, error)
}

// Snapshot is the reference data shared by every store computed in one request
type Snapshot struct {
	Stores    []models.Store
	Employees []models.Employee
	Holidays  calendar.HolidaySet
}

// HolidaySetFrom indexes holiday rows by date
func HolidaySetFrom(holidays []models.Holiday) calendar.HolidaySet {
	set := calendar.NewHolidaySet()
	for _, h := range holidays {
		set.Add(h.Date, h.Name)
	}
	return set
}

// Orchestrator assembles the final shift list of a store for a date
type Orchestrator struct {
	repo   Repository
	engine *rules.Engine
	log    *logrus.Entry
}

// NewOrchestrator creates an orchestrator over the roster store and a rule engine
func NewOrchestrator(repo Repository, engine *rules.Engine, log *logrus.Entry) *Orchestrator {
	if engine == nil {
		engine = rules.NewEngine(nil, rules.DefaultBuffer)
	}
	return &Orchestrator{repo: repo, engine: engine, log: log.WithField("component", "orchestrator")}
}

// Snapshot loads stores, the global roster and holidays
func (o *Orchestrator) Snapshot(ctx context.Context) (Snapshot, error) {
	stores, err := o.repo.ListStores(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	employees, err := o.repo.ListEmployees(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	holidays, err := o.repo.ListHolidays(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Stores: stores, Employees: employees, Holidays: HolidaySetFrom(holidays)}, nil
}

// Store loads one store, mapping a miss to ErrStoreNotFound
func (o *Orchestrator) Store(ctx context.Context, id uint) (models.Store, error) {
	store, err := o.repo.GetStore(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return models.Store{}, fmt.Errorf("store %d: %w", id, ErrStoreNotFound)
	}
	return store, err
}

// Plan computes one store's day from a fresh snapshot
func (o *Orchestrator) Plan(ctx context.Context, storeID uint, date time.Time) (models.DayPlan, error) {
	plans, err := o.Range(ctx, storeID, date, date)
	if err != nil {
		return models.DayPlan{}, err
	}
	return plans[0], nil
}

// Range computes one plan per date between from and to inclusive
func (o *Orchestrator) Range(ctx context.Context, storeID uint, from, to time.Time) ([]models.DayPlan, error) {
	store, err := o.Store(ctx, storeID)
	if err != nil {
		return nil, err
	}
	snap, err := o.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	days := calendar.Days(from, to)
	plans := make([]models.DayPlan, 0, len(days))
	for _, d := range days {
		plan, err := o.ShiftsFor(ctx, store, d, snap)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// ShiftsFor runs the rule of store for date with absences filtered out and
// appends the persisted override records. Read failures are returned as is.
func (o *Orchestrator) ShiftsFor(ctx context.Context, store models.Store, date time.Time, snap Snapshot) (models.DayPlan, error) {
	key := calendar.DateKey(date)

	absent, err := o.Absences(ctx, date)
	if err != nil {
		return models.DayPlan{}, err
	}

	day := calendar.Classify(date, snap.Holidays)
	profile := store.ResolveProfile()

	rc := rules.Context{
		Store: store,
		Day:   day,
		Staff: activeStaff(snap.Employees, store.ID, absent),
		Loans: o.resolveLoans(profile, snap, absent),
	}
	shifts, vacancies := o.engine.Generate(rc)
	if shifts == nil {
		shifts = []models.Shift{}
	}

	overrides, err := o.repo.ListRecordsByStoreAndDate(ctx, store.ID, key)
	if err != nil {
		return models.DayPlan{}, err
	}
	for _, r := range overrides {
		if !r.Kind.IsOverride() {
			continue
		}
		shifts = append(shifts, o.overrideShift(r, snap.Employees))
	}

	o.log.WithFields(logrus.Fields{
		"store":     store.Name,
		"date":      key,
		"shifts":    len(shifts),
		"vacancies": len(vacancies),
	}).Debug("Computed shifts")

	return models.DayPlan{StoreID: store.ID, Date: key, Day: day, Shifts: shifts, Vacancies: vacancies}, nil
}

// Absences returns the ids of employees with an absence record on date, at any store
func (o *Orchestrator) Absences(ctx context.Context, date time.Time) (map[uint]bool, error) {
	records, err := o.repo.ListRecordsByDate(ctx, calendar.DateKey(date))
	if err != nil {
		return nil, err
	}
	absent := make(map[uint]bool)
	for _, r := range records {
		if r.Kind == models.KindAbsence {
			absent[r.EmployeeID] = true
		}
	}
	return absent, nil
}

// overrideShift resolves the record's employee against the full roster
func (o *Orchestrator) overrideShift(r models.ScheduleRecord, employees []models.Employee) models.Shift {
	shift := models.Shift{
		Emp:  models.UnknownEmployee,
		Time: fmt.Sprintf("%s - %s", r.StartTime, r.EndTime),
		Type: models.ShiftReinforcement,
	}
	for _, e := range employees {
		if e.ID == r.EmployeeID {
			shift.Emp = e.Name
			shift.EmployeeID = e.ID
			return shift
		}
	}
	o.log.WithFields(logrus.Fields{
		"record":   r.ID,
		"employee": r.EmployeeID,
		"date":     r.Date,
	}).Warn("Override record references an unknown employee")
	return shift
}

// resolveLoans finds loaned employees in their home store's active roster
func (o *Orchestrator) resolveLoans(p models.StoreProfile, snap Snapshot, absent map[uint]bool) map[string]rules.Member {
	loans := o.engine.Loans(p)
	if len(loans) == 0 {
		return nil
	}
	out := make(map[string]rules.Member, len(loans))
	for _, loan := range loans {
		home, ok := storeByProfile(snap.Stores, loan.From)
		if !ok {
			continue
		}
		e, ok := activeStaff(snap.Employees, home.ID, absent).Find(loan.Employee)
		if !ok {
			continue
		}
		out[loan.Role] = rules.LoanedMember(loan.Role, e, home)
	}
	return out
}

func activeStaff(employees []models.Employee, storeID uint, absent map[uint]bool) rules.Staff {
	var staff rules.Staff
	for _, e := range employees {
		if e.StoreID == storeID && !absent[e.ID] {
			staff = append(staff, e)
		}
	}
	return staff
}

func storeByProfile(stores []models.Store, p models.StoreProfile) (models.Store, bool) {
	for i := range stores {
		if stores[i].ResolveProfile() == p {
			return stores[i], true
		}
	}
	return models.Store{}, false
}
