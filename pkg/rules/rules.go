package rules

import (
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
)

// DefaultBuffer is the opening/closing pad applied to standard and holiday shifts
const DefaultBuffer = 15 * time.Minute

// Context is everything a store rule may look at
type Context struct {
	Store models.Store
	Day   calendar.Day
	Hours calendar.TimeRange // opening hours for Day's type
	Staff Staff              // active roster of the store
	Loans map[string]Member  // resolved loaned employees by role
}

// Loan returns the loaned member for role, vacant when unresolved
func (c Context) Loan(role string) Member {
	if m, ok := c.Loans[role]; ok {
		return m
	}
	return Member{Role: role}
}

// mainType is the tag of the opening-hours shift for the day
func (c Context) mainType() models.ShiftType {
	if c.Day.IsHoliday {
		return models.ShiftHolidayShift
	}
	return models.ShiftStandard
}

// Rule produces the raw, unbuffered slots of one store for one day
type Rule func(c Context) []Slot

// Loan declares that a role is staffed by an employee of another store
type Loan struct {
	Role     string
	Employee string // name token at the home store
	From     models.StoreProfile
}

// Profile is the scheduling configuration of one kind of store
type Profile struct {
	Rule  Rule
	Loans []Loan
}

// Registry maps store profiles to their rule configuration
type Registry map[models.StoreProfile]Profile

// DefaultRegistry returns the rule sets of the six modeled stores
func DefaultRegistry() Registry {
	return Registry{
		models.ProfileSanJulian:  {Rule: sanJulian},
		models.ProfileCastralvo:  {Rule: castralvo},
		models.ProfileAvAragon:   {Rule: avAragon, Loans: []Loan{{Role: roleLoanNatalia, Employee: "NATALIA", From: models.ProfileSanJulian}}},
		models.ProfileStaAmalia:  {Rule: staAmalia},
		models.ProfileFuenfresca: {Rule: fuenfresca},
		models.ProfileSanJuan:    {Rule: sanJuan},
		models.ProfileGeneric:    {Rule: generic},
	}
}

// Lookup returns the profile configuration, falling back to the generic rule
func (r Registry) Lookup(p models.StoreProfile) Profile {
	if prof, ok := r[p]; ok && prof.Rule != nil {
		return prof
	}
	return Profile{Rule: generic}
}

// Engine runs store rules and post-processes their output
type Engine struct {
	registry Registry
	buffer   time.Duration
}

// NewEngine creates an engine over a registry with the given shift buffer
func NewEngine(registry Registry, buffer time.Duration) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry, buffer: buffer}
}

// Loans returns the loan declarations of a profile
func (e *Engine) Loans(p models.StoreProfile) []Loan {
	return e.registry.Lookup(p).Loans
}

// Generate dispatches to the store's rule and applies the buffer to the result
func (e *Engine) Generate(c Context) ([]models.Shift, []models.Vacancy) {
	profile := c.Store.ResolveProfile()
	if profile == models.ProfileGeneric {
		return nil, nil
	}

	hours, ok := OpeningHours(c.Store, c.Day.Type())
	if !ok {
		return []models.Shift{models.ClosedShift()}, nil
	}
	c.Hours = hours

	slots := e.registry.Lookup(profile).Rule(c)

	shifts := make([]models.Shift, 0, len(slots))
	var vacancies []models.Vacancy
	for _, s := range slots {
		if s.Filled {
			shifts = append(shifts, s.Shift)
			continue
		}
		vacancies = append(vacancies, models.Vacancy{Role: s.Role, Time: s.Shift.Time, Type: s.Shift.Type})
	}

	shifts = ApplyBuffer(shifts, e.buffer)
	for i := range vacancies {
		vacancies[i].Time = bufferTime(vacancies[i].Time, vacancies[i].Type, e.buffer)
	}
	return shifts, vacancies
}

// OpeningHours picks the store hours for a day type. Sundays and holidays fall
// back to Saturday and then weekday hours; Saturdays fall back to weekday hours.
func OpeningHours(s models.Store, t calendar.DayType) (calendar.TimeRange, bool) {
	weekday := [2]string{s.OpenWeekday, s.CloseWeekday}
	saturday := [2]string{s.OpenSaturday, s.CloseSaturday}
	sunday := [2]string{s.OpenSunday, s.CloseSunday}

	var order [][2]string
	switch t {
	case calendar.DayTypeSunday, calendar.DayTypeHoliday:
		order = [][2]string{sunday, saturday, weekday}
	case calendar.DayTypeSaturday:
		order = [][2]string{saturday, weekday}
	default:
		order = [][2]string{weekday}
	}

	for _, pair := range order {
		if pair[0] == "" || pair[1] == "" {
			continue
		}
		r, err := calendar.NewRange(pair[0], pair[1])
		if err != nil {
			continue
		}
		return r, true
	}
	return calendar.TimeRange{}, false
}
