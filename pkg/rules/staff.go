package rules

import (
	"fmt"
	"strings"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
)

// Staff is the active roster handed to a rule
type Staff []models.Employee

// Find locates an employee by exact name first, then by substring. Matching
// ignores case and diacritics.
func (s Staff) Find(token string) (models.Employee, bool) {
	want := models.Normalize(token)
	for _, e := range s {
		if models.Normalize(e.Name) == want {
			return e, true
		}
	}
	for _, e := range s {
		if strings.Contains(models.Normalize(e.Name), want) {
			return e, true
		}
	}
	return models.Employee{}, false
}

// Member resolves a role against the roster; a missing employee leaves it vacant
func (s Staff) Member(token string) Member {
	role := strings.ToLower(models.Normalize(token))
	e, ok := s.Find(token)
	if !ok {
		return Member{Role: role}
	}
	return Member{Role: role, Employee: e, Present: true, Display: e.Name}
}

// Member is a role in a store rule, filled or vacant
type Member struct {
	Role     string
	Employee models.Employee
	Present  bool
	Display  string
}

// LoanedMember builds a member working away from home store
func LoanedMember(role string, e models.Employee, home models.Store) Member {
	return Member{
		Role:     role,
		Employee: e,
		Present:  true,
		Display:  fmt.Sprintf("%s (%s)", e.Name, home.Name),
	}
}

// Slot is one position produced by a rule
type Slot struct {
	Role   string
	Shift  models.Shift
	Filled bool
}

// work places the member on a window
func (m Member) work(window calendar.TimeRange, typ models.ShiftType) Slot {
	shift := models.Shift{Time: window.String(), Type: typ}
	if !m.Present {
		return Slot{Role: m.Role, Shift: shift}
	}
	shift.Emp = m.Display
	shift.EmployeeID = m.Employee.ID
	return Slot{Role: m.Role, Shift: shift, Filled: true}
}

// pick chooses a when cond holds and b otherwise
func pick(cond bool, a, b Member) Member {
	if cond {
		return a
	}
	return b
}
