package models

import (
	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/shopspring/decimal"
)

// ShiftType tags a generated shift for display and buffering
type ShiftType string

const (
	ShiftStandard      ShiftType = "standard"
	ShiftHoliday       ShiftType = "holiday"
	ShiftHolidayShift  ShiftType = "holiday_shift"
	ShiftReinforcement ShiftType = "reinforcement"
)

// Buffered reports whether the opening/closing pad applies to this type
func (t ShiftType) Buffered() bool {
	return t == ShiftStandard || t == ShiftHolidayShift
}

// Closed is the sentinel employee and time of a closed day
const Closed = "CERRADO"

// UnknownEmployee names override shifts whose employee id cannot be resolved
const UnknownEmployee = "Unknown"

// Shift is one line of a store's day. It is a value; nothing persists it.
type Shift struct {
	Emp        string    `json:"emp"`
	EmployeeID uint      `json:"employee_id,omitempty"`
	Time       string    `json:"time"`
	Type       ShiftType `json:"type"`
}

// ClosedShift is the single shift returned for a closed day
func ClosedShift() Shift {
	return Shift{Emp: Closed, Time: Closed, Type: ShiftHoliday}
}

// IsClosed reports whether this is the closed-day sentinel
func (s Shift) IsClosed() bool {
	return s.Time == Closed
}

// Range parses the displayed time window
func (s Shift) Range() (calendar.TimeRange, error) {
	return calendar.ParseRange(s.Time)
}

// Vacancy is a rule slot left empty because its employee is not in the active roster
type Vacancy struct {
	Role string    `json:"role"`
	Time string    `json:"time"`
	Type ShiftType `json:"type"`
}

// DayPlan is the orchestrated result for one store and date
type DayPlan struct {
	StoreID   uint         `json:"store_id"`
	Date      string       `json:"date"`
	Day       calendar.Day `json:"day"`
	Shifts    []Shift      `json:"shifts"`
	Vacancies []Vacancy    `json:"vacancies,omitempty"`
}

// Candidate is a ranked substitute proposal
type Candidate struct {
	Employee
	Score   decimal.Decimal `json:"score"`
	Reasons []string        `json:"reason"`
}
