package calendar

import (
	"time"
)

// DateLayout is the ISO calendar-date form used for holidays and schedule records
const DateLayout = "2006-01-02"

// DayType selects which opening hours apply to a date
type DayType int

const (
	DayTypeWeekday DayType = iota
	DayTypeSaturday
	DayTypeSunday
	DayTypeHoliday
)

func (t DayType) String() string {
	switch t {
	case DayTypeSaturday:
		return "saturday"
	case DayTypeSunday:
		return "sunday"
	case DayTypeHoliday:
		return "holiday"
	default:
		return "weekday"
	}
}

// Day is the classification of a calendar date used by the store rules
type Day struct {
	Date         time.Time    `json:"-"`
	Weekday      time.Weekday `json:"day_of_week"`
	IsHoliday    bool         `json:"is_holiday"`
	HolidayLabel string       `json:"holiday_label,omitempty"`
	IsEvenWeek   bool         `json:"is_even_week"`
	ISOWeek      int          `json:"iso_week"`
}

// Classify computes the day of week, holiday flag and ISO week parity of a date
func Classify(date time.Time, holidays HolidaySet) Day {
	_, week := date.ISOWeek()
	label, isHoliday := holidays.Label(date)
	return Day{
		Date:         date,
		Weekday:      date.Weekday(),
		IsHoliday:    isHoliday,
		HolidayLabel: label,
		IsEvenWeek:   week%2 == 0,
		ISOWeek:      week,
	}
}

// IsEvenWeek reports whether the ISO-8601 week number of date is even
func IsEvenWeek(date time.Time) bool {
	_, week := date.ISOWeek()
	return week%2 == 0
}

// Type returns the opening-hours classification. Holidays win over the weekday.
func (d Day) Type() DayType {
	switch {
	case d.IsHoliday:
		return DayTypeHoliday
	case d.Weekday == time.Sunday:
		return DayTypeSunday
	case d.Weekday == time.Saturday:
		return DayTypeSaturday
	default:
		return DayTypeWeekday
	}
}

// IsSundayOrHoliday is the common "weekend hours" test of the store rules
func (d Day) IsSundayOrHoliday() bool {
	return d.IsHoliday || d.Weekday == time.Sunday
}

// IsWeekendOrHoliday covers Saturday, Sunday and holidays
func (d Day) IsWeekendOrHoliday() bool {
	return d.IsHoliday || d.Weekday == time.Sunday || d.Weekday == time.Saturday
}

// Is reports whether the date falls on any of the given weekdays
func (d Day) Is(days ...time.Weekday) bool {
	for _, wd := range days {
		if d.Weekday == wd {
			return true
		}
	}
	return false
}

// Key returns the YYYY-MM-DD form of the classified date
func (d Day) Key() string {
	return DateKey(d.Date)
}

// DateKey formats a date in its ISO calendar form
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// HolidaySet maps ISO dates to holiday labels
type HolidaySet map[string]string

// NewHolidaySet builds an empty set
func NewHolidaySet() HolidaySet {
	return make(HolidaySet)
}

// Add registers a holiday date
func (h HolidaySet) Add(date, label string) {
	h[date] = label
}

// Label returns the holiday label of a date and whether it is a holiday
func (h HolidaySet) Label(date time.Time) (string, bool) {
	if h == nil {
		return "", false
	}
	label, ok := h[DateKey(date)]
	return label, ok
}

// Contains reports whether date is a holiday
func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h.Label(date)
	return ok
}

// WeekBounds returns Monday and Sunday of the week containing date
func WeekBounds(date time.Time) (time.Time, time.Time) {
	offset := (int(date.Weekday()) + 6) % 7
	start := date.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing date
func MonthBounds(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	return start, start.AddDate(0, 1, -1)
}

// Days lists every date from start to end inclusive
func Days(start, end time.Time) []time.Time {
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
