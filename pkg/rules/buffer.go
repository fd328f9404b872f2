package rules

import (
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
)

// ApplyBuffer pads standard and holiday_shift windows by pad on both sides.
// Other shift types are returned untouched. The input slice is not modified.
func ApplyBuffer(shifts []models.Shift, pad time.Duration) []models.Shift {
	out := make([]models.Shift, len(shifts))
	for i, s := range shifts {
		s.Time = bufferTime(s.Time, s.Type, pad)
		out[i] = s
	}
	return out
}

func bufferTime(window string, typ models.ShiftType, pad time.Duration) string {
	if pad == 0 || !typ.Buffered() {
		return window
	}
	r, err := calendar.ParseRange(window)
	if err != nil {
		return window
	}
	return r.Pad(pad).String()
}
