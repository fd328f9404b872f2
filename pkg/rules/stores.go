package rules

import (
	"time"

	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/models"
)

// roleLoanNatalia covers Av. Aragón on Wednesdays from San Julián
const roleLoanNatalia = "natalia_loan"

// Reinforcement windows are fixed and never derived from opening hours.
var (
	sanJulianReinforcement = calendar.MustRange("09:30", "13:30")

	castralvoWeekendReinforcement = calendar.MustRange("08:00", "14:30")
	castralvoWeekdayReinforcement = calendar.MustRange("07:00", "13:30")

	avAragonReinforcement = calendar.MustRange("09:00", "13:00")

	staAmaliaWeekendReinforcement = calendar.MustRange("09:15", "14:15")
	staAmaliaWeekdayReinforcement = calendar.MustRange("09:15", "13:15")
	staAmaliaBeaWeekend           = calendar.MustRange("08:00", "12:00")
	staAmaliaBeaWeekday           = calendar.MustRange("07:30", "12:00")

	fuenfrescaWeekendReinforcement = calendar.MustRange("09:30", "14:30")
	fuenfrescaOverlap              = calendar.MustRange("08:00", "13:00")

	sanJuanReinforcement = calendar.MustRange("09:30", "13:30")
)

// sanJulian: Carmen 35h, Natalia 30h, Marianis 5h. Natalia spends Wednesdays at Av. Aragón.
func sanJulian(c Context) []Slot {
	if !c.Store.OpensSundays() && c.Day.IsSundayOrHoliday() {
		return []Slot{{Role: "closed", Shift: models.ClosedShift(), Filled: true}}
	}

	carmen := c.Staff.Member("CARMEN")
	natalia := c.Staff.Member("NATALIA")
	marianis := c.Staff.Member("MARIANIS")
	even := c.Day.IsEvenWeek

	var slots []Slot
	switch {
	case c.Day.IsSundayOrHoliday():
		// even weeks Natalia has the weekend, odd weeks Carmen
		slots = append(slots, pick(even, natalia, carmen).work(c.Hours, c.mainType()))
		slots = append(slots, marianis.work(sanJulianReinforcement, models.ShiftReinforcement))
	case c.Day.Is(time.Saturday):
		slots = append(slots, pick(even, natalia, carmen).work(c.Hours, models.ShiftStandard))
	case c.Day.Is(time.Wednesday):
		slots = append(slots, carmen.work(c.Hours, models.ShiftStandard))
		slots = append(slots, marianis.work(sanJulianReinforcement, models.ShiftReinforcement))
	case even:
		// Carmen Mon, Tue, Thu; Natalia Friday before her weekend
		slots = append(slots, pick(c.Day.Is(time.Friday), natalia, carmen).work(c.Hours, models.ShiftStandard))
	default:
		slots = append(slots, natalia.work(c.Hours, models.ShiftStandard))
	}
	return slots
}

// castralvo: Mar 40h, Rosa 40h, Esther 30h, Lara 6.5h.
func castralvo(c Context) []Slot {
	mar := c.Staff.Member("MAR")
	rosa := c.Staff.Member("ROSA")
	esther := c.Staff.Member("ESTHER")
	lara := c.Staff.Member("LARA")

	if c.Day.IsWeekendOrHoliday() {
		if c.Day.IsEvenWeek {
			return []Slot{
				rosa.work(c.Hours, c.mainType()),
				esther.work(castralvoWeekendReinforcement, models.ShiftReinforcement),
			}
		}
		return []Slot{
			mar.work(c.Hours, c.mainType()),
			lara.work(castralvoWeekendReinforcement, models.ShiftReinforcement),
		}
	}

	// Esther reinforces every weekday; Rosa and Mar alternate the main shift day by day
	main := pick(int(c.Day.Weekday)%2 == 0, rosa, mar)
	return []Slot{
		esther.work(castralvoWeekdayReinforcement, models.ShiftReinforcement),
		main.work(c.Hours, models.ShiftStandard),
	}
}

// avAragon: Esther 25h, M. Jose 20h, and Natalia from San Julián on Wednesdays.
func avAragon(c Context) []Slot {
	esther := c.Staff.Member("ESTHER")
	mjose := c.Staff.Member("JOSE")

	if c.Day.Is(time.Wednesday) && !c.Day.IsHoliday {
		return []Slot{c.Loan(roleLoanNatalia).work(c.Hours, models.ShiftStandard)}
	}

	if c.Day.IsWeekendOrHoliday() {
		return []Slot{pick(c.Day.IsEvenWeek, mjose, esther).work(c.Hours, c.mainType())}
	}

	slots := []Slot{esther.work(c.Hours, models.ShiftStandard)}
	if c.Day.Is(time.Monday, time.Tuesday, time.Friday) {
		slots = append(slots, mjose.work(avAragonReinforcement, models.ShiftReinforcement))
	}
	return slots
}

// staAmalia: Asun 40h full day, Bea 30h morning reinforcement, Imán 13h and Clara 5h
// alternate weekend reinforcement.
func staAmalia(c Context) []Slot {
	asun := c.Staff.Member("ASUN")
	bea := c.Staff.Member("BEA")
	iman := c.Staff.Member("IMAN")
	clara := c.Staff.Member("CLARA")

	var slots []Slot

	// Asun has every non-holiday Sunday off
	if !c.Day.Is(time.Sunday) || c.Day.IsHoliday {
		slots = append(slots, asun.work(c.Hours, c.mainType()))
	}

	weekend := c.Day.IsWeekendOrHoliday()
	if weekend {
		slots = append(slots, pick(c.Day.IsEvenWeek, clara, iman).work(staAmaliaWeekendReinforcement, models.ShiftReinforcement))
		slots = append(slots, bea.work(staAmaliaBeaWeekend, models.ShiftReinforcement))
	} else {
		slots = append(slots, bea.work(staAmaliaBeaWeekday, models.ShiftReinforcement))
	}

	if c.Day.Is(time.Tuesday, time.Friday) && !c.Day.IsHoliday {
		slots = append(slots, iman.work(staAmaliaWeekdayReinforcement, models.ShiftReinforcement))
	}
	return slots
}

// fuenfresca: Yolanda 35h, Mari 30h alternate weekends and overlap on weekdays;
// Judith 5h and Paola 5h alternate weekend reinforcement.
func fuenfresca(c Context) []Slot {
	yolanda := c.Staff.Member("YOLANDA")
	mari := c.Staff.Member("MARI")
	judith := c.Staff.Member("JUDITH")
	paola := c.Staff.Member("PAOLA")
	even := c.Day.IsEvenWeek

	if c.Day.IsWeekendOrHoliday() {
		return []Slot{
			pick(even, mari, yolanda).work(c.Hours, c.mainType()),
			pick(even, paola, judith).work(fuenfrescaWeekendReinforcement, models.ShiftReinforcement),
		}
	}

	if even {
		// Mari has the weekend: Mari Mon, Wed with Yolanda overlapping
		if c.Day.Is(time.Monday, time.Wednesday) {
			return []Slot{
				mari.work(c.Hours, models.ShiftStandard),
				yolanda.work(fuenfrescaOverlap, models.ShiftReinforcement),
			}
		}
		return []Slot{yolanda.work(c.Hours, models.ShiftStandard)}
	}

	// Yolanda has the weekend: Mari Tue, Thu, Yolanda Mon, Wed, Fri with Mari overlapping
	if c.Day.Is(time.Tuesday, time.Thursday) {
		return []Slot{mari.work(c.Hours, models.ShiftStandard)}
	}
	return []Slot{
		yolanda.work(c.Hours, models.ShiftStandard),
		mari.work(fuenfrescaOverlap, models.ShiftReinforcement),
	}
}

// sanJuan: Ángela 30h, Isabel 20h alternate weekends.
func sanJuan(c Context) []Slot {
	angela := c.Staff.Member("ANGELA")
	isabel := c.Staff.Member("ISABEL")

	if c.Day.IsWeekendOrHoliday() {
		return []Slot{pick(c.Day.IsEvenWeek, isabel, angela).work(c.Hours, c.mainType())}
	}

	if c.Day.IsEvenWeek {
		slots := []Slot{angela.work(c.Hours, models.ShiftStandard)}
		if c.Day.Is(time.Wednesday) {
			slots = append(slots, isabel.work(sanJuanReinforcement, models.ShiftReinforcement))
		}
		return slots
	}

	slots := []Slot{pick(c.Day.Is(time.Monday, time.Wednesday, time.Friday), angela, isabel).work(c.Hours, models.ShiftStandard)}
	if c.Day.Is(time.Friday) {
		slots = append(slots, isabel.work(sanJuanReinforcement, models.ShiftReinforcement))
	}
	return slots
}

// generic is the fallback for stores without a modeled rota
func generic(Context) []Slot {
	return nil
}
