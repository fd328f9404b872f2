package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolveProfile(t *testing.T) {
	cases := map[string]StoreProfile{
		"San Julián":    ProfileSanJulian,
		"SAN JULIAN":    ProfileSanJulian,
		"Castralvo":     ProfileCastralvo,
		"Av. Aragón":    ProfileAvAragon,
		"Sta. Amalia":   ProfileStaAmalia,
		"SANTA AMALIA":  ProfileStaAmalia,
		"Fuenfresca":    ProfileFuenfresca,
		"San Juan":      ProfileSanJuan,
		"Teruel Centro": ProfileGeneric,
	}
	for name, want := range cases {
		assert.Equal(t, want, ResolveProfile(name), name)
	}
}

func TestStoreResolveProfileKeepsExplicitProfile(t *testing.T) {
	s := Store{Name: "San Julián", Profile: ProfileCastralvo}
	assert.Equal(t, ProfileCastralvo, s.ResolveProfile())

	s = Store{Name: "San Julián", Profile: "bogus"}
	assert.Equal(t, ProfileSanJulian, s.ResolveProfile())

	s = Store{Name: "Nueva"}
	assert.Equal(t, ProfileGeneric, s.ResolveProfile())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ANGELA", Normalize(" Ángela "))
	assert.Equal(t, "IMAN", Normalize("Imán"))
}

func TestScheduleKindIsOverride(t *testing.T) {
	assert.False(t, KindWork.IsOverride())
	assert.False(t, KindAbsence.IsOverride())
	assert.True(t, KindReinforcement.IsOverride())
	assert.True(t, KindSubstitution.IsOverride())
	assert.True(t, ScheduleKind("cover").IsOverride())
}

func TestEmployeeHasRule(t *testing.T) {
	e := Employee{Name: "Bea", WeeklyHours: decimal.NewFromInt(30), Rules: "30h semanales, REFUERZO con Asun"}
	assert.True(t, e.HasRule("refuerzo"))
	assert.False(t, e.HasRule("findes"))
}

func TestShiftTypeBuffered(t *testing.T) {
	assert.True(t, ShiftStandard.Buffered())
	assert.True(t, ShiftHolidayShift.Buffered())
	assert.False(t, ShiftReinforcement.Buffered())
	assert.False(t, ShiftHoliday.Buffered())
	assert.True(t, ClosedShift().IsClosed())
}
