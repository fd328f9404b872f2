package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// StoreProfile identifies which rule set schedules a store
type StoreProfile string

const (
	ProfileGeneric    StoreProfile = "generic"
	ProfileSanJulian  StoreProfile = "san_julian"
	ProfileCastralvo  StoreProfile = "castralvo"
	ProfileAvAragon   StoreProfile = "av_aragon"
	ProfileStaAmalia  StoreProfile = "sta_amalia"
	ProfileFuenfresca StoreProfile = "fuenfresca"
	ProfileSanJuan    StoreProfile = "san_juan"
)

// profileTokens is checked in order; JULIAN must win over JUAN-like names
var profileTokens = []struct {
	token   string
	profile StoreProfile
}{
	{"JULIAN", ProfileSanJulian},
	{"CASTRALVO", ProfileCastralvo},
	{"ARAGON", ProfileAvAragon},
	{"AMALIA", ProfileStaAmalia},
	{"FUENFRESCA", ProfileFuenfresca},
	{"JUAN", ProfileSanJuan},
}

// Profiles lists every known profile, generic last
func Profiles() []StoreProfile {
	out := make([]StoreProfile, 0, len(profileTokens)+1)
	for _, pt := range profileTokens {
		out = append(out, pt.profile)
	}
	return append(out, ProfileGeneric)
}

// Valid reports whether p is a known profile
func (p StoreProfile) Valid() bool {
	for _, known := range Profiles() {
		if p == known {
			return true
		}
	}
	return false
}

// ResolveProfile maps a store display name to its profile
func ResolveProfile(name string) StoreProfile {
	normalized := Normalize(name)
	for _, pt := range profileTokens {
		if strings.Contains(normalized, pt.token) {
			return pt.profile
		}
	}
	return ProfileGeneric
}

// Normalize strips diacritics and upper-cases s
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

// Store is a shop with per-day-type opening hours. Empty Sunday hours mean closed Sundays.
type Store struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	Profile       StoreProfile `gorm:"size:32" json:"profile"`
	OpenWeekday   string       `gorm:"column:open_time_weekday" json:"open_time_weekday"`
	CloseWeekday  string       `gorm:"column:close_time_weekday" json:"close_time_weekday"`
	OpenSaturday  string       `gorm:"column:open_time_saturday" json:"open_time_saturday,omitempty"`
	CloseSaturday string       `gorm:"column:close_time_saturday" json:"close_time_saturday,omitempty"`
	OpenSunday    string       `gorm:"column:open_time_sunday" json:"open_time_sunday,omitempty"`
	CloseSunday   string       `gorm:"column:close_time_sunday" json:"close_time_sunday,omitempty"`
}

// TableName keeps the original schema name
func (Store) TableName() string {
	return "stores"
}

// AfterFind resolves the profile once when the row carries none
func (s *Store) AfterFind(tx *gorm.DB) error {
	s.ResolveProfile()
	return nil
}

// ResolveProfile fills an empty or unknown profile from the store name
func (s *Store) ResolveProfile() StoreProfile {
	if !s.Profile.Valid() {
		s.Profile = ResolveProfile(s.Name)
	}
	return s.Profile
}

// OpensSundays reports whether Sunday hours are configured
func (s Store) OpensSundays() bool {
	return s.OpenSunday != "" && s.CloseSunday != ""
}
