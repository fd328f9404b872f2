package models

// ScheduleKind tags a persisted schedule record
type ScheduleKind string

const (
	// KindWork is legacy seed data, ignored by the shift engine
	KindWork ScheduleKind = "work"
	// KindAbsence removes the employee from that day's active roster
	KindAbsence ScheduleKind = "absence"
	// KindReinforcement is appended verbatim after the generated shifts
	KindReinforcement ScheduleKind = "reinforcement"
	// KindSubstitution is written by the substitute assignment workflow
	KindSubstitution ScheduleKind = "substitution"
)

// IsOverride reports whether the record is injected as an extra shift
func (k ScheduleKind) IsOverride() bool {
	return k != KindWork && k != KindAbsence
}

// ScheduleRecord is a persisted absence or override for one employee and date
type ScheduleRecord struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	EmployeeID uint         `gorm:"index" json:"employee_id"`
	StoreID    uint         `gorm:"index:idx_schedule_store_date" json:"store_id"`
	Date       string       `gorm:"index:idx_schedule_store_date;index;not null" json:"date"` // YYYY-MM-DD
	StartTime  string       `json:"start_time"`
	EndTime    string       `json:"end_time"`
	Kind       ScheduleKind `gorm:"column:type;size:32;default:work" json:"type"`
}

// TableName keeps the original schema name
func (ScheduleRecord) TableName() string {
	return "schedules"
}
