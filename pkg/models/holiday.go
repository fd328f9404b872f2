package models

// Holiday is a dated closure or special opening
type Holiday struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Date string `gorm:"uniqueIndex;not null" json:"date"` // YYYY-MM-DD
	Name string `gorm:"not null" json:"name"`
}

// TableName keeps the original schema name
func (Holiday) TableName() string {
	return "holidays"
}
