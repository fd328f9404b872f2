package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Employee belongs to one home store and has weekly contracted hours
type Employee struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	StoreID     uint            `gorm:"index" json:"store_id"`
	WeeklyHours decimal.Decimal `gorm:"type:decimal(5,2)" json:"weekly_hours"`
	Rules       string          `gorm:"type:text" json:"rules"` // informational only
}

// TableName keeps the original schema name
func (Employee) TableName() string {
	return "employees"
}

// HasRule reports whether the free-text rules mention token, case-insensitively
func (e Employee) HasRule(token string) bool {
	return strings.Contains(strings.ToLower(e.Rules), strings.ToLower(token))
}
