package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/hornossanz/shift-planner/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and writes the roster, holidays and schedule records
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps a gorm connection
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying connection for transactions spanning repositories
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// ListStores returns every store ordered by id
func (r *Repository) ListStores(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).Order("id").Find(&stores).Error; err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// GetStore returns a store or ErrNotFound
func (r *Repository) GetStore(ctx context.Context, id uint) (models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, id).Error; err != nil {
		return models.Store{}, notFound("store", err)
	}
	return store, nil
}

// ListEmployees returns the whole system's roster ordered by id
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).Order("id").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// ListEmployeesByStore returns one store's roster ordered by id
func (r *Repository) ListEmployeesByStore(ctx context.Context, storeID uint) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).Order("id").Find(&employees).Error
	if err != nil {
		return nil, fmt.Errorf("list employees of store %d: %w", storeID, err)
	}
	return employees, nil
}

// GetEmployee returns an employee or ErrNotFound
func (r *Repository) GetEmployee(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, id).Error; err != nil {
		return models.Employee{}, notFound("employee", err)
	}
	return employee, nil
}

// ListHolidays returns holidays ordered by date
func (r *Repository) ListHolidays(ctx context.Context) ([]models.Holiday, error) {
	var holidays []models.Holiday
	if err := r.db.WithContext(ctx).Order("date asc").Find(&holidays).Error; err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// AddHoliday inserts a holiday, ignoring dates that already have one
func (r *Repository) AddHoliday(ctx context.Context, date, name string) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, DoNothing: true}).
		Create(&models.Holiday{Date: date, Name: name}).Error
	if err != nil {
		return fmt.Errorf("add holiday %s: %w", date, err)
	}
	return nil
}

// RemoveHoliday deletes a holiday by id
func (r *Repository) RemoveHoliday(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Holiday{}, id)
	if res.Error != nil {
		return fmt.Errorf("remove holiday %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("holiday %d: %w", id, ErrNotFound)
	}
	return nil
}

// ListRecordsByDate returns every schedule record of a date, all stores
func (r *Repository) ListRecordsByDate(ctx context.Context, date string) ([]models.ScheduleRecord, error) {
	var records []models.ScheduleRecord
	if err := r.db.WithContext(ctx).Where("date = ?", date).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list schedule records of %s: %w", date, err)
	}
	return records, nil
}

// ListRecordsByStoreAndDate returns the schedule records of one store and date
func (r *Repository) ListRecordsByStoreAndDate(ctx context.Context, storeID uint, date string) ([]models.ScheduleRecord, error) {
	var records []models.ScheduleRecord
	err := r.db.WithContext(ctx).Where("store_id = ? AND date = ?", storeID, date).Order("id").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list schedule records of store %d on %s: %w", storeID, date, err)
	}
	return records, nil
}

// CreateRecords inserts schedule records atomically
func (r *Repository) CreateRecords(ctx context.Context, records ...models.ScheduleRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("create %s record for employee %d: %w", records[i].Kind, records[i].EmployeeID, err)
			}
		}
		return nil
	})
}

func notFound(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}
