package database

import (
	"context"
	"fmt"

	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedEmployee struct {
	name  string
	hours string
	rules string
}

type seedStore struct {
	store     models.Store
	employees []seedEmployee
}

var seedData = []seedStore{
	{
		store: models.Store{
			Name: "San Julián", Profile: models.ProfileSanJulian,
			OpenWeekday: "08:00", CloseWeekday: "14:30",
			OpenSaturday: "08:00", CloseSaturday: "14:30",
			OpenSunday: "08:00", CloseSunday: "14:30",
		},
		employees: []seedEmployee{
			{"Carmen", "35", "35h semanales"},
			{"Natalia", "30", "30h semana, miércoles va a Av. Aragón"},
			{"Marianis", "5", "5h semana, refuerzo domingos y miércoles"},
		},
	},
	{
		store: models.Store{
			Name: "Castralvo", Profile: models.ProfileCastralvo,
			OpenWeekday: "07:00", CloseWeekday: "15:00",
			OpenSaturday: "07:00", CloseSaturday: "15:00",
			OpenSunday: "07:00", CloseSunday: "15:00",
		},
		employees: []seedEmployee{
			{"Mar", "40", "40h semanales"},
			{"Rosa", "40", "40h semanales"},
			{"Esther M.", "30", "30h semanales"},
			{"Lara", "6.5", "6.5h semana, findes alternos"},
		},
	},
	{
		store: models.Store{
			Name: "Fuenfresca", Profile: models.ProfileFuenfresca,
			OpenWeekday: "07:30", CloseWeekday: "14:30",
			OpenSaturday: "07:30", CloseSaturday: "14:30",
			OpenSunday: "07:30", CloseSunday: "14:30",
		},
		employees: []seedEmployee{
			{"Yolanda", "35", "35h semanales"},
			{"Mari", "30", "30h semanales"},
			{"Judith", "5", "5h semana, findes alternos refuerzo"},
			{"Paola", "5", "5h semana, findes alternos refuerzo"},
		},
	},
	{
		store: models.Store{
			Name: "San Juan", Profile: models.ProfileSanJuan,
			OpenWeekday: "09:00", CloseWeekday: "15:15",
			OpenSaturday: "09:00", CloseSaturday: "14:45",
			OpenSunday: "09:30", CloseSunday: "14:45",
		},
		employees: []seedEmployee{
			{"Ángela", "30", "30h semanales"},
			{"Isabel", "20", "20h semanales"},
		},
	},
	{
		store: models.Store{
			Name: "Av. Aragón", Profile: models.ProfileAvAragon,
			OpenWeekday: "08:00", CloseWeekday: "14:15",
			OpenSaturday: "07:30", CloseSaturday: "14:15",
			OpenSunday: "08:30", CloseSunday: "14:15",
		},
		employees: []seedEmployee{
			{"Esther P", "25", "25h semanales"},
			{"M. Jose", "20", "20h semanales"},
		},
	},
	{
		store: models.Store{
			Name: "Sta. Amalia", Profile: models.ProfileStaAmalia,
			OpenWeekday: "07:30", CloseWeekday: "14:45",
			OpenSaturday: "08:00", CloseSaturday: "14:45",
			OpenSunday: "08:00", CloseSunday: "14:45",
		},
		employees: []seedEmployee{
			{"Asun", "40", "40h semanales"},
			{"Bea", "30", "30h semanales, refuerzo con Asun"},
			{"Imán", "13", "13h semana, refuerzo findes alternos"},
			{"Clara", "5", "5h semana, findes alternos refuerzo"},
		},
	},
}

// Seed inserts the six stores and their staff. Rows are matched by name, so
// running it twice changes nothing.
func Seed(ctx context.Context, db *gorm.DB, log *logrus.Entry) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sd := range seedData {
			store := sd.store
			res := tx.Where(models.Store{Name: store.Name}).Attrs(store).FirstOrCreate(&store)
			if res.Error != nil {
				return fmt.Errorf("seed store %s: %w", sd.store.Name, res.Error)
			}
			if res.RowsAffected > 0 {
				log.WithField("store", store.Name).Info("Seeded store")
			}

			for _, se := range sd.employees {
				hours, err := decimal.NewFromString(se.hours)
				if err != nil {
					return fmt.Errorf("seed employee %s: %w", se.name, err)
				}
				emp := models.Employee{Name: se.name, StoreID: store.ID, WeeklyHours: hours, Rules: se.rules}
				res := tx.Where(models.Employee{Name: se.name, StoreID: store.ID}).Attrs(emp).FirstOrCreate(&emp)
				if res.Error != nil {
					return fmt.Errorf("seed employee %s: %w", se.name, res.Error)
				}
				if res.RowsAffected > 0 {
					log.WithFields(logrus.Fields{"store": store.Name, "employee": emp.Name}).Debug("Seeded employee")
				}
			}
		}
		return nil
	})
}
