package handlers

import (
	"errors"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hornossanz/shift-planner/pkg/calendar"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the clock (HH:MM) and isodate (YYYY-MM-DD) tags to gin's validator
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("unexpected validator engine")
			return
		}
		if err := v.RegisterValidation("clock", validateClock); err != nil {
			registerErr = err
			return
		}
		registerErr = v.RegisterValidation("isodate", validateISODate)
	})
	return registerErr
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := calendar.ParseClock(fl.Field().String())
	return err == nil
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(fl.Field().String())
	return err == nil
}

// dateQuery is the ?date= parameter of day endpoints
type dateQuery struct {
	Date string `form:"date" binding:"required,isodate"`
}

// scheduleQuery selects a week or month around a date
type scheduleQuery struct {
	View string `form:"view" binding:"omitempty,oneof=week month"`
	Date string `form:"date" binding:"required,isodate"`
}

// substituteRequest asks for ranked substitutes to cover a window
type substituteRequest struct {
	StoreID uint   `json:"store_id" binding:"required"`
	Date    string `json:"date" binding:"required,isodate"`
	Start   string `json:"start" binding:"required,clock"`
	End     string `json:"end" binding:"required,clock"`
}

// assignmentRequest books a substitute for an absent employee
type assignmentRequest struct {
	OriginalID   uint   `json:"original_id" binding:"required"`
	SubstituteID uint   `json:"substitute_id" binding:"required"`
	Date         string `json:"date" binding:"required,isodate"`
}

// absenceRequest marks an employee absent for a day
type absenceRequest struct {
	EmployeeID uint   `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required,isodate"`
}

// holidayRequest adds a holiday
type holidayRequest struct {
	Date string `json:"date" binding:"required,isodate"`
	Name string `json:"name" binding:"required,max=120"`
}
