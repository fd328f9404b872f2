package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/export"
	"github.com/hornossanz/shift-planner/pkg/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListStores returns every store with its resolved profile
func (h *Handler) ListStores(c *gin.Context) {
	stores, err := h.Repo.ListStores(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Could not list stores")
		return
	}
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// ListStoreEmployees returns one store's roster
func (h *Handler) ListStoreEmployees(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.Orchestrator.Store(ctx, id); err != nil {
		h.fail(c, err, "Could not load store")
		return
	}
	employees, err := h.Repo.ListEmployeesByStore(ctx, id)
	if err != nil {
		h.fail(c, err, "Could not list employees")
		return
	}
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{"employees": employees})
}

// StoreShifts returns the shift plan of a store for one date
func (h *Handler) StoreShifts(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var q dateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, _ := calendar.ParseDate(q.Date)

	plan, err := h.Orchestrator.Plan(c.Request.Context(), id, date)
	if err != nil {
		h.fail(c, err, "Could not compute shifts")
		return
	}
	h.RecordUsage(c, len(plan.Shifts), 0)
	c.JSON(http.StatusOK, plan)
}

// scheduleRange resolves the view of a schedule request into plans
func (h *Handler) scheduleRange(c *gin.Context) (models.Store, []models.DayPlan, bool) {
	id, ok := paramID(c)
	if !ok {
		return models.Store{}, nil, false
	}
	var q scheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return models.Store{}, nil, false
	}
	date, _ := calendar.ParseDate(q.Date)

	var from, to time.Time
	if q.View == "month" {
		from, to = calendar.MonthBounds(date)
	} else {
		from, to = calendar.WeekBounds(date)
	}

	ctx := c.Request.Context()
	store, err := h.Orchestrator.Store(ctx, id)
	if err != nil {
		h.fail(c, err, "Could not load store")
		return models.Store{}, nil, false
	}
	plans, err := h.Orchestrator.Range(ctx, id, from, to)
	if err != nil {
		h.fail(c, err, "Could not compute schedule")
		return models.Store{}, nil, false
	}

	shifts := 0
	for _, p := range plans {
		shifts += len(p.Shifts)
	}
	h.RecordUsage(c, shifts, 0)
	return store, plans, true
}

// StoreSchedule returns a week or month of plans
func (h *Handler) StoreSchedule(c *gin.Context) {
	store, plans, ok := h.scheduleRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store, "days": plans})
}

// StoreScheduleXLSX returns a week or month of plans as a workbook
func (h *Handler) StoreScheduleXLSX(c *gin.Context) {
	store, plans, ok := h.scheduleRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSchedule(&buf, store, plans); err != nil {
		h.fail(c, err, "Could not build workbook")
		return
	}
	filename := fmt.Sprintf("horario-%d-%s.xlsx", store.ID, plans[0].Date)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// FindSubstitutes ranks free employees for a store and date
func (h *Handler) FindSubstitutes(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, _ := calendar.ParseDate(req.Date)

	window := calendar.TimeRange{Start: calendar.MustClock(req.Start), End: calendar.MustClock(req.End)}

	candidates, err := h.Finder.FindSubstitutes(c.Request.Context(), req.StoreID, date, window)
	if err != nil {
		// never hand back a partial list
		h.fail(c, err, "Could not compute substitutes")
		return
	}
	h.RecordUsage(c, 0, len(candidates))
	c.JSON(http.StatusOK, gin.H{
		"store_id":   req.StoreID,
		"date":       req.Date,
		"window":     window.String(),
		"candidates": candidates,
	})
}

// Available lists employees without any shift on a date
func (h *Handler) Available(c *gin.Context) {
	var q dateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, _ := calendar.ParseDate(q.Date)

	free, err := h.Finder.Available(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err, "Could not compute availability")
		return
	}
	h.RecordUsage(c, 0, len(free))
	c.JSON(http.StatusOK, gin.H{"date": q.Date, "employees": free})
}

// ListHolidays returns holidays ordered by date
func (h *Handler) ListHolidays(c *gin.Context) {
	holidays, err := h.Repo.ListHolidays(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Could not list holidays")
		return
	}
	h.RecordUsage(c, 0, 0)
	c.JSON(http.StatusOK, gin.H{"holidays": holidays})
}

// AddHoliday inserts a holiday; an existing date is left untouched
func (h *Handler) AddHoliday(c *gin.Context) {
	var req holidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Repo.AddHoliday(c.Request.Context(), req.Date, req.Name); err != nil {
		h.fail(c, err, "Could not add holiday")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Holiday saved"})
}

// RemoveHoliday deletes a holiday
func (h *Handler) RemoveHoliday(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Repo.RemoveHoliday(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Could not remove holiday")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holiday removed"})
}

// AssignSubstitute records the absence and the chosen substitute
func (h *Handler) AssignSubstitute(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, _ := calendar.ParseDate(req.Date)

	records, err := h.Assigner.AssignSubstitute(c.Request.Context(), req.OriginalID, req.SubstituteID, date)
	if err != nil {
		h.fail(c, err, "Could not assign substitute")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"records": records, "window": h.Assigner.Window().String()})
}

// RecordAbsence marks an employee absent for a day
func (h *Handler) RecordAbsence(c *gin.Context) {
	var req absenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, _ := calendar.ParseDate(req.Date)

	record, err := h.Assigner.RecordAbsence(c.Request.Context(), req.EmployeeID, date)
	if err != nil {
		h.fail(c, err, "Could not record absence")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": record})
}
