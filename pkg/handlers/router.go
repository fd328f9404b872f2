package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is reported by the service banner
const Version = "1.0.0"

// SetupRouter registers every route on a new engine
func SetupRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Store Shift Planner API",
			"version": Version,
		})
	})
	r.GET("/health", h.Health)
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)

		admin.POST("/holidays", h.AddHoliday)
		admin.DELETE("/holidays/:id", h.RemoveHoliday)
		admin.POST("/substitutions", h.AssignSubstitute)
		admin.POST("/absences", h.RecordAbsence)
	}

	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	api.GET("/usage", h.GetMyUsage)

	planner := api.Group("")
	planner.Use(h.QuotaMiddleware())
	{
		planner.GET("/stores", h.ListStores)
		planner.GET("/stores/:id/employees", h.ListStoreEmployees)
		planner.GET("/stores/:id/shifts", h.StoreShifts)
		planner.GET("/stores/:id/schedule", h.StoreSchedule)
		planner.GET("/stores/:id/schedule.xlsx", h.StoreScheduleXLSX)
		planner.POST("/substitutes", h.FindSubstitutes)
		planner.GET("/available", h.Available)
		planner.GET("/holidays", h.ListHolidays)
	}

	return r
}
