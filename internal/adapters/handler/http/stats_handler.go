package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ritmoapp/ritmo-engine/internal/adapters/handler/http/middleware"
	"github.com/ritmoapp/ritmo-engine/internal/core/domain"
	"github.com/ritmoapp/ritmo-engine/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/habits/:id/streak", h.GetHabitStreak)
	r.GET("/habits/:id/stats", h.GetHabitStats)
	r.GET("/stats/overview", h.GetOverview)
}

const maxWindowDays = 366

// statsInput parses the shared query parameters: date (YYYY-MM-DD, default
// today), window (days), weeks (trend length).
func statsInput(c *gin.Context, userID string) (domain.StatsInput, bool) {
	input := domain.StatsInput{
		UserID:        userID,
		ReferenceDate: time.Now().UTC(),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
			return input, false
		}
		input.ReferenceDate = date
	}

	if windowStr := c.Query("window"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil || window < 1 || window > maxWindowDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "window must be between 1 and 366 days"})
			return input, false
		}
		input.WindowDays = window
	}

	if weeksStr := c.Query("weeks"); weeksStr != "" {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil || weeks < 1 || weeks > 52 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weeks must be between 1 and 52"})
			return input, false
		}
		input.TrendWeeks = weeks
	}

	return input, true
}

// GetHabitStreak godoc
// @Summary      Current and longest streak for one habit
// @Tags         stats
// @Produce      json
// @Param        id path string true "habit id"
// @Param        date query string false "reference date (YYYY-MM-DD)"
// @Success      200 {object} engine.StreakResult
// @Security     BearerAuth
// @Router       /habits/{id}/streak [get]
func (h *StatsHandler) GetHabitStreak(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input, ok := statsInput(c, userID)
	if !ok {
		return
	}

	streak, err := h.svc.GetHabitStreak(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, streak)
}

// GetHabitStats godoc
// @Summary      Streaks, completion rate and weekly trend for one habit
// @Tags         stats
// @Produce      json
// @Param        id path string true "habit id"
// @Param        date query string false "reference date (YYYY-MM-DD)"
// @Param        window query int false "trailing window in days"
// @Param        weeks query int false "trend length in weeks"
// @Success      200 {object} domain.HabitStats
// @Security     BearerAuth
// @Router       /habits/{id}/stats [get]
func (h *StatsHandler) GetHabitStats(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input, ok := statsInput(c, userID)
	if !ok {
		return
	}

	stats, err := h.svc.GetHabitStats(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "habit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetOverview godoc
// @Summary      Dashboard across all active habits
// @Tags         stats
// @Produce      json
// @Param        date query string false "reference date (YYYY-MM-DD)"
// @Param        window query int false "trailing window in days"
// @Success      200 {object} domain.Overview
// @Security     BearerAuth
// @Router       /stats/overview [get]
func (h *StatsHandler) GetOverview(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	input, ok := statsInput(c, userID)
	if !ok {
		return
	}

	overview, err := h.svc.GetOverview(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve statistics"})
		return
	}

	c.JSON(http.StatusOK, overview)
}
