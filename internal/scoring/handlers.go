package scoring

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmehra/safescore/internal/logging"
)

// Handler provides the HTTP endpoints over the scoring service.
type Handler struct {
	service *Service
}

// NewHandler creates a new scoring handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up the scoring routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/predict/safety", h.PredictSafety)
	r.POST("/predict/simulate", h.Simulate)
	r.GET("/trends", h.Trends)
	r.GET("/leaderboard", h.Leaderboard)
}

// SafetyRequest asks for the score of a state and year present in the
// dataset. The supported year range is enforced here; the core treats the
// year as opaque.
type SafetyRequest struct {
	State string `json:"state" binding:"required"`
	Year  int    `json:"year" binding:"required,gte=2001,lte=2025"`
}

// SimulateRequest carries custom crime counts for what-if scoring. Counts
// are pointers so that an explicit 0 passes "required" while a missing
// field does not.
type SimulateRequest struct {
	Year             int  `json:"year" binding:"required,gte=2001,lte=2025"`
	Rape             *int `json:"rape" binding:"required,gte=0"`
	Kidnapping       *int `json:"kidnapping" binding:"required,gte=0"`
	DowryDeaths      *int `json:"dowry_deaths" binding:"required,gte=0"`
	AssaultOnWomen   *int `json:"assault_on_women" binding:"required,gte=0"`
	AssaultOnMinors  *int `json:"assault_on_minors" binding:"required,gte=0"`
	DomesticViolence *int `json:"domestic_violence" binding:"required,gte=0"`
	Trafficking      *int `json:"trafficking" binding:"required,gte=0"`
}

// PredictSafety handles POST /v1/predict/safety
func (h *Handler) PredictSafety(c *gin.Context) {
	var req SafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "state and year (2001-2025) are required",
		})
		return
	}

	res, err := h.service.ScoreStateYear(c.Request.Context(), req.State, req.Year)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":        req.State,
		"year":         req.Year,
		"safety_score": res.Score,
		"risk_level":   res.Risk,
	})
}

// Simulate handles POST /v1/predict/simulate
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "year (2001-2025) and all seven crime counts (>= 0) are required",
		})
		return
	}

	res, err := h.service.Simulate(c.Request.Context(), SimulationInput{
		Year:             req.Year,
		Rape:             *req.Rape,
		Kidnapping:       *req.Kidnapping,
		DowryDeaths:      *req.DowryDeaths,
		AssaultOnWomen:   *req.AssaultOnWomen,
		AssaultOnMinors:  *req.AssaultOnMinors,
		DomesticViolence: *req.DomesticViolence,
		Trafficking:      *req.Trafficking,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"safety_score": res.Score,
		"risk_level":   res.Risk,
	})
}

// Trends handles GET /v1/trends?state=...&crime=...
func (h *Handler) Trends(c *gin.Context) {
	state := c.Query("state")
	crime := c.Query("crime")
	if state == "" || crime == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "state and crime query parameters are required",
		})
		return
	}

	points, err := h.service.Trend(c.Request.Context(), state, crime)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state": state,
		"crime": crime,
		"data":  points,
	})
}

// Leaderboard handles GET /v1/leaderboard?year=...
func (h *Handler) Leaderboard(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "year must be an integer",
			})
			return
		}
		year = v
	}

	entries, err := h.service.Leaderboard(c.Request.Context(), year)
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
		"count":       len(entries),
	})
}

// renderError maps the semantic error kinds to HTTP responses. Predictor
// failures surface as a generic 500; the detail stays in the logs.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
	case errors.Is(err, ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_input", "message": err.Error()})
	default:
		logging.L(c.Request.Context()).Error("scoring request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
	}
}
