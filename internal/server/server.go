package server

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flywave/go-geoid"
	"github.com/flywave/go-geoid/internal/version"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Models is the set of grids served.
type Models interface {
	geoid.Geoid
	Grid(name string) (*geoid.MemoryGrid, bool)
	Names() []string
}

// Options configures the handlers.
type Options struct {
	// DefaultModel answers requests that name no model. Empty means all
	// models are consulted by priority.
	DefaultModel string
	// MaxBatch limits the number of points of one batch request.
	MaxBatch int
}

// bytesPerPoint bounds the JSON size of one lng/lat pair in a batch body.
const bytesPerPoint = 64

func DefaultOptions() Options {
	return Options{MaxBatch: 10000}
}

// Handler serves height queries over HTTP.
type Handler struct {
	models Models
	opts   Options
}

func NewHandler(models Models, opts Options) *Handler {
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = DefaultOptions().MaxBatch
	}
	return &Handler{models: models, opts: opts}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())
	router.Use(middleware...)

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/models", h.ListModels)
		api.GET("/height", h.Height)
		api.POST("/heights", h.Heights)
	}
	return router
}

// RequestID tags every request with an ID, reusing the client's if given.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": version.Version,
		"models":  len(h.models.Names()),
	})
}

// ModelInfo describes a served grid.
type ModelInfo struct {
	Name    string     `json:"name"`
	Version string     `json:"version"`
	XNum    int        `json:"x_num"`
	YNum    int        `json:"y_num"`
	XDenom  int        `json:"x_denom"`
	YDenom  int        `json:"y_denom"`
	Bounds  [4]float64 `json:"bounds"` // min lng, min lat, max lng, max lat
}

func (h *Handler) ListModels(c *gin.Context) {
	names := h.models.Names()
	result := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		g, ok := h.models.Grid(name)
		if !ok {
			continue
		}
		info := g.GridInfo()
		b := info.Bounds()
		result = append(result, ModelInfo{
			Name:    name,
			Version: info.Version(),
			XNum:    info.XNum(),
			YNum:    info.YNum(),
			XDenom:  info.XDenom(),
			YDenom:  info.YDenom(),
			Bounds:  [4]float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]},
		})
	}
	c.JSON(http.StatusOK, gin.H{"models": result})
}

// resolve picks the grid a request asks for.
func (h *Handler) resolve(model string) (geoid.Geoid, bool) {
	if model == "" {
		model = h.opts.DefaultModel
	}
	if model == "" {
		return h.models, true
	}
	g, ok := h.models.Grid(model)
	if !ok {
		return nil, false
	}
	return g, true
}

// height converts NaN to nil, JSON has no NaN.
func height(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func (h *Handler) Height(c *gin.Context) {
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || math.IsNaN(lng) || math.IsInf(lng, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lng"})
		return
	}
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
		return
	}

	model := c.Query("model")
	g, ok := h.resolve(model)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown model " + strconv.Quote(model)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lng":    lng,
		"lat":    lat,
		"height": height(g.GetHeight(lng, lat)),
	})
}

// HeightsRequest is the body of a batch query.
type HeightsRequest struct {
	Lngs  []float64 `json:"lngs"`
	Lats  []float64 `json:"lats"`
	Model string    `json:"model"`
}

func (h *Handler) Heights(c *gin.Context) {
	limit := int64(h.opts.MaxBatch)*bytesPerPoint + 4096
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	var req HeightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if max(len(req.Lngs), len(req.Lats)) > h.opts.MaxBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many points"})
		return
	}

	g, ok := h.resolve(req.Model)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown model " + strconv.Quote(req.Model)})
		return
	}

	heights, err := geoid.Heights(g, req.Lngs, req.Lats)
	if err != nil {
		var mismatch *geoid.ErrLengthMismatch
		if errors.As(err, &mismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	result := make([]*float64, len(heights))
	for i, v := range heights {
		result[i] = height(v)
	}
	c.JSON(http.StatusOK, gin.H{"heights": result})
}
