package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pivotreport/internal/config"
	"pivotreport/internal/engine"
	"pivotreport/internal/models"
)

var errLoading = echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")

type Handler struct {
	store *engine.Store
	pivot config.PivotConfig
	log   *zap.Logger
}

func NewHandler(store *engine.Store, pivot config.PivotConfig, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, pivot: pivot, log: log}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/dimensions", h.GetDimensions)
	api.GET("/records", h.GetRecords)
	api.GET("/pivot", h.GetPivot)
	api.POST("/pivot", h.PostPivot)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dataset returns the loaded records, or the HTTP error for a load that is
// still running or has failed.
func (h *Handler) dataset() ([]models.Record, error) {
	if err := h.store.Err(); err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset failed to load").SetInternal(err)
	}
	recs, ready := h.store.Records()
	if !ready {
		return nil, errLoading
	}
	return recs, nil
}

func (h *Handler) Health(c echo.Context) error {
	if err := h.store.Err(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "failed",
			"error":  err.Error(),
		})
	}
	recs, ready := h.store.Records()
	status := "ok"
	if !ready {
		status = "loading"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": status,
		"rows":   len(recs),
	})
}

// GetDimensions lists what a pivot request may select.
func (h *Handler) GetDimensions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"dimensions":   h.pivot.Dimensions,
		"fields":       h.store.Fields(),
		"valueField":   h.pivot.ValueField,
		"aggregations": []models.Aggregation{models.AggSum, models.AggCount, models.AggAvg, models.AggMin, models.AggMax},
	})
}

func (h *Handler) GetRecords(c echo.Context) error {
	recs, err := h.dataset()
	if err != nil {
		return err
	}
	total := len(recs)
	limit, offset := getPaginationParams(c, 100)

	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data": []models.Record{}, "total": total, "limit": limit, "offset": offset,
		})
	}

	end := offset + limit
	if end > total {
		end = total
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   recs[offset:end],
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPivot pivots the loaded dataset.
// Query: row=year&col=status&col=transaction_type (or cols=status,transaction_type)&value=amount&agg=sum
func (h *Handler) GetPivot(c echo.Context) error {
	cols := append([]string(nil), c.QueryParams()["col"]...)
	for _, part := range strings.Split(c.QueryParam("cols"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			cols = append(cols, part)
		}
	}

	dc := models.DimensionConfig{
		RowDimension:     c.QueryParam("row"),
		ColumnDimensions: cols,
		ValueField:       c.QueryParam("value"),
		Aggregation:      models.Aggregation(c.QueryParam("agg")),
	}

	recs, err := h.dataset()
	if err != nil {
		return err
	}
	return h.respondPivot(c, dc, recs)
}

type pivotRequest struct {
	models.DimensionConfig
	Records []models.Record `json:"records,omitempty"`
}

// PostPivot pivots inline records when given, else the loaded dataset.
func (h *Handler) PostPivot(c echo.Context) error {
	var req pivotRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	recs := req.Records
	if recs == nil {
		var err error
		if recs, err = h.dataset(); err != nil {
			return err
		}
	}
	return h.respondPivot(c, req.DimensionConfig, recs)
}

func (h *Handler) respondPivot(c echo.Context, dc models.DimensionConfig, recs []models.Record) error {
	if dc.Aggregation != "" {
		agg, err := models.ParseAggregation(string(dc.Aggregation))
		if err != nil {
			return badRequest(err)
		}
		dc.Aggregation = agg
	}
	dc = h.pivot.Defaults(dc)

	if err := dc.Validate(h.pivot.Dimensions); err != nil {
		return badRequest(err)
	}

	t0 := time.Now()
	res := engine.ComputePivot(recs, dc)
	h.log.Debug("pivot computed",
		zap.String("row", dc.RowDimension),
		zap.Strings("columns", dc.ColumnDimensions),
		zap.String("aggregation", string(dc.Aggregation)),
		zap.Int("records", len(recs)),
		zap.Int("cells", len(res.Rows)*len(res.Columns)),
		zap.Duration("elapsed", time.Since(t0)))

	return respondJSON(c, http.StatusOK, res)
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}
