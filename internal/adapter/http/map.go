package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/city-temp-map/internal/domain"
	"github.com/couchcryptid/city-temp-map/internal/field"
	"github.com/couchcryptid/city-temp-map/internal/observability"
)

//go:embed index.html
var indexHTML []byte

// maxCanvasDim caps requested raster dimensions so one request cannot
// ask for an arbitrarily expensive render.
const maxCanvasDim = 4096

// NewMapServer creates the full map-serving surface: the Leaflet page,
// the dataset JSON, the render endpoints, and the ops routes. The
// renderer may be wrapped in a cache; the gradient draws the legend.
func NewMapServer(addr string, ds *domain.Dataset, renderer field.ImageRenderer, gradient field.Gradient, metrics *observability.Metrics, logger *slog.Logger) *Server {
	metrics.DatasetCities.Set(float64(ds.Len()))

	h := &mapHandlers{
		dataset:  ds,
		renderer: renderer,
		gradient: gradient,
		metrics:  metrics,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/dataset", h.handleDataset)
	mux.HandleFunc("GET /api/field.png", h.handleField)
	mux.HandleFunc("GET /api/legend.png", h.handleLegend)
	mux.HandleFunc("GET /api/chart.png", h.handleChart)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(datasetReadiness{ds: ds}))
	mux.Handle("GET /metrics", promhttp.Handler())
	return newServer(addr, mux, logger)
}

// datasetReadiness gates readyz on the dataset: a server that loaded
// nothing renders nothing useful.
type datasetReadiness struct {
	ds *domain.Dataset
}

func (r datasetReadiness) CheckReadiness(_ context.Context) error {
	if r.ds.Len() == 0 {
		return errors.New("dataset is empty")
	}
	return nil
}

type mapHandlers struct {
	dataset  *domain.Dataset
	renderer field.ImageRenderer
	gradient field.Gradient
	metrics  *observability.Metrics
	logger   *slog.Logger
}

func (h *mapHandlers) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML) //nolint:errcheck // client gone mid-page is not actionable
}

func (h *mapHandlers) handleDataset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.dataset)
}

func (h *mapHandlers) handleField(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	vp, month, err := parseFieldQuery(r)
	if err != nil {
		h.metrics.RenderRequests.WithLabelValues("field", "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	img, err := h.renderer.Render(h.dataset, month, vp)
	if err != nil {
		h.metrics.RenderRequests.WithLabelValues("field", "error").Inc()
		h.logger.Error("field render failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}

	h.metrics.RenderRequests.WithLabelValues("field", "ok").Inc()
	h.metrics.RenderDuration.WithLabelValues("field").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		h.logger.Error("field png encode failed", "error", err)
	}
}

func (h *mapHandlers) handleLegend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	width := intParamOr(q.Get("width"), 260)
	height := intParamOr(q.Get("height"), 14)
	if width < 2 || height < 1 || width > maxCanvasDim || height > maxCanvasDim {
		h.metrics.RenderRequests.WithLabelValues("legend", "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "legend size out of range"})
		return
	}

	img := h.gradient.LegendImage(width, height)

	h.metrics.RenderRequests.WithLabelValues("legend", "ok").Inc()
	h.metrics.RenderDuration.WithLabelValues("legend").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	// The ramp is fixed for the life of the process.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if err := png.Encode(w, img); err != nil {
		h.logger.Error("legend png encode failed", "error", err)
	}
}

func (h *mapHandlers) handleChart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	city := q.Get("city")
	if city == "" {
		h.metrics.RenderRequests.WithLabelValues("chart", "bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "city parameter is required"})
		return
	}

	rec, ok := h.dataset.Find(city, q.Get("country"))
	if !ok {
		h.metrics.RenderRequests.WithLabelValues("chart", "not_found").Inc()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("city %q not in dataset", city)})
		return
	}

	buf, err := renderCityChart(rec)
	if err != nil {
		h.metrics.RenderRequests.WithLabelValues("chart", "error").Inc()
		h.logger.Error("chart render failed", "city", rec.City, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "chart render failed"})
		return
	}

	h.metrics.RenderRequests.WithLabelValues("chart", "ok").Inc()
	h.metrics.RenderDuration.WithLabelValues("chart").Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes()) //nolint:errcheck // nothing to salvage from a write error here
}

func parseFieldQuery(r *http.Request) (field.Viewport, domain.Month, error) {
	q := r.URL.Query()

	west, err := parseFloatParam(q.Get("west"), "west")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	south, err := parseFloatParam(q.Get("south"), "south")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	east, err := parseFloatParam(q.Get("east"), "east")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	north, err := parseFloatParam(q.Get("north"), "north")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	width, err := parseIntParam(q.Get("width"), "width")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	height, err := parseIntParam(q.Get("height"), "height")
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	if width > maxCanvasDim || height > maxCanvasDim {
		return field.Viewport{}, domain.Yearly,
			fmt.Errorf("canvas %dx%d exceeds the %d px limit", width, height, maxCanvasDim)
	}

	vp := field.Viewport{West: west, South: south, East: east, North: north, Width: width, Height: height}
	if err := vp.Validate(); err != nil {
		return field.Viewport{}, domain.Yearly, err
	}

	month, err := domain.ParseMonth(q.Get("month"))
	if err != nil {
		return field.Viewport{}, domain.Yearly, err
	}
	return vp, month, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return v, nil
}

func parseIntParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, raw)
	}
	return v, nil
}

func intParamOr(raw string, def int) int {
	if raw == "" {
		return def
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}
