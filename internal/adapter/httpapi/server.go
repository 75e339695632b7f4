// Package httpapi serves the submission endpoint, the JSON history API, and
// the operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecowatch/ecoscore-service/internal/domain"
	"github.com/ecowatch/ecoscore-service/internal/observability"
	"github.com/ecowatch/ecoscore-service/internal/pipeline"
	"github.com/ecowatch/ecoscore-service/internal/store"
)

// timestampLayout is the wire format the dashboard consumes.
const timestampLayout = "2006-01-02 15:04:05"

// Server exposes the scoring and history endpoints over a chi router.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type handlers struct {
	pipeline     *pipeline.Pipeline
	store        store.Store
	logger       *slog.Logger
	metrics      *observability.Metrics
	defaultLimit int
}

// NewServer builds the router over the shared pipeline and store.
func NewServer(addr string, p *pipeline.Pipeline, st store.Store, logger *slog.Logger, metrics *observability.Metrics, defaultLimit int) *Server {
	h := &handlers{
		pipeline:     p,
		store:        st,
		logger:       logger,
		metrics:      metrics,
		defaultLimit: defaultLimit,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/predict", h.handlePredict)
	r.Route("/api", func(r chi.Router) {
		r.Get("/historico", h.handleHistorico)
		r.Get("/ultimo", h.handleUltimo)
	})
	r.Get("/healthz", h.handleHealth)
	r.Get("/readyz", h.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type predictResponse struct {
	ID              int64                   `json:"id"`
	Ecoscore        float64                 `json:"ecoscore"`
	Category        domain.Category         `json:"categoria"`
	Recommendations []domain.Recommendation `json:"recomendaciones"`
	Inputs          domain.FeatureVector    `json:"inputs"`
}

type historyItem struct {
	ID        int64   `json:"id"`
	Ecoscore  float64 `json:"ecoscore"`
	Timestamp string  `json:"timestamp"`
}

func (h *handlers) handlePredict(w http.ResponseWriter, r *http.Request) {
	raw, err := readInputs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Cuerpo de la petición inválido",
		})
		return
	}

	inputs, err := h.pipeline.ParseInputs(raw)
	if err != nil {
		h.metrics.PredictionErrors.Inc()
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Valor inválido para " + verr.Field,
				"field": verr.Field,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result := h.pipeline.Evaluate(inputs)
	h.metrics.PredictionsTotal.WithLabelValues("http").Inc()

	saved, err := h.store.Save(r.Context(), domain.NewPrediction(inputs, result.Ecoscore))
	if err != nil {
		h.logger.Error("prediction save failed", "error", err)
		h.metrics.PersistenceErrors.Inc()
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "No se pudo guardar la predicción. Inténtalo de nuevo.",
		})
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		ID:              saved.ID,
		Ecoscore:        result.Ecoscore,
		Category:        result.Category,
		Recommendations: result.Recommendations,
		Inputs:          result.Inputs,
	})
}

func (h *handlers) handleHistorico(w http.ResponseWriter, r *http.Request) {
	limit := h.defaultLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "Valor inválido para limit",
				"field": "limit",
			})
			return
		}
		limit = n
	}

	rows, err := h.store.Latest(r.Context(), limit)
	if err != nil {
		h.logger.Error("history query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "No se pudo consultar el histórico.",
		})
		return
	}

	items := make([]historyItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, historyItem{
			ID:        p.ID,
			Ecoscore:  p.Ecoscore,
			Timestamp: p.Timestamp.Format(timestampLayout),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"historico": items})
}

func (h *handlers) handleUltimo(w http.ResponseWriter, r *http.Request) {
	p, ok, err := h.store.Last(r.Context())
	if err != nil {
		h.logger.Error("latest query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "No se pudo consultar la última predicción.",
		})
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "sin_datos"})
		return
	}
	writeJSON(w, http.StatusOK, historyItem{
		ID:        p.ID,
		Ecoscore:  p.Ecoscore,
		Timestamp: p.Timestamp.Format(timestampLayout),
	})
}

func (h *handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// readInputs accepts the HTML form encoding or a JSON object; both carry
// the seven named features, as strings or numbers.
func readInputs(r *http.Request) (map[string]string, error) {
	raw := make(map[string]string, domain.FeatureCount)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		for k, v := range body {
			switch val := v.(type) {
			case string:
				raw[k] = val
			case float64:
				raw[k] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		}
		return raw, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k, vs := range r.PostForm {
		if len(vs) > 0 {
			raw[k] = vs[0]
		}
	}
	return raw, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
