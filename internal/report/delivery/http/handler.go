package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopseed/shopseed/internal/report/query"
	"github.com/shopseed/shopseed/pkg/logger"
)

const defaultLimit = 10

// ReportHandler serves the read-only report endpoints consumed by external
// reporting and visualization tooling. It never mutates store state.
type ReportHandler struct {
	queries *query.Queries

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewReportHandler creates a new report handler
func NewReportHandler(queries *query.Queries) *ReportHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_service_requests_total",
			Help: "Total number of requests to the report service",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "report_service_request_duration_seconds",
			Help:    "Request latency of the report service",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)

	return &ReportHandler{
		queries:        queries,
		requestCounter: requestCounter,
		requestLatency: requestLatency,
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ReportHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// CategoryTree handles GET /reports/categories/tree
func (h *ReportHandler) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.queries.CategoryTree()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(tree))
}

// TopProducts handles GET /reports/products/top
func (h *ReportHandler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.queries.TopRatedProducts(limitParam(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsCSV(r) {
		h.respondCSV(w, "top_products.csv", query.TopProductsTable(products))
		return
	}
	h.respondJSON(w, http.StatusOK, products)
}

// LowStock handles GET /reports/products/low-stock
func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.queries.LowStockProducts(limitParam(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, products)
}

// RecentOrders handles GET /reports/orders/recent
func (h *ReportHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.queries.RecentOrders(limitParam(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsCSV(r) {
		h.respondCSV(w, "recent_orders.csv", query.RecentOrdersTable(orders))
		return
	}
	h.respondJSON(w, http.StatusOK, orders)
}

// OrderSummaries handles GET /reports/orders/summaries
func (h *ReportHandler) OrderSummaries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.OrderSummaries(limitParam(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsCSV(r) {
		h.respondCSV(w, "order_summaries.csv", query.OrderSummariesTable(rows))
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}

// SalesByCategory handles GET /reports/sales-by-category
func (h *ReportHandler) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.SalesByCategory()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsCSV(r) {
		h.respondCSV(w, "sales_by_category.csv", query.CategorySalesTable(rows))
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}

// Reviews handles GET /reports/reviews
func (h *ReportHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	rows, err := h.queries.ReviewDetails(limitParam(r))
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if wantsCSV(r) {
		h.respondCSV(w, "reviews.csv", query.ReviewDetailsTable(rows))
		return
	}
	h.respondJSON(w, http.StatusOK, rows)
}

// Stats handles GET /reports/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.queries.StoreStats()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, stats)
}

// Health handles GET /health
func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// respondJSON sends a JSON response
func (h *ReportHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func (h *ReportHandler) respondError(w http.ResponseWriter, status int, message string) {
	logger.Error().Int("status", status).Str("error", message).Msg("report request failed")
	h.respondJSON(w, status, map[string]string{"error": message})
}

// respondCSV sends a tabular result as a CSV attachment
func (h *ReportHandler) respondCSV(w http.ResponseWriter, filename string, table query.Table) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if err := table.WriteCSV(w); err != nil {
		logger.Error().Err(err).Msg("failed to write CSV response")
	}
}

func wantsCSV(r *http.Request) bool {
	return r.URL.Query().Get("format") == "csv"
}

func limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultLimit
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports/categories/tree", h.metricsMiddleware("/reports/categories/tree", h.CategoryTree)).Methods("GET")
	router.HandleFunc("/reports/products/top", h.metricsMiddleware("/reports/products/top", h.TopProducts)).Methods("GET")
	router.HandleFunc("/reports/products/low-stock", h.metricsMiddleware("/reports/products/low-stock", h.LowStock)).Methods("GET")
	router.HandleFunc("/reports/orders/recent", h.metricsMiddleware("/reports/orders/recent", h.RecentOrders)).Methods("GET")
	router.HandleFunc("/reports/orders/summaries", h.metricsMiddleware("/reports/orders/summaries", h.OrderSummaries)).Methods("GET")
	router.HandleFunc("/reports/sales-by-category", h.metricsMiddleware("/reports/sales-by-category", h.SalesByCategory)).Methods("GET")
	router.HandleFunc("/reports/reviews", h.metricsMiddleware("/reports/reviews", h.Reviews)).Methods("GET")
	router.HandleFunc("/reports/stats", h.metricsMiddleware("/reports/stats", h.Stats)).Methods("GET")
	router.HandleFunc("/health", h.Health).Methods("GET")
}
