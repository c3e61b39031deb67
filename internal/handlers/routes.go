package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// PreviewPath is where preview resources are served; MemoryPreviews should
// be created with it as base URL.
const PreviewPath = "/previews/"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestMetrics(reg prometheus.Registerer) mux.MiddlewareFunc {
	requests := promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "rosca_serve_requests_total",
		Help: "Companion server requests by route, method and status.",
	}, []string{"route", "method", "status"})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		})
	}
}

// Routes builds the companion server's HTTP handler. Metrics are registered
// on reg and exposed at /metrics.
func (h *Handler) Routes(reg *prometheus.Registry, corsOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(requestMetrics(reg))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/drafts", h.HandleCreateDraft).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}", h.HandleGetDraft).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{id}", h.HandleUpdateDraft).Methods(http.MethodPut)
	api.HandleFunc("/drafts/{id}", h.HandleDiscardDraft).Methods(http.MethodDelete)
	api.HandleFunc("/drafts/{id}/media", h.HandleAddMedia).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}/media/{index:[0-9]+}", h.HandleRemoveMedia).Methods(http.MethodDelete)
	api.HandleFunc("/drafts/{id}/submit", h.HandleSubmitDraft).Methods(http.MethodPost)

	api.HandleFunc("/profile", h.HandleProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile/load", h.HandleLoadProfile).Methods(http.MethodPost)
	api.HandleFunc("/profile/retry", h.HandleRetryProfile).Methods(http.MethodPost)
	api.HandleFunc("/profile/signout", h.HandleSignOut).Methods(http.MethodPost)
	api.HandleFunc("/rooms/{id}", h.HandleUpdateRoom).Methods(http.MethodPut)
	api.HandleFunc("/rooms/{id}", h.HandleDeleteRoom).Methods(http.MethodDelete)
	api.HandleFunc("/notifications", h.HandleNotifications).Methods(http.MethodGet)

	r.HandleFunc(PreviewPath+"{token}", h.HandlePreview).Methods(http.MethodGet)
	r.HandleFunc("/healthcheck", h.HandleHealthcheck).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}
