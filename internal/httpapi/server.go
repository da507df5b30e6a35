package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"schedd/internal/activity"
	"schedd/internal/registry"
	"schedd/pkg/types"
)

// Service defines the scheduler methods required by the HTTP API layer.
type Service interface {
	Descriptors() []types.BackendDescriptor
	Status() types.StatusResponse
	SetContext(ctx context.Context, tag string) types.SwitchResult
	Serve(ctx context.Context, req types.ServeRequest) (types.ServeResponse, error)
	Ready() bool
}

// Options configures the HTTP surface.
type Options struct {
	// Registry enables POST /backends dynamic registration when set.
	Registry *registry.Registry
	// Activity enables GET /activity when set.
	Activity *activity.Store
	// MaxBodyBytes bounds JSON request bodies; 0 means 1 MiB.
	MaxBodyBytes int64
	CORSEnabled  bool
	CORSOrigins  []string
	Logger       zerolog.Logger
}

// NewMux builds the router: /backends, /status, /context, /serve, /activity,
// /healthz, /readyz and /metrics.
func NewMux(svc Service, o Options) http.Handler {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	log := o.Logger

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if o.CORSEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/backends", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, types.DescriptorsResponse{Backends: svc.Descriptors()})
	})

	if o.Registry != nil {
		r.Post("/backends", func(w http.ResponseWriter, r *http.Request) {
			var desc types.BackendDescriptor
			if !decodeJSONBody(w, r, o.MaxBodyBytes, &desc) {
				return
			}
			if err := o.Registry.Register(desc); err != nil {
				writeJSONError(w, statusFor(err), err.Error())
				return
			}
			log.Info().Str("backend", desc.ID).Msg("backend registered via API")
			w.WriteHeader(http.StatusCreated)
			writeJSON(w, desc)
		})
	}

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Post("/context", func(w http.ResponseWriter, r *http.Request) {
		var req types.SwitchRequest
		if !decodeJSONBody(w, r, o.MaxBodyBytes, &req) {
			return
		}
		if strings.TrimSpace(req.Context) == "" {
			writeJSONError(w, http.StatusBadRequest, "context is required")
			return
		}
		res := svc.SetContext(r.Context(), req.Context)
		writeJSON(w, res)
	})

	r.Post("/serve", func(w http.ResponseWriter, r *http.Request) {
		var req types.ServeRequest
		if !decodeJSONBody(w, r, o.MaxBodyBytes, &req) {
			return
		}
		if req.Backend == "" && req.Context == "" && len(req.Payload) == 0 {
			writeJSONError(w, http.StatusBadRequest, "empty serve request")
			return
		}
		resp, err := svc.Serve(r.Context(), req)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				log.Info().Str("request_id", rid).Err(err).Msg("serve failed")
			}
			writeServeError(w, err)
			return
		}
		writeJSON(w, resp)
	})

	if o.Activity != nil {
		r.Get("/activity", func(w http.ResponseWriter, r *http.Request) {
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				limit, _ = strconv.Atoi(v)
			}
			entries, err := o.Activity.List(r.Context(), limit)
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, err.Error())
				return
			}
			writeJSON(w, map[string]any{"events": entries})
		})
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("loading"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// decodeJSONBody enforces the content type and body size before decoding.
// Writes the error response itself and returns false on failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
