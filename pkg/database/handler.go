package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kernel-tuning/tunedb/pkg/defaults"
	tderrors "github.com/kernel-tuning/tunedb/pkg/errors"
	"github.com/kernel-tuning/tunedb/pkg/serializer"
	"github.com/kernel-tuning/tunedb/pkg/server"
)

const (
	// DefaultResolveTimeout bounds one HTTP resolution.
	DefaultResolveTimeout = defaults.ResolveTimeout

	// FormatDefines asks for the plain "#define" text instead of JSON.
	FormatDefines = "defines"

	defaultCacheMaxAge = defaults.CacheMaxAge
)

// Handler serves resolutions over HTTP.
type Handler struct {
	resolver    Resolver
	version     string
	cacheMaxAge int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithCacheMaxAge sets the Cache-Control max-age of successful responses.
func WithCacheMaxAge(seconds int) HandlerOption {
	return func(h *Handler) {
		h.cacheMaxAge = seconds
	}
}

// NewHandler serves resolutions from r, stamping results with version.
func NewHandler(r Resolver, version string, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver:    r,
		version:     version,
		cacheMaxAge: defaultCacheMaxAge,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleParameters resolves one kernel.
//
//	GET /v1/parameters?kernel=Xgemm&precision=single&type=GPU&vendor=NVIDIA%20Corporation&device=Tesla%20V100
//
// Optional query parameters are capabilities, the platform extension string,
// and format=defines, which returns the "#define" text as text/plain.
func (h *Handler) HandleParameters(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	q := r.URL.Query()
	dev, p, err := parseDeviceQuery(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request", nil)
		return
	}
	kernel := strings.TrimSpace(q.Get("kernel"))
	if kernel == "" {
		server.WriteError(w, r, http.StatusBadRequest, tderrors.ErrCodeInvalidRequest,
			"Missing required parameter", false, map[string]any{"parameter": "kernel"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), DefaultResolveTimeout)
	defer cancel()

	db, err := h.resolver.Build(ctx, dev, kernel, p, nil)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to resolve tuning parameters", nil)
		return
	}

	h.setCacheHeaders(w)
	if q.Get("format") == FormatDefines {
		writeDefines(w, db.Defines())
		return
	}
	serializer.RespondJSON(w, http.StatusOK, db.Result(h.version))
}

// HandleRoutine resolves every kernel of a routine.
//
//	GET /v1/routine?routine=gemm&precision=single&type=GPU&vendor=AMD
//
// Instead of routine, kernels takes a comma-separated kernel list.
func (h *Handler) HandleRoutine(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	q := r.URL.Query()
	dev, p, err := parseDeviceQuery(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request", nil)
		return
	}

	kernels, err := parseRoutineKernels(q)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid request", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), DefaultResolveTimeout)
	defer cancel()

	routine, err := buildRoutine(ctx, h.resolver, dev, kernels, p, nil)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to resolve routine parameters", nil)
		return
	}

	slog.Debug("routine resolved", "kernels", len(kernels), "precision", p.String())

	h.setCacheHeaders(w)
	if q.Get("format") == FormatDefines {
		writeDefines(w, routine.Defines())
		return
	}
	serializer.RespondJSON(w, http.StatusOK, routine.Result(h.version))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, tderrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method": r.Method,
		})
	return false
}

func (h *Handler) setCacheHeaders(w http.ResponseWriter) {
	if h.cacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.cacheMaxAge))
	}
}

func writeDefines(w http.ResponseWriter, text string) {
	serializer.RespondText(w, http.StatusOK, text)
}

// parseDeviceQuery reads the device identity and precision shared by all
// resolution endpoints.
func parseDeviceQuery(q url.Values) (Identity, Precision, error) {
	for _, name := range []string{"precision", "type", "vendor"} {
		if strings.TrimSpace(q.Get(name)) == "" {
			return Identity{}, "", tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
				"Missing required parameter", nil, map[string]any{"parameter": name})
		}
	}

	p, err := ParsePrecision(q.Get("precision"))
	if err != nil {
		return Identity{}, "", tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
			"Invalid precision", err, map[string]any{"valid": ConcretePrecisions()})
	}
	if !p.IsConcrete() {
		return Identity{}, "", tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
			"Precision must be concrete", nil, map[string]any{"valid": ConcretePrecisions()})
	}

	dev := NewIdentity(q.Get("type"), q.Get("vendor"), q.Get("device"), q.Get("capabilities"))
	return dev, p, nil
}

func parseRoutineKernels(q url.Values) ([]string, error) {
	name := strings.TrimSpace(q.Get("routine"))
	if name != "" && strings.TrimSpace(q.Get("kernels")) != "" {
		return nil, tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
			"Parameters routine and kernels are mutually exclusive", nil,
			map[string]any{"parameters": []string{"routine", "kernels"}})
	}
	if name != "" {
		kernels, ok := RoutineKernels(name)
		if !ok {
			return nil, tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
				"Unknown routine", nil, map[string]any{"routine": name, "valid": RoutineNames()})
		}
		return kernels, nil
	}

	var kernels []string
	for _, k := range strings.Split(q.Get("kernels"), ",") {
		if k = strings.TrimSpace(k); k != "" {
			kernels = append(kernels, k)
		}
	}
	if len(kernels) == 0 {
		return nil, tderrors.WrapWithContext(tderrors.ErrCodeInvalidRequest,
			"Missing required parameter", nil, map[string]any{"parameter": "routine or kernels"})
	}
	return kernels, nil
}
