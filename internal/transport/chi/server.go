package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetdex/internal/domain"
	"github.com/kailas-cloud/assetdex/internal/domain/facet"
	"github.com/kailas-cloud/assetdex/internal/domain/search/order"
	"github.com/kailas-cloud/assetdex/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/assetdex/internal/logger"
	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/assetdex/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/assetdex/internal/usecase/session"
)

// MaxLimit caps the page size of a search response. It matches the limit validate tags.
const MaxLimit = 500

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search engine over HTTP.
type Server struct {
	search        searchuc.Searcher
	taxonomy      *facet.Taxonomy
	sessions      *sessionuc.Registry
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server. sessions can be nil, which disables the session routes.
func NewServer(
	search searchuc.Searcher,
	taxonomy *facet.Taxonomy,
	sessions *sessionuc.Registry,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		taxonomy: taxonomy,
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, ErrorCodeSessionNotFound),
		sentinelHandler(domain.ErrSessionClosed, http.StatusGone, ErrorCodeSessionClosed),
	}
	return s
}

// Mount registers the API routes on r.
func (s *Server) Mount(r gochi.Router) {
	r.Post("/search", s.Search)
	r.Get("/facets", s.ListFacets)
	if s.sessions != nil {
		r.Post("/sessions", s.CreateSession)
		r.Post("/sessions/{id}/queries", s.SubmitQuery)
		r.Get("/sessions/{id}/latest", s.LatestResult)
		r.Delete("/sessions/{id}", s.DeleteSession)
	}
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	d, err := descriptorFromRequest(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	set, err := s.search.Search(r.Context(), d)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, setToResponse(set, req.Offset, req.Limit))
}

// ListFacets handles GET /facets.
func (s *Server) ListFacets(w http.ResponseWriter, _ *http.Request) {
	defs := s.taxonomy.Definitions()
	groups := make([]FacetGroup, len(defs))
	for i, d := range defs {
		groups[i] = FacetGroup{Field: string(d.Field), Label: d.Label, Values: d.Values}
	}
	writeJSON(w, http.StatusOK, FacetsResponse{Groups: groups})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.sessions.Create()
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, SessionResponse{ID: id})
}

// SubmitQuery handles POST /sessions/{id}/queries.
func (s *Server) SubmitQuery(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.Get(gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}
	d, err := descriptorFromRequest(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	h, err := c.Submit(d)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, SubmitResponse{Seq: h.Seq(), State: string(c.State())})
}

// LatestResult handles GET /sessions/{id}/latest.
func (s *Server) LatestResult(w http.ResponseWriter, r *http.Request) {
	c, err := s.sessions.Get(gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	if err := getValidator().check(windowParams{Offset: offset, Limit: limit}); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, latestToResponse(c, offset, limit))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(gochi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		CorpusSize: report.CorpusSize,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (SearchRequest, bool) {
	var req SearchRequest
	// An empty body is an empty query.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return SearchRequest{}, false
	}
	if err := getValidator().check(req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return SearchRequest{}, false
	}
	return req, true
}

// descriptorFromRequest merges field scopes parsed from the query box with picked facets.
// Unknown facet fields are passed through and match nothing.
func descriptorFromRequest(req SearchRequest) (query.Descriptor, error) {
	scoped := query.ParseScoped(req.Query)
	selections := scoped.Selections
	for _, f := range req.Facets {
		field, err := facet.ParseField(f.Field)
		if err != nil {
			field = facet.Field(strings.ToLower(strings.TrimSpace(f.Field)))
		}
		selections = append(selections, facet.Selection{Field: field, Value: f.Value})
	}

	d, err := query.New(scoped.FreeText, selections, req.Filters, order.Order(strings.ToLower(req.Order)))
	if err != nil {
		return query.Descriptor{}, fmt.Errorf("build query: %w", err)
	}
	return d, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-safe message. Query errors carry their detail.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrSessionNotFound,
		domain.ErrSessionClosed,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
