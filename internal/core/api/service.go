// Package api provides the HTTP service implementation for the regosift
// filter API.
//
// Request flow:
//  1. Authentication middleware validates the X-Api-Key header and
//     injects tenant_id into the request context
//  2. Handlers validate request limits, run extraction and compilation,
//     and record an audit row per request
//  3. Responses are JSON; failure modes map to 400 (limits), 422
//     (compilation), 503 (database unavailable)
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/solatis/regosift/internal/core/auth"
	"github.com/solatis/regosift/internal/core/config"
	"github.com/solatis/regosift/internal/core/db"
	"github.com/solatis/regosift/internal/esquery"
	"github.com/solatis/regosift/internal/rego"
)

// FilterAPIService implements the filter API HTTP handlers.
// Thin orchestration layer delegating to rego, esquery, and database packages.
type FilterAPIService struct {
	queries   *db.Queries
	extractor *rego.Extractor
	compiler  *esquery.Compiler
	cfg       *config.FilterAPIConfig
}

// NewFilterAPIService creates service instance with dependencies.
func NewFilterAPIService(queries *db.Queries, cfg *config.FilterAPIConfig) (*FilterAPIService, error) {
	if queries == nil {
		return nil, fmt.Errorf("queries cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}

	return &FilterAPIService{
		queries:   queries,
		extractor: rego.NewExtractor(),
		compiler:  esquery.NewCompiler(),
		cfg:       cfg,
	}, nil
}

// Handler returns the full HTTP handler tree with authentication applied
// to all routes except the health check.
func (s *FilterAPIService) Handler(authenticator *auth.Authenticator) http.Handler {
	authed := http.NewServeMux()
	authed.HandleFunc(RouteFilter, s.handleFilter)
	authed.HandleFunc(RouteFilterRequests, s.handleListRequests)
	authed.HandleFunc(RouteFilterRequest, s.handleGetRequest)

	mux := http.NewServeMux()
	mux.HandleFunc(RouteHealth, s.handleHealth)
	mux.Handle("/", authenticator.Middleware(authed))
	return mux
}

// handleHealth reports liveness. Unauthenticated so load balancers can
// probe without credentials.
func (s *FilterAPIService) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON serializes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError sends a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
