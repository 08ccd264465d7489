package api

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/solatis/regosift/internal/core/auth"
	"github.com/solatis/regosift/internal/core/config"
	"github.com/solatis/regosift/internal/esquery"
	"github.com/solatis/regosift/internal/types"
)

// FilterRequest is the POST /v1/filter request body.
// Input carries the values referenced by input.<name> in the policy.
type FilterRequest struct {
	Policy string         `json:"policy"`
	Input  types.Bindings `json:"input"`
}

// FilterResponse is the POST /v1/filter response body.
type FilterResponse struct {
	RequestID       types.RequestID        `json:"request_id"`
	ConditionGroups []types.ConditionGroup `json:"conditionGroups"`
	Query           *esquery.BoolQuery     `json:"query"`
}

// handleFilter extracts condition groups from policy text and compiles
// them into a boolean query. Each request is recorded in the audit log
// regardless of outcome.
func (s *FilterAPIService) handleFilter(w http.ResponseWriter, r *http.Request) {
	// MaxBytesReader bounds the body before JSON decoding; the policy
	// limit is checked again after decode since JSON overhead varies
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxPolicySize)*2)

	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if err := validateFilterRequest(&req, s.cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := types.NewRequestID()
	policyHash := fmt.Sprintf("%x", sha256.Sum256([]byte(req.Policy)))

	groups := s.extractor.Extract(req.Policy)
	if groups == nil {
		// No matched blocks serializes as [] rather than null
		groups = []types.ConditionGroup{}
	}

	query, err := s.compiler.Compile(groups, req.Input)
	if err != nil {
		s.recordRequest(r, requestID, policyHash, groups, "error", err.Error())
		if errors.Is(err, types.ErrBindingNotFound) || errors.Is(err, types.ErrUnsupportedOperator) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.recordRequest(r, requestID, policyHash, groups, "success", "")

	writeJSON(w, http.StatusOK, FilterResponse{
		RequestID:       requestID,
		ConditionGroups: groups,
		Query:           query,
	})
}

// validateFilterRequest enforces per-request resource limits.
func validateFilterRequest(req *FilterRequest, cfg *config.FilterAPIConfig) error {
	if req.Policy == "" {
		return fmt.Errorf("policy is required")
	}
	if len(req.Policy) > cfg.MaxPolicySize {
		return fmt.Errorf("%w: %d bytes (max %d)", types.ErrPolicyTooLarge, len(req.Policy), cfg.MaxPolicySize)
	}
	if len(req.Input) > cfg.MaxBindings {
		return fmt.Errorf("%w: %d (max %d)", types.ErrTooManyBindings, len(req.Input), cfg.MaxBindings)
	}
	for name, value := range req.Input {
		if len(value) > types.MaxBindingValueLength {
			return fmt.Errorf("%w: %q is %d bytes (max %d)", types.ErrBindingValueTooLong, name, len(value), types.MaxBindingValueLength)
		}
	}
	return nil
}

// recordRequest inserts an audit row for the request. Best-effort: an
// audit failure is logged but never fails the caller's request.
func (s *FilterAPIService) recordRequest(r *http.Request, requestID types.RequestID, policyHash string, groups []types.ConditionGroup, outcome, errorMessage string) {
	clauseCount := 0
	for _, g := range groups {
		clauseCount += len(g)
	}

	tenantID := auth.TenantIDFromContext(r.Context())
	_, err := s.queries.Exec("insert-filter-request",
		string(requestID),
		tenantID,
		policyHash,
		len(groups),
		clauseCount,
		outcome,
		errorMessage,
		time.Now().UTC(),
	)
	if err != nil {
		log.Error().Err(err).Str("request_id", string(requestID)).Msg("failed to record filter request")
	}
}
